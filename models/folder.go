package models

import (
	"fmt"
	"strings"
)

// Folder is one of the named views over the message collection
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderStarred Folder = "starred"
	FolderSent    Folder = "sent"
)

// Folders lists the navigation entries in display order
var Folders = []Folder{FolderInbox, FolderStarred, FolderSent}

// ParseFolder converts a route or form value into a Folder
func ParseFolder(s string) (Folder, error) {
	f := Folder(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FolderInbox, FolderStarred, FolderSent:
		return f, nil
	}
	return "", fmt.Errorf("unknown folder %q", s)
}

// Includes reports whether a message belongs to the folder's view.
// Only the starred folder filters; inbox and sent show the whole collection.
func (f Folder) Includes(m Message) bool {
	if f == FolderStarred {
		return m.Starred
	}
	return true
}

// LabelKey returns the i18n message id for the folder name
func (f Folder) LabelKey() string {
	return "folder_" + string(f)
}
