package models

import (
	"fmt"
	"strings"
)

// Draft represents the in-progress compose buffer
type Draft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftField names one of the editable draft fields
type DraftField string

const (
	FieldTo      DraftField = "to"
	FieldSubject DraftField = "subject"
	FieldBody    DraftField = "body"
)

// ParseDraftField converts user input into a DraftField.
// "recipient" is accepted as an alias of "to".
func ParseDraftField(s string) (DraftField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to", "recipient":
		return FieldTo, nil
	case "subject":
		return FieldSubject, nil
	case "body", "content":
		return FieldBody, nil
	}
	return "", fmt.Errorf("unknown draft field %q", s)
}

// IsEmpty reports whether no field has any content
func (d Draft) IsEmpty() bool {
	return d.To == "" && d.Subject == "" && d.Body == ""
}

// Missing returns the fields that are empty, in form order.
// Whitespace counts as content.
func (d Draft) Missing() []DraftField {
	var missing []DraftField
	if d.To == "" {
		missing = append(missing, FieldTo)
	}
	if d.Subject == "" {
		missing = append(missing, FieldSubject)
	}
	if d.Body == "" {
		missing = append(missing, FieldBody)
	}
	return missing
}

// Get returns the value of a single field
func (d Draft) Get(field DraftField) string {
	switch field {
	case FieldTo:
		return d.To
	case FieldSubject:
		return d.Subject
	case FieldBody:
		return d.Body
	}
	return ""
}
