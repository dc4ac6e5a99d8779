package mailbox

import "lilmail/models"

// EventKind names what an operation did
type EventKind string

const (
	EventNone             EventKind = "none"
	EventMessageRead      EventKind = "message_read"
	EventStarToggled      EventKind = "star_toggled"
	EventMessageDeleted   EventKind = "message_deleted"
	EventComposeOpened    EventKind = "compose_opened"
	EventDraftUpdated     EventKind = "draft_updated"
	EventComposeCancelled EventKind = "compose_cancelled"
	EventMessageSent      EventKind = "message_sent"
	EventFolderChanged    EventKind = "folder_changed"
	EventReplyRequested   EventKind = "reply_requested"
)

// Event is the result value of every mailbox operation.
// Presentation layers decide how to surface it (flash notice, status bar, push stream).
type Event struct {
	Kind      EventKind         `json:"kind"`
	MessageID int64             `json:"message_id,omitempty"`
	Message   *models.Message   `json:"message,omitempty"`
	Folder    models.Folder     `json:"folder,omitempty"`
	Field     models.DraftField `json:"field,omitempty"`
}

// Changed reports whether the operation produced a new state
func (e Event) Changed() bool {
	return e.Kind != EventNone && e.Kind != EventReplyRequested
}
