package mailbox

import (
	"fmt"

	"lilmail/models"
)

// Options controls how sent messages are built and how cancel treats the draft
type Options struct {
	SenderAddress     string
	NowLabel          string
	PreviewLength     int
	KeepDraftOnCancel bool
}

// DefaultOptions returns the options used when no configuration is given
func DefaultOptions() Options {
	return Options{
		SenderAddress: "tu@correo.com",
		NowLabel:      "Ahora",
		PreviewLength: 50,
	}
}

// Mode is one of the three reachable presentation states
type Mode int

const (
	ModeIdle Mode = iota
	ModeViewing
	ModeComposing
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeComposing:
		return "composing"
	default:
		return "idle"
	}
}

// State is an immutable snapshot of one mailbox session.
// Every operation returns a new State; the receiver is never modified.
type State struct {
	messages  []models.Message
	folder    models.Folder
	selected  int64 // 0 means no selection; ids are always positive
	composing bool
	draft     models.Draft
	lastID    int64
	opts      Options
}

// NewState builds a state over a copy of messages, starting in the inbox
func NewState(messages []models.Message, opts Options) State {
	s := State{
		messages: append([]models.Message(nil), messages...),
		folder:   models.FolderInbox,
		opts:     opts,
	}
	for _, m := range s.messages {
		if m.ID > s.lastID {
			s.lastID = m.ID
		}
	}
	return s
}

// clone copies the collection so the new snapshot can be modified freely
func (s State) clone() State {
	s.messages = append([]models.Message(nil), s.messages...)
	return s
}

func (s State) indexOf(id int64) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Messages returns a copy of the whole collection in order
func (s State) Messages() []models.Message {
	return append([]models.Message(nil), s.messages...)
}

// Message looks up a message by id
func (s State) Message(id int64) (models.Message, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.messages[i], true
	}
	return models.Message{}, false
}

func (s State) Folder() models.Folder { return s.folder }

func (s State) Composing() bool { return s.composing }

func (s State) Draft() models.Draft { return s.draft }

func (s State) Options() Options { return s.opts }

// SelectedID returns the selected message id, if any
func (s State) SelectedID() (int64, bool) {
	return s.selected, s.selected != 0
}

// Mode reports which of idle, viewing or composing the state is in
func (s State) Mode() Mode {
	switch {
	case s.composing:
		return ModeComposing
	case s.selected != 0:
		return ModeViewing
	default:
		return ModeIdle
	}
}

// UnreadCount counts unread messages across the whole collection
func (s State) UnreadCount() int {
	n := 0
	for _, m := range s.messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// SelectMessage marks the message read, selects it and leaves compose mode
func (s State) SelectMessage(id int64) (State, Event) {
	i := s.indexOf(id)
	if i < 0 {
		return s, Event{Kind: EventNone, MessageID: id}
	}
	next := s.clone()
	next.messages[i].Read = true
	next.selected = id
	next.composing = false
	msg := next.messages[i]
	return next, Event{Kind: EventMessageRead, MessageID: id, Message: &msg}
}

// ToggleStar flips the starred flag without touching selection or read state
func (s State) ToggleStar(id int64) (State, Event) {
	i := s.indexOf(id)
	if i < 0 {
		return s, Event{Kind: EventNone, MessageID: id}
	}
	next := s.clone()
	next.messages[i].Starred = !next.messages[i].Starred
	msg := next.messages[i]
	return next, Event{Kind: EventStarToggled, MessageID: id, Message: &msg}
}

// DeleteMessage removes the message, keeping the order of the rest
func (s State) DeleteMessage(id int64) (State, Event) {
	i := s.indexOf(id)
	if i < 0 {
		return s, Event{Kind: EventNone, MessageID: id}
	}
	removed := s.messages[i]
	next := s
	next.messages = make([]models.Message, 0, len(s.messages)-1)
	next.messages = append(next.messages, s.messages[:i]...)
	next.messages = append(next.messages, s.messages[i+1:]...)
	if next.selected == id {
		next.selected = 0
	}
	return next, Event{Kind: EventMessageDeleted, MessageID: id, Message: &removed}
}

// BeginCompose enters compose mode. A partially typed draft is kept.
func (s State) BeginCompose() (State, Event) {
	next := s
	next.composing = true
	next.selected = 0
	return next, Event{Kind: EventComposeOpened}
}

// UpdateDraft replaces one draft field
func (s State) UpdateDraft(field models.DraftField, value string) (State, Event, error) {
	next := s
	switch field {
	case models.FieldTo:
		next.draft.To = value
	case models.FieldSubject:
		next.draft.Subject = value
	case models.FieldBody:
		next.draft.Body = value
	default:
		return s, Event{Kind: EventNone}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return next, Event{Kind: EventDraftUpdated, Field: field}, nil
}

// CancelCompose leaves compose mode without touching the collection.
// The draft is cleared unless Options.KeepDraftOnCancel is set.
func (s State) CancelCompose() (State, Event) {
	next := s
	next.composing = false
	if !s.opts.KeepDraftOnCancel {
		next.draft = models.Draft{}
	}
	return next, Event{Kind: EventComposeCancelled}
}

// SendDraft turns a complete draft into a read message at the head of the collection.
// An incomplete draft yields a *ValidationError and the unchanged state.
func (s State) SendDraft() (State, Event, error) {
	if missing := s.draft.Missing(); len(missing) > 0 {
		return s, Event{Kind: EventNone}, &ValidationError{Kind: KindIncompleteDraft, Missing: missing}
	}

	id := s.lastID + 1
	msg := models.Message{
		ID:      id,
		From:    s.opts.SenderAddress,
		Subject: s.draft.Subject,
		Preview: Preview(s.draft.Body, s.opts.PreviewLength),
		Body:    s.draft.Body,
		Date:    s.opts.NowLabel,
		Read:    true,
	}

	next := s
	next.messages = make([]models.Message, 0, len(s.messages)+1)
	next.messages = append(next.messages, msg)
	next.messages = append(next.messages, s.messages...)
	next.lastID = id
	next.draft = models.Draft{}
	next.composing = false

	sent := msg
	return next, Event{Kind: EventMessageSent, MessageID: id, Message: &sent}, nil
}

// SetFolder switches the folder view; selection and compose mode are untouched
func (s State) SetFolder(folder models.Folder) (State, Event) {
	next := s
	next.folder = folder
	return next, Event{Kind: EventFolderChanged, Folder: folder}
}

// ReplyTo requests a reply to an existing message. It never changes state.
func (s State) ReplyTo(id int64) (State, Event) {
	msg, ok := s.Message(id)
	if !ok {
		return s, Event{Kind: EventNone, MessageID: id}
	}
	return s, Event{Kind: EventReplyRequested, MessageID: id, Message: &msg}
}

// Preview truncates body to n runes and appends an ellipsis
func Preview(body string, n int) string {
	runes := []rune(body)
	if n >= 0 && len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
