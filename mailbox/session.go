package mailbox

import (
	"sync"

	"lilmail/models"
	"lilmail/utils"
)

// Session owns the current State of one mailbox and serializes operations on it.
// Each operation swaps in a new snapshot and notifies subscribers with the resulting Event.
// Subscribers run outside the state lock but see events in the order the snapshots were swapped.
// A subscriber must not call operations on the same session.
type Session struct {
	id  string
	log *utils.Logger

	// emit is taken before mu is released so deliveries keep swap order
	emit sync.Mutex

	mu          sync.Mutex
	state       State
	subscribers map[int]func(Event)
	nextSub     int
}

// NewSession creates a session over the seed collection
func NewSession(id string, opts Options) *Session {
	return NewSessionWith(id, SeedMessages(), opts)
}

// NewSessionWith creates a session over the given messages
func NewSessionWith(id string, messages []models.Message, opts Options) *Session {
	return &Session{
		id:          id,
		log:         utils.Log.WithField("mailbox", id),
		state:       NewState(messages, opts),
		subscribers: make(map[int]func(Event)),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the current snapshot
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the projection of the current snapshot
func (s *Session) View() View {
	return s.State().View()
}

// Subscribe registers fn to receive every event that changes or concerns the mailbox.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) apply(op func(State) (State, Event, error)) (Event, error) {
	s.mu.Lock()
	next, ev, err := op(s.state)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("Mailbox operation rejected: %v", err)
		return ev, err
	}
	s.state = next
	if ev.Kind == EventNone {
		s.mu.Unlock()
		return ev, nil
	}
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.emit.Lock()
	s.mu.Unlock()

	s.log.WithField("event", ev.Kind).Debug("Mailbox transition to %s", next.Mode())
	for _, fn := range subs {
		fn(ev)
	}
	s.emit.Unlock()
	return ev, nil
}

func (s *Session) applyTotal(op func(State) (State, Event)) Event {
	ev, _ := s.apply(func(st State) (State, Event, error) {
		next, ev := op(st)
		return next, ev, nil
	})
	return ev
}

// SelectMessage opens a message for reading and marks it read
func (s *Session) SelectMessage(id int64) Event {
	return s.applyTotal(func(st State) (State, Event) { return st.SelectMessage(id) })
}

// ToggleStar flips the starred flag of a message
func (s *Session) ToggleStar(id int64) Event {
	return s.applyTotal(func(st State) (State, Event) { return st.ToggleStar(id) })
}

// DeleteMessage removes a message from the collection
func (s *Session) DeleteMessage(id int64) Event {
	return s.applyTotal(func(st State) (State, Event) { return st.DeleteMessage(id) })
}

// BeginCompose enters compose mode
func (s *Session) BeginCompose() Event {
	return s.applyTotal(State.BeginCompose)
}

// UpdateDraft replaces one draft field
func (s *Session) UpdateDraft(field models.DraftField, value string) (Event, error) {
	return s.apply(func(st State) (State, Event, error) { return st.UpdateDraft(field, value) })
}

// CancelCompose leaves compose mode
func (s *Session) CancelCompose() Event {
	return s.applyTotal(State.CancelCompose)
}

// SendDraft sends the current draft or returns a *ValidationError
func (s *Session) SendDraft() (Event, error) {
	ev, err := s.apply(State.SendDraft)
	if err == nil {
		s.log.Info("Message sent: id=%d subject=%q", ev.MessageID, ev.Message.Subject)
	}
	return ev, err
}

// SetFolder switches the folder view
func (s *Session) SetFolder(folder models.Folder) Event {
	return s.applyTotal(func(st State) (State, Event) { return st.SetFolder(folder) })
}

// ReplyTo requests a reply to a message without changing state
func (s *Session) ReplyTo(id int64) Event {
	return s.applyTotal(func(st State) (State, Event) { return st.ReplyTo(id) })
}
