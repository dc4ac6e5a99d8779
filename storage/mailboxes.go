package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"lilmail/mailbox"
	"lilmail/utils"
)

// MailboxStore keeps one mailbox session per browser session in memory.
// Entries expire after ttl without access; nothing is written to disk.
type MailboxStore struct {
	cache *utils.MemoryCache
	ttl   time.Duration
	opts  mailbox.Options

	mu sync.Mutex // serializes create-on-miss
}

// NewMailboxStore creates a store whose new sessions use opts
func NewMailboxStore(ttl time.Duration, opts mailbox.Options) *MailboxStore {
	cache := utils.NewMemoryCache()
	cache.OnEvict(func(key string, _ interface{}) {
		utils.Log.WithField("mailbox", key).Debug("Mailbox session expired")
	})
	return &MailboxStore{
		cache: cache,
		ttl:   ttl,
		opts:  opts,
	}
}

// NewMailboxID returns a fresh identifier for a browser session
func NewMailboxID() string {
	return uuid.New().String()
}

// Start begins sweeping expired sessions
func (s *MailboxStore) Start(interval time.Duration) {
	s.cache.StartCleanup(interval)
}

// Stop ends the sweeper
func (s *MailboxStore) Stop() {
	s.cache.Stop()
}

// Get returns an existing session and refreshes its expiry
func (s *MailboxStore) Get(id string) (*mailbox.Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	s.cache.Touch(id, s.ttl)
	return v.(*mailbox.Session), true
}

// GetOrCreate returns the session for id, seeding a new one on miss
func (s *MailboxStore) GetOrCreate(id string) *mailbox.Session {
	if sess, ok := s.Get(id); ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.Get(id); ok {
		return sess
	}
	sess := mailbox.NewSession(id, s.opts)
	s.cache.Set(id, sess, s.ttl)
	utils.Log.WithField("mailbox", id).Info("Mailbox session created")
	return sess
}

// Remove drops a session
func (s *MailboxStore) Remove(id string) {
	s.cache.Delete(id)
}

// Len returns the number of live sessions
func (s *MailboxStore) Len() int {
	return s.cache.Size()
}
