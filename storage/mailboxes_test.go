package storage

import (
	"testing"
	"time"

	"lilmail/mailbox"
)

func TestMailboxStoreGetOrCreate(t *testing.T) {
	store := NewMailboxStore(time.Hour, mailbox.DefaultOptions())

	a := store.GetOrCreate("a")
	if a.ID() != "a" {
		t.Errorf("expected id a, got %s", a.ID())
	}
	if got := store.GetOrCreate("a"); got != a {
		t.Error("expected the same session on second lookup")
	}

	a.DeleteMessage(1)
	b := store.GetOrCreate("b")
	if len(b.View().Messages) != 4 {
		t.Error("new sessions must start from the full seed collection")
	}
	if len(a.View().Messages) != 3 {
		t.Error("sessions must not share state")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", store.Len())
	}

	store.Remove("a")
	if _, ok := store.Get("a"); ok {
		t.Error("expected a to be removed")
	}
}

func TestNewMailboxIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewMailboxID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
