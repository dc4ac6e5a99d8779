package web

import (
	"testing"
	"time"
)

func TestStopEndsNoticeSweeper(t *testing.T) {
	h := NewMailboxHandler()

	select {
	case <-h.Done():
		t.Fatal("sweeper stopped before Stop")
	default:
	}

	h.Stop()
	h.Stop()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("expected sweeper to stop")
	}
}
