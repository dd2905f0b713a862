package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestHub() *Hub {
	nop := zerolog.Nop()
	return NewHub(&nop)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func drainEvents(c *Client) {
	for {
		select {
		case <-c.Events:
		default:
			return
		}
	}
}

func mustNoEvents(t *testing.T, clients ...*Client) {
	t.Helper()

	for _, c := range clients {
		select {
		case ev := <-c.Events:
			t.Fatalf("unexpected event for %s: %+v", c.ID, ev)
		default:
		}
	}
}
