package sse

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()

	// Wait for the subscription to land in the broker loop.
	deadline := time.After(time.Second)
	for b.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscription never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	b.PublishReload(3)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: site.reloaded") {
			t.Errorf("message = %q", s)
		}
		if !strings.Contains(s, `"documents":3`) {
			t.Errorf("message = %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroker()
	b.Close()
	b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Errorf("count after close = %d", n)
	}
	// Publishing after close must not panic or block.
	b.PublishReload(1)
}
