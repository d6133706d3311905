package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"villainstrike/internal/events"
)

func TestBroadcastDeliversToSubscribers(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	bus.PublishTimer(events.TimerEvent{Remaining: 12})

	select {
	case msg := <-ch:
		if msg.Event != "timer" {
			t.Fatalf("event = %q, want timer", msg.Event)
		}
		var ev events.TimerEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Remaining != 12 {
			t.Fatalf("remaining = %d, want 12", ev.Remaining)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	slow := b.Subscribe()
	fast := b.Subscribe()
	defer b.Unsubscribe(fast)

	// fill the slow client's channel
	for i := 0; i < cap(slow); i++ {
		b.Broadcast("hit", events.HitEvent{})
		<-fast
	}

	b.Broadcast("phase", events.PhaseChangeEvent{Phase: "active"})

	select {
	case msg := <-fast:
		if msg.Event != "phase" {
			t.Fatalf("event = %q, want phase", msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("fast client never got the message")
	}

	if len(slow) != cap(slow) {
		t.Fatalf("slow client len = %d, want %d", len(slow), cap(slow))
	}
	b.Unsubscribe(slow)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(events.NewBus())
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after unsubscribe")
	}
}

func TestCloseStopsPumpAndClosesSubscribers(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Fatal("subscriber channel still open after close")
	}

	// A closed broadcaster must stop draining the bus. The buffered
	// publish lands in the channel and stays there.
	bus.PublishTimer(events.TimerEvent{Remaining: 3})
	time.Sleep(50 * time.Millisecond)
	if len(bus.Timer) != 1 {
		t.Fatalf("timer channel len = %d, want 1", len(bus.Timer))
	}

	// Close and Unsubscribe stay safe after shutdown.
	b.Close()
	b.Unsubscribe(ch)
}
