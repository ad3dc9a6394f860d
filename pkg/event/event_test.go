package event_test

import (
	"testing"
	"time"

	"github.com/patial10/Construction-App/pkg/event"
)

func TestListenAndFire(t *testing.T) {
	t.Cleanup(event.Flush)

	var got interface{}
	event.Listen("order.booked", func(payload interface{}) {
		got = payload
	})

	event.Fire("order.booked", "payload")
	if got != "payload" {
		t.Errorf("expected handler to receive payload, got %v", got)
	}
}

func TestFireWithoutListeners(t *testing.T) {
	t.Cleanup(event.Flush)
	event.Fire("nobody.listens", nil) // must not panic
}

func TestSubscribeReceivesMessages(t *testing.T) {
	t.Cleanup(event.Flush)

	sub := event.Subscribe("order.booked", "order.deleted")
	defer sub.Close()

	event.Fire("order.booked", 1)
	event.Fire("order.deleted", 2)
	event.Fire("order.updated", 3) // not subscribed

	msg := <-sub.C
	if msg.Event != "order.booked" || msg.Payload != 1 {
		t.Errorf("unexpected message: %+v", msg)
	}
	msg = <-sub.C
	if msg.Event != "order.deleted" || msg.Payload != 2 {
		t.Errorf("unexpected message: %+v", msg)
	}

	select {
	case extra := <-sub.C:
		t.Errorf("unexpected extra message: %+v", extra)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestCloseDetachesSubscription(t *testing.T) {
	t.Cleanup(event.Flush)

	sub := event.Subscribe("order.booked")
	sub.Close()

	event.Fire("order.booked", 1) // must not panic on closed channel

	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel")
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	t.Cleanup(event.Flush)

	sub := event.Subscribe("tick")
	defer sub.Close()

	// Overfill the 64-slot buffer; Fire must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			event.Fire("tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Fire blocked on a slow subscriber")
	}
}
