package wstap

import (
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for _, payload := range []string{"a", "b", "c"} {
		q.Push(Message{Payload: payload})
	}

	for _, want := range []string{"a", "b", "c"} {
		msg, ok := q.Pop(time.Second)
		if !ok {
			t.Fatalf("Pop() timed out; want message %q", want)
		}
		if msg.Payload != want {
			t.Fatalf("Pop() payload = %q; want %q", msg.Payload, want)
		}
	}

	if got := q.Len(); got != 0 {
		t.Fatalf("Len() = %d; want 0", got)
	}
}

func TestQueuePop(t *testing.T) {
	t.Run("times_out_on_empty_queue", func(t *testing.T) {
		q := NewQueue()
		start := time.Now()
		_, ok := q.Pop(50 * time.Millisecond)
		if ok {
			t.Fatalf("Pop() = message; want timeout")
		}
		if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
			t.Fatalf("Pop() returned after %v; want at least 50ms", elapsed)
		}
	})

	t.Run("returns_immediately_when_nonempty", func(t *testing.T) {
		q := NewQueue()
		q.Push(Message{Payload: "x"})

		start := time.Now()
		msg, ok := q.Pop(5 * time.Second)
		if !ok {
			t.Fatalf("Pop() timed out on non-empty queue")
		}
		if msg.Payload != "x" {
			t.Fatalf("Pop() payload = %q; want %q", msg.Payload, "x")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("Pop() took %v on non-empty queue", elapsed)
		}
	})

	t.Run("push_wakes_blocked_pop", func(t *testing.T) {
		q := NewQueue()

		got := make(chan Message, 1)
		go func() {
			msg, ok := q.Pop(5 * time.Second)
			if ok {
				got <- msg
			}
			close(got)
		}()

		time.Sleep(20 * time.Millisecond)
		q.Push(Message{Payload: "late"})

		select {
		case msg, ok := <-got:
			if !ok {
				t.Fatalf("Pop() timed out; want pushed message")
			}
			if msg.Payload != "late" {
				t.Fatalf("Pop() payload = %q; want %q", msg.Payload, "late")
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("blocked Pop() never woke up")
		}
	})

	t.Run("non_positive_timeout_checks_once", func(t *testing.T) {
		q := NewQueue()
		if _, ok := q.Pop(0); ok {
			t.Fatalf("Pop(0) = message on empty queue")
		}
		q.Push(Message{Payload: "x"})
		if _, ok := q.Pop(0); !ok {
			t.Fatalf("Pop(0) missed buffered message")
		}
	})
}

func TestQueueTryPop(t *testing.T) {
	q := NewQueue()
	if _, ok := q.TryPop(); ok {
		t.Fatalf("TryPop() = message on empty queue")
	}

	q.Push(Message{Payload: "x"})
	msg, ok := q.TryPop()
	if !ok || msg.Payload != "x" {
		t.Fatalf("TryPop() = %q, %v; want %q, true", msg.Payload, ok, "x")
	}
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue()
	for _, payload := range []string{"a", "b"} {
		q.Push(Message{Payload: payload})
	}

	out := q.Drain()
	if len(out) != 2 || out[0].Payload != "a" || out[1].Payload != "b" {
		t.Fatalf("Drain() = %v; want [a b]", out)
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("Len() after Drain() = %d; want 0", got)
	}
}

func TestQueueProducerConsumer(t *testing.T) {
	q := NewQueue()
	const count = 500

	go func() {
		for i := 0; i < count; i++ {
			q.Push(Message{Timestamp: float64(i)})
		}
	}()

	for i := 0; i < count; i++ {
		msg, ok := q.Pop(5 * time.Second)
		if !ok {
			t.Fatalf("Pop() timed out waiting for message %d", i)
		}
		if msg.Timestamp != float64(i) {
			t.Fatalf("message %d out of order: timestamp = %v", i, msg.Timestamp)
		}
	}
}
