package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	ev, err := NewEvent(TopicJump, "s-1", map[string]string{"center": "N7"})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	msg, err := encode(ev)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(msg[:5]) != "jump:" {
		t.Errorf("message prefix = %q", msg[:5])
	}

	got, err := decode(msg)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Topic != TopicJump || got.SessionID != "s-1" || string(got.Payload) != `{"center":"N7"}` {
		t.Errorf("decoded = %+v", got)
	}

	if _, err := decode([]byte("no prefix")); err == nil {
		t.Error("message without prefix should fail")
	}
	if _, err := NewEvent(TopicAttack, "s", func() {}); err == nil {
		t.Error("unmarshalable payload should fail")
	}
}

func TestSocketPublisher_Delivers(t *testing.T) {
	addr := "inproc://events-delivers"
	var (
		mu       sync.Mutex
		observed []string
	)
	p, err := Listen(SocketConfig{
		Address: addr,
		OnPublish: func(topic string, err error) {
			mu.Lock()
			observed = append(observed, topic)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer p.Close()

	s, err := Subscribe(addr, TopicAttack)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer s.Close()

	// PUB drops messages until the subscription is attached, so retry
	ctx := context.Background()
	var got Event
	for attempt := 0; attempt < 50; attempt++ {
		jump, _ := NewEvent(TopicJump, "s-1", nil)
		attack, _ := NewEvent(TopicAttack, "s-1", map[string]int{"reduction": 15})
		p.Publish(ctx, jump)
		p.Publish(ctx, attack)

		got, err = s.Recv(100 * time.Millisecond)
		if err == nil {
			break
		}
	}
	if err != nil {
		t.Fatalf("no event received: %v", err)
	}
	if got.Topic != TopicAttack {
		t.Errorf("received topic %q, subscription was attack only", got.Topic)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(observed) == 0 {
		t.Error("OnPublish was never called")
	}
}

func TestSocketPublisher_Closed(t *testing.T) {
	p, err := Listen(SocketConfig{Address: "inproc://events-closed"})
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	p.Close()

	if err := p.Publish(context.Background(), Event{Topic: TopicRestore}); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish after Close = %v, want ErrClosed", err)
	}
}

func TestSocketPublisher_ContextCancel(t *testing.T) {
	p, err := Listen(SocketConfig{Address: "inproc://events-cancel", BufferSize: 1})
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// the buffer may take a few, but a cancelled context must win eventually
	for i := 0; i < 1000; i++ {
		if err := p.Publish(ctx, Event{Topic: TopicJump}); err != nil {
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("got %v, want context.Canceled", err)
			}
			return
		}
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if p.Publish(context.Background(), Event{}) != nil || p.Close() != nil {
		t.Error("NopPublisher should never fail")
	}
}
