package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/flowattack/pkg/logging"
)

// SocketPublisher fans events out on a PUB socket. Publish only queues; a
// single loop owns the socket.
type SocketPublisher struct {
	sock   mangos.Socket
	addr   string
	stream chan Event
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	logger    logging.Logger
	onPublish func(topic string, err error)
}

// SocketConfig configures a SocketPublisher.
type SocketConfig struct {
	Address    string // e.g. "tcp://127.0.0.1:40899" or "inproc://viewer"
	BufferSize int
	Logger     logging.Logger
	// OnPublish, if set, observes every send attempt (metrics hook).
	OnPublish func(topic string, err error)
}

// Listen binds a PUB socket to cfg.Address and starts the publish loop.
func Listen(cfg SocketConfig) (*SocketPublisher, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(cfg.Address); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", cfg.Address, err)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	p := &SocketPublisher{
		sock:      sock,
		addr:      cfg.Address,
		stream:    make(chan Event, bufSize),
		stopCh:    make(chan struct{}),
		logger:    logger.With(logging.Component("events")),
		onPublish: cfg.OnPublish,
	}
	p.wg.Add(1)
	go p.publishLoop()

	p.logger.Info("event publisher started", logging.String("addr", cfg.Address))
	return p, nil
}

// Publish queues ev, blocking while the buffer is full.
func (p *SocketPublisher) Publish(ctx context.Context, ev Event) error {
	select {
	case <-p.stopCh:
		return ErrClosed
	default:
	}
	select {
	case p.stream <- ev:
		return nil
	case <-p.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop and closes the socket. Queued events are dropped.
func (p *SocketPublisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
		err = p.sock.Close()
		p.logger.Info("event publisher stopped")
	})
	return err
}

func (p *SocketPublisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case ev := <-p.stream:
			msg, err := encode(ev)
			if err == nil {
				err = p.sock.Send(msg)
			}
			if err != nil {
				p.logger.Warn("failed to publish event", logging.String("topic", ev.Topic), logging.Error(err))
			}
			if p.onPublish != nil {
				p.onPublish(ev.Topic, err)
			}
		}
	}
}

// Subscriber receives events from a SocketPublisher.
type Subscriber struct {
	sock mangos.Socket
}

// Subscribe dials addr and subscribes to topics; no topics means all.
func Subscribe(addr string, topics ...string) (*Subscriber, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	if len(topics) == 0 {
		topics = []string{""}
	}
	for _, t := range topics {
		prefix := []byte(t)
		if t != "" {
			prefix = append(prefix, ':')
		}
		if err := sock.SetOption(mangos.OptionSubscribe, prefix); err != nil {
			sock.Close()
			return nil, fmt.Errorf("failed to subscribe to %q: %w", t, err)
		}
	}
	return &Subscriber{sock: sock}, nil
}

// Recv waits up to timeout for the next event.
func (s *Subscriber) Recv(timeout time.Duration) (Event, error) {
	if err := s.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return Event{}, err
	}
	msg, err := s.sock.Recv()
	if err != nil {
		return Event{}, err
	}
	return decode(msg)
}

// Close closes the subscription socket.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
