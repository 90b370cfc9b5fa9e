// Package events broadcasts engine state changes on a nanomsg PUB socket so
// external viewers can follow a session.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Topics. Every message on the wire is "<topic>:<json event>".
const (
	TopicAttack  = "attack"
	TopicRestore = "restore"
	TopicJump    = "jump"
	TopicReload  = "reload"
)

// ErrClosed is returned when publishing on a stopped publisher.
var ErrClosed = errors.New("events: publisher closed")

// Event is one broadcast state change.
type Event struct {
	Topic     string          `json:"topic"`
	SessionID string          `json:"sessionId"`
	Time      time.Time       `json:"time"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with payload marshalled to JSON.
func NewEvent(topic, sessionID string, payload any) (Event, error) {
	ev := Event{Topic: topic, SessionID: sessionID, Time: time.Now().UTC()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return ev, fmt.Errorf("marshal %s payload: %w", topic, err)
		}
		ev.Payload = data
	}
	return ev, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

func encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	msg := make([]byte, 0, len(ev.Topic)+1+len(data))
	msg = append(msg, ev.Topic...)
	msg = append(msg, ':')
	return append(msg, data...), nil
}

func decode(msg []byte) (Event, error) {
	topic, data, ok := bytes.Cut(msg, []byte{':'})
	if !ok {
		return Event{}, fmt.Errorf("events: message without topic prefix")
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("events: decode %s message: %w", topic, err)
	}
	return ev, nil
}
