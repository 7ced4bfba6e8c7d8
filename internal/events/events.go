// Package events publishes routine state changes to subscribers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Type string

const (
	TypeTaskCompleted    Type = "task.completed"
	TypeActionLogged     Type = "action.logged"
	TypeRoutineCelebrate Type = "routine.celebrated"
	TypeDayRolledOver    Type = "day.rolled_over"
	TypeStateReset       Type = "state.reset"
	TypePetUpdated       Type = "pet.updated"
)

var ErrClosed = errors.New("events: publisher closed")

type Event struct {
	ID   string         `json:"id"`
	Type Type           `json:"type"`
	Key  string         `json:"key"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

func New(t Type, key string, at time.Time, data map[string]any) Event {
	return Event{
		ID:   uuid.New().String(),
		Type: t,
		Key:  key,
		At:   at.UTC(),
		Data: data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Subject returns "<prefix>.<type>", or the bare type when prefix is empty.
func Subject(prefix string, t Type) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}

type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Drain() error
}

type NATSPublisher struct {
	mu     sync.Mutex
	conn   conn
	prefix string
	closed bool
}

// ConnectNATS dials url and publishes under prefix.
func ConnectNATS(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("petd"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(c conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: c, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.conn.Publish(Subject(p.prefix, ev.Type), data)
}

func (p *NATSPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.conn.FlushTimeout(time.Second)
	return p.conn.Drain()
}

// Memory keeps published events in order. Useful for wiring without a broker.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

func (m *Memory) Types() []Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Type, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Type)
	}
	return out
}
