package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	drained  bool
	err      error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) FlushTimeout(time.Duration) error { return nil }

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "petd.task.completed", Subject("petd", TypeTaskCompleted))
	assert.Equal(t, "home.pet.updated", Subject("home.", TypePetUpdated))
	assert.Equal(t, "state.reset", Subject("", TypeStateReset))
}

func TestNATSPublisherEncodesEvent(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "petd")
	at := time.Date(2026, 3, 1, 8, 5, 0, 0, time.UTC)
	ev := New(TypeTaskCompleted, "device-1", at, map[string]any{"task_id": "breakfast", "points": 15})

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, fc.subjects, 1)
	assert.Equal(t, "petd.task.completed", fc.subjects[0])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(fc.payloads[0], &decoded))
	assert.Equal(t, ev.ID, decoded["id"])
	assert.Equal(t, "task.completed", decoded["type"])
	assert.Equal(t, "device-1", decoded["key"])
	assert.Equal(t, "2026-03-01T08:05:00Z", decoded["at"])
	data := decoded["data"].(map[string]any)
	assert.Equal(t, "breakfast", data["task_id"])
	assert.Equal(t, 15.0, data["points"])
}

func TestNATSPublisherClose(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "petd")
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, fc.drained)
	err := p.Publish(context.Background(), New(TypeStateReset, "k", time.Now(), nil))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNATSPublisherErrors(t *testing.T) {
	fc := &fakeConn{err: errors.New("no responders")}
	p := newNATSPublisher(fc, "petd")
	assert.Error(t, p.Publish(context.Background(), New(TypePetUpdated, "k", time.Now(), nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, New(TypePetUpdated, "k", time.Now(), nil)), context.Canceled)
}

func TestConnectNATSFailsWithoutServer(t *testing.T) {
	_, err := ConnectNATS("nats://127.0.0.1:1", "petd")
	assert.Error(t, err)
}

func TestNoopAndMemory(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())

	m := &Memory{}
	p = m
	require.NoError(t, p.Publish(context.Background(), New(TypeActionLogged, "k", time.Now(), nil)))
	require.NoError(t, p.Publish(context.Background(), New(TypeRoutineCelebrate, "k", time.Now(), nil)))
	assert.Equal(t, []Type{TypeActionLogged, TypeRoutineCelebrate}, m.Types())
	assert.Len(t, m.Events(), 2)
}
