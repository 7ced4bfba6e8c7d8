package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

const DefaultSaveTimeout = 5 * time.Second

type opKind string

const (
	opSave   opKind = "save"
	opDelete opKind = "delete"
)

type pendingOp struct {
	kind  opKind
	state model.AppState
}

// SaveObserver is told about every write the Saver performs.
type SaveObserver interface {
	ObserveSave(op string, elapsed time.Duration, err error)
}

type SaverOption func(*Saver)

func WithSaverLogger(logger *slog.Logger) SaverOption {
	return func(s *Saver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSaveObserver(obs SaveObserver) SaverOption {
	return func(s *Saver) { s.observer = obs }
}

func WithSaveTimeout(d time.Duration) SaverOption {
	return func(s *Saver) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Saver writes snapshots for one key on a background goroutine. Only the newest pending
// snapshot is kept, so a burst of mutations costs one write. A queued delete always runs
// before any snapshot queued after it. Failures are logged, never returned.
type Saver struct {
	store    Store
	key      string
	logger   *slog.Logger
	observer SaveObserver
	timeout  time.Duration

	mu          sync.Mutex
	pending     *pendingOp
	deleting    bool
	inFlight    bool
	lastWritten []byte
	closed      bool

	wake   chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewSaver(store Store, key string, opts ...SaverOption) *Saver {
	s := &Saver{
		store:   store,
		key:     key,
		logger:  slog.Default(),
		timeout: DefaultSaveTimeout,
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.loop()
	return s
}

func (s *Saver) Key() string { return s.key }

// Save queues state for writing, replacing any queued snapshot.
func (s *Saver) Save(state model.AppState) {
	s.enqueue(opSave, func() {
		s.pending = &pendingOp{kind: opSave, state: state.Clone()}
	})
}

// Delete queues removal of the record and its day history, discarding any queued snapshot.
func (s *Saver) Delete() {
	s.enqueue(opDelete, func() {
		s.pending = nil
		s.deleting = true
	})
}

func (s *Saver) enqueue(kind opKind, queue func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("save dropped after close", "key", s.key, "op", kind)
		return
	}
	queue()
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Busy reports whether an operation is queued or being written.
func (s *Saver) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil || s.deleting || s.inFlight
}

// IsLastWritten reports whether state encodes to exactly what this Saver last wrote.
func (s *Saver) IsLastWritten(state model.AppState) bool {
	payload, err := encodeState(state)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWritten != nil && bytes.Equal(payload, s.lastWritten)
}

// Close flushes the queued operation and stops the worker.
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.doneCh
		return
	}
	s.closed = true
	close(s.stopCh)
	s.mu.Unlock()
	<-s.doneCh
}

func (s *Saver) loop() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stopCh:
			s.drain()
			return
		}
	}
}

func (s *Saver) drain() {
	for {
		s.mu.Lock()
		op := s.pending
		if s.deleting {
			op = &pendingOp{kind: opDelete}
			s.deleting = false
		} else {
			s.pending = nil
		}
		s.inFlight = op != nil
		s.mu.Unlock()
		if op == nil {
			return
		}
		s.apply(op)
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}
}

func (s *Saver) apply(op *pendingOp) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	var err error
	switch op.kind {
	case opSave:
		err = s.store.Save(ctx, s.key, op.state)
		if err == nil {
			if payload, encErr := encodeState(op.state); encErr == nil {
				s.mu.Lock()
				s.lastWritten = payload
				s.mu.Unlock()
			}
		}
	case opDelete:
		err = s.store.Delete(ctx, s.key)
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
		if dl, ok := s.store.(DayLog); ok && err == nil {
			err = dl.ClearDays(ctx, s.key)
		}
		if err == nil {
			s.mu.Lock()
			s.lastWritten = nil
			s.mu.Unlock()
		}
	}
	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveSave(string(op.kind), elapsed, err)
	}
	if err != nil {
		s.logger.Error("persist state failed", "key", s.key, "op", op.kind, "err", err)
		return
	}
	s.logger.Debug("state persisted", "key", s.key, "op", op.kind, "elapsed", elapsed)
}
