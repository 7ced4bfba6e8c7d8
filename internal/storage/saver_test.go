package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/petd/internal/model"
)

// gatedStore blocks the first Save until release is closed.
type gatedStore struct {
	*MemoryStore
	mu      sync.Mutex
	saves   []int
	gate    chan struct{}
	entered chan struct{}
	failing bool
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryStore: NewMemoryStore(),
		gate:        make(chan struct{}),
		entered:     make(chan struct{}, 16),
	}
}

func (g *gatedStore) Save(ctx context.Context, key string, state model.AppState) error {
	g.entered <- struct{}{}
	<-g.gate
	g.mu.Lock()
	g.saves = append(g.saves, state.Happiness)
	failing := g.failing
	g.mu.Unlock()
	if failing {
		return errors.New("disk full")
	}
	return g.MemoryStore.Save(ctx, key, state)
}

type recordingObserver struct {
	mu   sync.Mutex
	ops  []string
	errs int
}

func (r *recordingObserver) ObserveSave(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	if err != nil {
		r.errs++
	}
}

func stateWithHappiness(h int) model.AppState {
	s := model.DefaultAppState()
	s.Happiness = h
	return s
}

func TestSaverLatestOpWins(t *testing.T) {
	store := newGatedStore()
	obs := &recordingObserver{}
	saver := NewSaver(store, "k", WithSaveObserver(obs))

	saver.Save(stateWithHappiness(1))
	<-store.entered
	assert.True(t, saver.Busy())
	for h := 2; h <= 10; h++ {
		saver.Save(stateWithHappiness(h))
	}
	close(store.gate)
	saver.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []int{1, 10}, store.saves)

	got, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Happiness)
	assert.True(t, saver.IsLastWritten(stateWithHappiness(10)))
	assert.False(t, saver.IsLastWritten(stateWithHappiness(9)))
	assert.Equal(t, []string{"save", "save"}, obs.ops)
	assert.False(t, saver.Busy())
}

func TestSaverDeleteReplacesPendingSave(t *testing.T) {
	store := newGatedStore()
	ctx := context.Background()
	require.NoError(t, store.MemoryStore.Save(ctx, "k", stateWithHappiness(5)))
	require.NoError(t, store.RecordDay(ctx, DaySummary{Key: "k", Day: "2026-01-01"}))

	saver := NewSaver(store, "k")
	saver.Save(stateWithHappiness(1))
	<-store.entered
	saver.Save(stateWithHappiness(2))
	saver.Delete()
	close(store.gate)
	saver.Close()

	_, err := store.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
	days, err := store.ListDays(ctx, DayListFilter{Key: "k"})
	require.NoError(t, err)
	assert.Empty(t, days)
	assert.False(t, saver.IsLastWritten(stateWithHappiness(1)))
}

func TestSaverSaveAfterDeleteKeepsDelete(t *testing.T) {
	store := newGatedStore()
	ctx := context.Background()
	require.NoError(t, store.RecordDay(ctx, DaySummary{Key: "k", Day: "2026-01-01"}))
	obs := &recordingObserver{}

	saver := NewSaver(store, "k", WithSaveObserver(obs))
	saver.Save(stateWithHappiness(1))
	<-store.entered
	saver.Delete()
	saver.Save(stateWithHappiness(7))
	assert.True(t, saver.Busy())
	close(store.gate)
	saver.Close()

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Happiness)
	days, err := store.ListDays(ctx, DayListFilter{Key: "k"})
	require.NoError(t, err)
	assert.Empty(t, days)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []string{"save", "delete", "save"}, obs.ops)
}

func TestSaverLogsFailuresAndDropsAfterClose(t *testing.T) {
	store := newGatedStore()
	store.failing = true
	close(store.gate)
	obs := &recordingObserver{}
	saver := NewSaver(store, "k", WithSaveObserver(obs), WithSaveTimeout(time.Second))

	saver.Save(stateWithHappiness(3))
	saver.Close()
	saver.Close()
	saver.Save(stateWithHappiness(4))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.errs)
	assert.False(t, saver.IsLastWritten(stateWithHappiness(3)))
}
