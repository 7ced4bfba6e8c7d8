package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/sandeepkv93/petd/internal/model"
)

type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
	days  map[string][]DaySummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		days:  make(map[string][]DaySummary),
	}
}

func (s *MemoryStore) Load(_ context.Context, key string) (model.AppState, error) {
	s.mu.Lock()
	raw, ok := s.items[key]
	s.mu.Unlock()
	if !ok {
		return model.AppState{}, ErrNotFound
	}
	return decodeState(raw)
}

func (s *MemoryStore) Save(_ context.Context, key string, state model.AppState) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = payload
	return nil
}

// Put stores raw bytes under key as-is.
func (s *MemoryStore) Put(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), raw...)
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return ErrNotFound
	}
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) RecordDay(_ context.Context, in DaySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.days[in.Key]
	for i, d := range list {
		if d.Day == in.Day {
			list[i] = in
			return nil
		}
	}
	s.days[in.Key] = append(list, in)
	return nil
}

func (s *MemoryStore) ListDays(_ context.Context, filter DayListFilter) ([]DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.days[filter.Key]
	out := append([]DaySummary{}, list...)
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []DaySummary{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) ClearDays(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.days, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
