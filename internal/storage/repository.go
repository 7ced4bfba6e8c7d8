package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/petd/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrCorrupt  = errors.New("storage: corrupt record")
)

// Store persists one AppState record per key. Last write wins.
type Store interface {
	Load(ctx context.Context, key string) (model.AppState, error)
	Save(ctx context.Context, key string, state model.AppState) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DayLog keeps a per-day history of closed days. Only some backends implement it.
type DayLog interface {
	RecordDay(ctx context.Context, in DaySummary) error
	ListDays(ctx context.Context, filter DayListFilter) ([]DaySummary, error)
	ClearDays(ctx context.Context, key string) error
}
