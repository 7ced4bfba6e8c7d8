package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/petd/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (model.AppState, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM app_states WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AppState{}, ErrNotFound
		}
		return model.AppState{}, err
	}
	return decodeState([]byte(payload))
}

func (s *SQLiteStore) Save(ctx context.Context, key string, state model.AppState) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_states (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(payload), mustTime(s.now()),
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM app_states WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) RecordDay(ctx context.Context, in DaySummary) error {
	if in.Key == "" || in.Day.IsZero() {
		return errors.New("storage: day summary requires key and day")
	}
	ids, err := json.Marshal(in.CompletedTaskIDs)
	if err != nil {
		return err
	}
	recorded := in.RecordedAt
	if recorded.IsZero() {
		recorded = s.now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO day_summaries (key, day, completed_task_ids, catalog_size, points_earned, happiness, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key, day) DO UPDATE SET
			completed_task_ids = excluded.completed_task_ids,
			catalog_size = excluded.catalog_size,
			points_earned = excluded.points_earned,
			happiness = excluded.happiness,
			recorded_at = excluded.recorded_at`,
		in.Key, in.Day.String(), string(ids), in.CatalogSize, in.PointsEarned, in.Happiness, mustTime(recorded),
	)
	return err
}

func (s *SQLiteStore) ListDays(ctx context.Context, filter DayListFilter) ([]DaySummary, error) {
	query := `SELECT key, day, completed_task_ids, catalog_size, points_earned, happiness, recorded_at
		FROM day_summaries WHERE key = ? ORDER BY day DESC`
	args := []any{filter.Key}
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DaySummary, 0)
	for rows.Next() {
		item, scanErr := scanDaySummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ClearDays(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_summaries WHERE key = ?`, key)
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDaySummary(s scanner) (DaySummary, error) {
	var out DaySummary
	var day, ids, recorded string
	if err := s.Scan(&out.Key, &day, &ids, &out.CatalogSize, &out.PointsEarned, &out.Happiness, &recorded); err != nil {
		return DaySummary{}, err
	}
	parsedDay, err := model.ParseDay(day)
	if err != nil {
		return DaySummary{}, err
	}
	if err := json.Unmarshal([]byte(ids), &out.CompletedTaskIDs); err != nil {
		return DaySummary{}, fmt.Errorf("decode completed ids: %w", err)
	}
	recordedAt, err := parseRequiredTime(recorded)
	if err != nil {
		return DaySummary{}, err
	}
	out.Day = parsedDay
	out.RecordedAt = recordedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
