package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "device")
	require.ErrorIs(t, err, ErrNotFound)

	state := sampleState()
	require.NoError(t, store.Save(ctx, "device", state))
	got, err := store.Load(ctx, "device")
	require.NoError(t, err)
	assert.Equal(t, state.Happiness, got.Happiness)
	assert.Equal(t, state.CompletedTaskIDs, got.CompletedTaskIDs)
	assert.Equal(t, state.LastRolloverDate, got.LastRolloverDate)
	require.NotNil(t, got.Pet)
	assert.Equal(t, "Beagle", got.Pet.Breed)

	state.Pet = nil
	state.LastRolloverDate = ""
	require.NoError(t, store.Save(ctx, "device", state))
	got, err = store.Load(ctx, "device")
	require.NoError(t, err)
	assert.Nil(t, got.Pet)
	assert.True(t, got.LastRolloverDate.IsZero())

	require.NoError(t, store.Delete(ctx, "device"))
	_, err = store.Load(ctx, "device")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "device"), ErrNotFound)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	_, err = store.Path("../escape")
	require.Error(t, err)

	path, err := store.Path("broken")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = store.Load(context.Background(), "broken")
	require.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, store.Save(context.Background(), "clean", sampleState()))
	_, err = os.Stat(filepath.Join(dir, "clean.json.tmp"))
	assert.True(t, os.IsNotExist(err), "tmp file should be renamed away")
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store, err := NewRedisStore(client, "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), "k", sampleState()))
	assert.True(t, srv.Exists("test:k"))

	require.NoError(t, srv.Set("test:bad", "[]"))
	_, err = store.Load(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
}

func TestOpenRedisFailsFast(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()
	_, err := OpenRedis(context.Background(), addr, "", 0, "")
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)

	store.Put("junk", []byte("nope"))
	_, err := store.Load(context.Background(), "junk")
	require.ErrorIs(t, err, ErrCorrupt)

	ctx := context.Background()
	require.NoError(t, store.RecordDay(ctx, DaySummary{Key: "k", Day: "2026-01-02", Happiness: 1}))
	require.NoError(t, store.RecordDay(ctx, DaySummary{Key: "k", Day: "2026-01-01", Happiness: 2}))
	require.NoError(t, store.RecordDay(ctx, DaySummary{Key: "k", Day: "2026-01-02", Happiness: 3}))
	days, err := store.ListDays(ctx, DayListFilter{Key: "k"})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.EqualValues(t, "2026-01-02", days[0].Day)
	assert.Equal(t, 3, days[0].Happiness)

	limited, err := store.ListDays(ctx, DayListFilter{Key: "k", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.EqualValues(t, "2026-01-01", limited[0].Day)
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "nested", "petd.db")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "petd.db"), WatchPath(s, Options{SQLitePath: filepath.Join(dir, "nested", "petd.db")}, "k"))
	require.NoError(t, s.Close())

	f, err := Open(ctx, Options{Backend: BackendFile, FileDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "k.json"), WatchPath(f, Options{}, "k"))

	m, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.Empty(t, WatchPath(m, Options{}, "k"))

	_, err = Open(ctx, Options{Backend: "etcd"})
	require.Error(t, err)
}
