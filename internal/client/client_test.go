package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache("", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func sampleDays() []entities.DayRecord {
	return []entities.DayRecord{
		{Date: "2025-01-01", Tithi: entities.FromString("Pratipada"), Notes: []entities.Note{}},
		{Date: "2025-01-02", Tithi: entities.FromString("Dwitiya"), Notes: []entities.Note{}},
	}
}

func calendarServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/calendar/2025":
			json.NewEncoder(w).Encode(sampleDays())
		case "/api/notes":
			json.NewEncoder(w).Encode([]entities.Note{{ID: "1", Date: "2025-01-01", Title: "Vrat"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func expireEntry(t *testing.T, cache *Cache, key string) {
	t.Helper()
	meta, err := cache.meta(key)
	require.NoError(t, err)
	meta.LastUpdated = time.Now().Add(-48 * time.Hour)

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	err = cache.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cacheMetaPrefix+key), data)
	})
	require.NoError(t, err)
}

func TestCache(t *testing.T) {
	t.Run("miss on empty cache", func(t *testing.T) {
		cache := newCache(t)
		_, err := cache.GetCalendar(2025)
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.False(t, cache.IsValid(calendarCacheKey(2025), 24))
	})

	t.Run("put then get round trips", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.PutCalendar(2025, sampleDays()))

		days, err := cache.GetCalendar(2025)
		require.NoError(t, err)
		assert.Equal(t, sampleDays(), days)
		assert.True(t, cache.IsValid(calendarCacheKey(2025), 24))
	})

	t.Run("notes round trip", func(t *testing.T) {
		cache := newCache(t)
		notes := []entities.Note{{ID: "1", Date: "2025-01-01", Title: "Vrat"}}
		require.NoError(t, cache.PutNotes(notes))

		loaded, err := cache.GetNotes()
		require.NoError(t, err)
		assert.Equal(t, notes, loaded)
	})

	t.Run("clear drops everything", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.PutCalendar(2025, sampleDays()))
		require.NoError(t, cache.Clear())

		_, err := cache.GetCalendar(2025)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("info lists entries", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.PutCalendar(2025, sampleDays()))
		require.NoError(t, cache.PutNotes(nil))

		entries, err := cache.Info()
		require.NoError(t, err)
		require.Len(t, entries, 2)

		keys := []string{entries[0].Key, entries[1].Key}
		assert.Contains(t, keys, "calendar/2025")
		assert.Contains(t, keys, "notes")
	})
}

func TestClient_LoadCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and caches on miss", func(t *testing.T) {
		var hits atomic.Int32
		srv := calendarServer(t, &hits)
		cache := newCache(t)
		cli := NewClient(srv.URL, cache, 24, logger.NewNop())

		result, err := cli.LoadCalendar(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, SourceNetwork, result.Source)
		assert.False(t, result.Stale)
		assert.Len(t, result.Days, 2)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("fresh cache is served without waiting on the network", func(t *testing.T) {
		srv := calendarServer(t, nil)
		cache := newCache(t)
		cli := NewClient(srv.URL, cache, 24, logger.NewNop())

		_, err := cli.LoadCalendar(ctx, 2025)
		require.NoError(t, err)

		// A dead server cannot block a fresh-cache read; the background
		// refresh failure is logged only.
		srv.Close()
		result, err := cli.LoadCalendar(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, SourceCache, result.Source)
		assert.False(t, result.Stale)
	})

	t.Run("server down serves stale cache", func(t *testing.T) {
		srv := calendarServer(t, nil)
		cache := newCache(t)
		cli := NewClient(srv.URL, cache, 24, logger.NewNop())

		_, err := cli.LoadCalendar(ctx, 2025)
		require.NoError(t, err)

		// Age the entry past its freshness window, then take the
		// server away.
		expireEntry(t, cache, calendarCacheKey(2025))
		srv.Close()

		result, err := cli.LoadCalendar(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, SourceCache, result.Source)
		assert.True(t, result.Stale)
	})

	t.Run("server down with empty cache fails", func(t *testing.T) {
		srv := calendarServer(t, nil)
		srv.Close()
		cache := newCache(t)
		cli := NewClient(srv.URL, cache, 24, logger.NewNop())

		_, err := cli.LoadCalendar(ctx, 2025)
		assert.Error(t, err)
	})
}

func TestClient_LoadNotes(t *testing.T) {
	ctx := context.Background()

	srv := calendarServer(t, nil)
	cache := newCache(t)
	cli := NewClient(srv.URL, cache, 24, logger.NewNop())

	result, err := cli.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, result.Source)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "Vrat", result.Notes[0].Title)

	cached, err := cli.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, cached.Source)
}

func TestClient_WarmCache(t *testing.T) {
	ctx := context.Background()

	srv := calendarServer(t, nil)
	cache := newCache(t)
	cli := NewClient(srv.URL, cache, 24, logger.NewNop())

	require.NoError(t, cli.WarmCache(ctx, 2025))

	days, err := cache.GetCalendar(2025)
	require.NoError(t, err)
	assert.Len(t, days, 2)

	notes, err := cache.GetNotes()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
