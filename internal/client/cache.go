package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
)

// DefaultMaxAgeHours is the cache freshness window when none is
// configured.
const DefaultMaxAgeHours = 24

// ErrCacheMiss is returned when the requested entry was never cached.
var ErrCacheMiss = fmt.Errorf("cache miss")

const (
	cacheCalendarPrefix = "calendar/"
	cacheNotesKey       = "notes"
	cacheMetaPrefix     = "meta/"
)

// cacheMeta records when a cache entry was written and how many items
// it holds.
type cacheMeta struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Count       int       `json:"count"`
}

// EntryInfo describes one cache entry for inspection.
type EntryInfo struct {
	Key         string    `json:"key"`
	LastUpdated time.Time `json:"lastUpdated"`
	Count       int       `json:"count"`
	Age         string    `json:"age"`
}

// Cache is a local key-value cache of calendar years and notes. Entries
// never expire on their own; staleness is the reader's decision, so an
// offline reader can still fall back to old data.
type Cache struct {
	db     *badger.DB
	logger *logger.Logger
}

// OpenCache opens the cache at dir. An empty dir opens an in-memory
// cache, used by tests.
func OpenCache(dir string, log *logger.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &Cache{db: db, logger: log}, nil
}

// PutCalendar stores a year's day records.
func (c *Cache) PutCalendar(year int, days []entities.DayRecord) error {
	return c.put(calendarCacheKey(year), days, len(days))
}

// GetCalendar returns a cached year, or ErrCacheMiss.
func (c *Cache) GetCalendar(year int) ([]entities.DayRecord, error) {
	var days []entities.DayRecord
	if err := c.get(calendarCacheKey(year), &days); err != nil {
		return nil, err
	}
	return days, nil
}

// PutNotes stores the full note list.
func (c *Cache) PutNotes(notes []entities.Note) error {
	return c.put(cacheNotesKey, notes, len(notes))
}

// GetNotes returns the cached note list, or ErrCacheMiss.
func (c *Cache) GetNotes() ([]entities.Note, error) {
	var notes []entities.Note
	if err := c.get(cacheNotesKey, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// IsValid reports whether the entry exists and is younger than
// maxAgeHours. Non-positive maxAgeHours means DefaultMaxAgeHours.
func (c *Cache) IsValid(key string, maxAgeHours int) bool {
	if maxAgeHours <= 0 {
		maxAgeHours = DefaultMaxAgeHours
	}

	meta, err := c.meta(key)
	if err != nil {
		return false
	}
	return time.Since(meta.LastUpdated) < time.Duration(maxAgeHours)*time.Hour
}

// Clear drops every cached entry.
func (c *Cache) Clear() error {
	return c.db.DropAll()
}

// Info lists every cache entry with its age.
func (c *Cache) Info() ([]EntryInfo, error) {
	var entries []EntryInfo

	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(cacheMetaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(cacheMetaPrefix):])
			var meta cacheMeta
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return err
			}
			entries = append(entries, EntryInfo{
				Key:         key,
				LastUpdated: meta.LastUpdated,
				Count:       meta.Count,
				Age:         time.Since(meta.LastUpdated).Round(time.Second).String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache info: %w", err)
	}
	return entries, nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) put(key string, value interface{}, count int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}
	meta, err := json.Marshal(cacheMeta{LastUpdated: time.Now().UTC(), Count: count})
	if err != nil {
		return fmt.Errorf("failed to marshal cache meta %s: %w", key, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return err
		}
		return txn.Set([]byte(cacheMetaPrefix+key), meta)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	c.logger.Debugw("Cache entry written", "key", key, "count", count)
	return nil
}

func (c *Cache) get(key string, out interface{}) error {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Cache) meta(key string) (*cacheMeta, error) {
	var meta cacheMeta
	if err := c.get(cacheMetaPrefix+key, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func calendarCacheKey(year int) string {
	return cacheCalendarPrefix + strconv.Itoa(year)
}
