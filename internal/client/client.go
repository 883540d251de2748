package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
)

// Source names where a result came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// CalendarResult is a loaded year plus its provenance. Stale is set
// when the network was unreachable and an expired cache entry was
// served instead.
type CalendarResult struct {
	Days   []entities.DayRecord
	Source Source
	Stale  bool
}

// NotesResult is a loaded note list plus its provenance.
type NotesResult struct {
	Notes  []entities.Note
	Source Source
	Stale  bool
}

// Client reads calendars and notes from a server, caching every
// successful response so later reads work offline. Reads prefer a
// fresh cache entry, then the network, then any cache entry at all.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	cache       *Cache
	maxAgeHours int
	logger      *logger.Logger
}

// NewClient creates a client for the server at baseURL. maxAgeHours
// bounds cache freshness; non-positive means DefaultMaxAgeHours.
func NewClient(baseURL string, cache *Cache, maxAgeHours int, log *logger.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		cache:       cache,
		maxAgeHours: maxAgeHours,
		logger:      log,
	}
}

// LoadCalendar returns a year's calendar. Fresh cache wins; otherwise
// the server is asked and the cache refreshed; if the server is
// unreachable, an expired cache entry is served marked stale.
func (c *Client) LoadCalendar(ctx context.Context, year int) (*CalendarResult, error) {
	key := calendarCacheKey(year)

	if c.cache.IsValid(key, c.maxAgeHours) {
		days, err := c.cache.GetCalendar(year)
		if err == nil {
			c.logger.Debugw("Calendar served from cache", "year", year)
			go c.refreshCalendar(year)
			return &CalendarResult{Days: days, Source: SourceCache}, nil
		}
		c.logger.Warnw("Valid cache entry unreadable", "key", key, "error", err)
	}

	var days []entities.DayRecord
	netErr := c.getJSON(ctx, "/api/calendar/"+strconv.Itoa(year), &days)
	if netErr == nil {
		if err := c.cache.PutCalendar(year, days); err != nil {
			c.logger.Warnw("Failed to cache calendar", "year", year, "error", err)
		}
		return &CalendarResult{Days: days, Source: SourceNetwork}, nil
	}

	c.logger.Warnw("Calendar fetch failed, trying stale cache", "year", year, "error", netErr)
	if days, err := c.cache.GetCalendar(year); err == nil {
		return &CalendarResult{Days: days, Source: SourceCache, Stale: true}, nil
	}

	return nil, fmt.Errorf("calendar %d unavailable: %w", year, netErr)
}

// LoadNotes returns all notes, with the same fallback chain as
// LoadCalendar.
func (c *Client) LoadNotes(ctx context.Context) (*NotesResult, error) {
	if c.cache.IsValid(cacheNotesKey, c.maxAgeHours) {
		notes, err := c.cache.GetNotes()
		if err == nil {
			c.logger.Debugw("Notes served from cache")
			go c.refreshNotes()
			return &NotesResult{Notes: notes, Source: SourceCache}, nil
		}
		c.logger.Warnw("Valid cache entry unreadable", "key", cacheNotesKey, "error", err)
	}

	var notes []entities.Note
	netErr := c.getJSON(ctx, "/api/notes", &notes)
	if netErr == nil {
		if err := c.cache.PutNotes(notes); err != nil {
			c.logger.Warnw("Failed to cache notes", "error", err)
		}
		return &NotesResult{Notes: notes, Source: SourceNetwork}, nil
	}

	c.logger.Warnw("Notes fetch failed, trying stale cache", "error", netErr)
	if notes, err := c.cache.GetNotes(); err == nil {
		return &NotesResult{Notes: notes, Source: SourceCache, Stale: true}, nil
	}

	return nil, fmt.Errorf("notes unavailable: %w", netErr)
}

// WarmCache fetches the given years and the note list straight from
// the server, overwriting whatever the cache holds.
func (c *Client) WarmCache(ctx context.Context, years ...int) error {
	for _, year := range years {
		var days []entities.DayRecord
		if err := c.getJSON(ctx, "/api/calendar/"+strconv.Itoa(year), &days); err != nil {
			return fmt.Errorf("failed to warm calendar %d: %w", year, err)
		}
		if err := c.cache.PutCalendar(year, days); err != nil {
			return err
		}
		c.logger.Infow("Calendar cached", "year", year, "days", len(days))
	}

	var notes []entities.Note
	if err := c.getJSON(ctx, "/api/notes", &notes); err != nil {
		return fmt.Errorf("failed to warm notes: %w", err)
	}
	if err := c.cache.PutNotes(notes); err != nil {
		return err
	}
	c.logger.Infow("Notes cached", "count", len(notes))

	return nil
}

// refreshCalendar re-fetches a year behind a cache hit. Failures are
// logged only; the caller already rendered from cache.
func (c *Client) refreshCalendar(year int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var days []entities.DayRecord
	if err := c.getJSON(ctx, "/api/calendar/"+strconv.Itoa(year), &days); err != nil {
		c.logger.Debugw("Background calendar refresh failed", "year", year, "error", err)
		return
	}
	if err := c.cache.PutCalendar(year, days); err != nil {
		c.logger.Warnw("Failed to cache refreshed calendar", "year", year, "error", err)
	}
}

func (c *Client) refreshNotes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var notes []entities.Note
	if err := c.getJSON(ctx, "/api/notes", &notes); err != nil {
		c.logger.Debugw("Background notes refresh failed", "error", err)
		return
	}
	if err := c.cache.PutNotes(notes); err != nil {
		c.logger.Warnw("Failed to cache refreshed notes", "error", err)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s for %s", resp.Status, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
