package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
)

// CalendarRepository persists one JSON file per year under the data
// directory (calendar-<year>.json). It is the authoritative local tier
// of the two-tier store. Writes go through a temp file and rename, and
// read-modify-write cycles hold a per-year lock so concurrent note
// updates within the same year cannot lose each other's changes.
type CalendarRepository struct {
	dataDir string
	logger  *logger.Logger

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// NewCalendarRepository creates a calendar repository rooted at dataDir.
func NewCalendarRepository(dataDir string, log *logger.Logger) (*CalendarRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &CalendarRepository{
		dataDir: dataDir,
		logger:  log,
		locks:   map[int]*sync.Mutex{},
	}, nil
}

func (r *CalendarRepository) yearLock(year int) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[year]
	if !ok {
		l = &sync.Mutex{}
		r.locks[year] = l
	}
	return l
}

func (r *CalendarRepository) yearPath(year int) string {
	return filepath.Join(r.dataDir, fmt.Sprintf("calendar-%d.json", year))
}

// Load returns the persisted day-record sequence for a year.
func (r *CalendarRepository) Load(ctx context.Context, year int) ([]entities.DayRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.yearPath(year))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.ErrYearNotGenerated
		}
		return nil, fmt.Errorf("failed to read calendar %d: %w", year, err)
	}

	var days []entities.DayRecord
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("failed to decode calendar %d: %w", year, err)
	}
	return days, nil
}

// Save overwrites the whole year in place.
func (r *CalendarRepository) Save(ctx context.Context, year int, days []entities.DayRecord) error {
	lock := r.yearLock(year)
	lock.Lock()
	defer lock.Unlock()

	return r.saveLocked(ctx, year, days)
}

// SaveMerging overwrites a year after letting merge rework the new
// days against the previously persisted ones. The load-merge-save
// cycle holds the year's lock so a concurrent UpdateDayNotes cannot
// commit between the read and the write and then be overwritten.
// merge is not called when the year was never generated.
func (r *CalendarRepository) SaveMerging(ctx context.Context, year int, days []entities.DayRecord, merge func(prev, next []entities.DayRecord) []entities.DayRecord) error {
	lock := r.yearLock(year)
	lock.Lock()
	defer lock.Unlock()

	prev, err := r.Load(ctx, year)
	if err != nil && !errors.Is(err, entities.ErrYearNotGenerated) {
		return err
	}
	if merge != nil && prev != nil {
		days = merge(prev, days)
	}
	return r.saveLocked(ctx, year, days)
}

func (r *CalendarRepository) saveLocked(ctx context.Context, year int, days []entities.DayRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode calendar %d: %w", year, err)
	}

	path := r.yearPath(year)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calendar %d: %w", year, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit calendar %d: %w", year, err)
	}

	r.logger.Debugw("Calendar saved", "year", year, "days", len(days))
	return nil
}

// GetDay returns the record for one date within a year.
func (r *CalendarRepository) GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error) {
	days, err := r.Load(ctx, year)
	if err != nil {
		return nil, err
	}
	for i := range days {
		if days[i].Date == date {
			return &days[i], nil
		}
	}
	return nil, entities.ErrDayNotFound
}

// UpdateDayNotes replaces the notes field of a single day record. Every
// other field of the record, and every other record in the year, is
// left untouched. The whole read-modify-write cycle runs under the
// year's lock.
func (r *CalendarRepository) UpdateDayNotes(ctx context.Context, date string, notes []entities.Note) error {
	year, err := yearOf(date)
	if err != nil {
		return err
	}

	lock := r.yearLock(year)
	lock.Lock()
	defer lock.Unlock()

	days, err := r.Load(ctx, year)
	if err != nil {
		return err
	}

	found := false
	for i := range days {
		if days[i].Date == date {
			days[i].Notes = notes
			found = true
			break
		}
	}
	if !found {
		return entities.ErrDayNotFound
	}

	return r.saveLocked(ctx, year, days)
}

func yearOf(date string) (int, error) {
	if len(date) < 4 {
		return 0, entities.ErrInvalidDate
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, entities.ErrInvalidDate
	}
	return year, nil
}
