package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/domain/panchang"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// Counters the server wires into its metrics registry.
var (
	GenerationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_generations_total",
		Help: "Total number of full-year calendar generations",
	})
	ReplicaSyncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replica_sync_failures_total",
		Help: "Total number of failed best-effort replica operations",
	})
)

const mirrorTimeout = 30 * time.Second

// CalendarService orchestrates year generation and the two-tier store:
// the local repository is authoritative, the replica a best-effort
// mirror whose failures are logged and counted but never surfaced.
type CalendarService struct {
	calRepo ports.CalendarRepository
	replica ports.ReplicaStore
	logger  *logger.Logger
}

// NewCalendarService creates a new calendar service. replica may be nil
// when mirroring is disabled.
func NewCalendarService(calRepo ports.CalendarRepository, replica ports.ReplicaStore, log *logger.Logger) *CalendarService {
	return &CalendarService{
		calRepo: calRepo,
		replica: replica,
		logger:  log,
	}
}

// GetCalendar returns the year's day records, generating and persisting
// them on first request.
func (s *CalendarService) GetCalendar(ctx context.Context, year int) ([]entities.DayRecord, error) {
	days, err := s.loadYear(ctx, year)
	if err == nil {
		return days, nil
	}
	if !errors.Is(err, entities.ErrYearNotGenerated) {
		return nil, err
	}

	s.logger.Infow("Calendar not found, generating", "year", year)
	return s.Generate(ctx, year)
}

// Generate derives every day of the year in parallel, preserves notes
// embedded in any previously persisted copy, persists the sequence and
// returns it. Per-date computation is pure and order-independent; a
// single failed date aborts the whole batch. A storage failure is
// logged but the in-memory sequence is still returned.
func (s *CalendarService) Generate(ctx context.Context, year int) ([]entities.DayRecord, error) {
	if year < 1 {
		return nil, entities.ErrInvalidYear
	}

	numDays := entities.DaysInYear(year)
	days := make([]entities.DayRecord, numDays)
	jan1 := time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numDays; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			days[i] = panchang.BuildDay(panchang.DateOf(jan1.AddDate(0, 0, i)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calendar generation for %d failed: %w", year, err)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	GenerationsTotal.Inc()
	s.logger.Infow("Calendar generated",
		"year", year,
		"days", numDays,
		"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
	)

	// Regeneration must not silently drop notes written into a
	// previously persisted copy of the year. The merge runs inside the
	// repository's per-year lock, the same one note write-through
	// takes, so a note committed while this year was being derived
	// cannot be overwritten by a stale merge.
	if err := s.calRepo.SaveMerging(ctx, year, days, s.preserveNotes); err != nil {
		s.logger.Errorw("Failed to persist generated calendar", "year", year, "error", err)
	} else {
		s.mirrorYear(year, days)
	}

	return days, nil
}

// preserveNotes carries embedded note lists from the previously
// persisted year into the freshly generated one. Called under the
// year's lock as the merge step of SaveMerging.
func (s *CalendarService) preserveNotes(prev, next []entities.DayRecord) []entities.DayRecord {
	byDate := make(map[string][]entities.Note, len(prev))
	for _, day := range prev {
		if len(day.Notes) > 0 {
			byDate[day.Date] = day.Notes
		}
	}
	if len(byDate) == 0 {
		return next
	}

	for i := range next {
		if notes, ok := byDate[next[i].Date]; ok {
			next[i].Notes = notes
		}
	}
	s.logger.Infow("Preserved notes across regeneration", "days_with_notes", len(byDate))
	return next
}

// GetFestivals flattens the year into one entry per festival per day.
func (s *CalendarService) GetFestivals(ctx context.Context, year int) ([]entities.FestivalOccurrence, error) {
	days, err := s.GetCalendar(ctx, year)
	if err != nil {
		return nil, err
	}

	festivals := []entities.FestivalOccurrence{}
	for _, day := range days {
		for _, f := range day.Festivals {
			festivals = append(festivals, entities.FestivalOccurrence{
				Date:      day.Date,
				Name:      f,
				Tithi:     day.Tithi,
				Nakshatra: day.Nakshatra,
			})
		}
	}
	return festivals, nil
}

// GetHolidays returns the days flagged as national holidays.
func (s *CalendarService) GetHolidays(ctx context.Context, year int) ([]entities.DayRecord, error) {
	days, err := s.GetCalendar(ctx, year)
	if err != nil {
		return nil, err
	}

	holidays := []entities.DayRecord{}
	for _, day := range days {
		if day.NationalHoliday {
			holidays = append(holidays, day)
		}
	}
	return holidays, nil
}

// GetDay returns a single day record, generating the year if needed.
// A reachable replica answers point reads without loading the whole
// year.
func (s *CalendarService) GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error) {
	if s.replica != nil {
		day, err := s.replica.GetDay(ctx, year, date)
		if err == nil {
			return day, nil
		}
		if !errors.Is(err, entities.ErrDayNotFound) {
			s.logger.LogReplicaFailure("get_day", err)
			ReplicaSyncFailures.Inc()
		}
	}

	days, err := s.GetCalendar(ctx, year)
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

// loadYear reads a persisted year, preferring the replica when it is
// reachable and falling back to the authoritative local copy.
func (s *CalendarService) loadYear(ctx context.Context, year int) ([]entities.DayRecord, error) {
	if s.replica != nil {
		days, err := s.replica.LoadYear(ctx, year)
		if err == nil {
			return days, nil
		}
		if !errors.Is(err, entities.ErrYearNotGenerated) {
			s.logger.LogReplicaFailure("load_year", err)
			ReplicaSyncFailures.Inc()
		}
	}
	return s.calRepo.Load(ctx, year)
}

// mirrorYear pushes a freshly saved year to the replica. Fire-and-forget
// from the caller's perspective; failures are logged and counted only.
func (s *CalendarService) mirrorYear(year int, days []entities.DayRecord) {
	if s.replica == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()

		if err := s.replica.SaveYear(ctx, year, days); err != nil {
			s.logger.LogReplicaFailure("save_year", err)
			ReplicaSyncFailures.Inc()
			return
		}
		s.logger.Debugw("Calendar mirrored to replica", "year", year, "days", len(days))
	}()
}
