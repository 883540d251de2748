package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchang/core/internal/adapters/repository"
	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// failingReplica rejects every operation, standing in for an
// unreachable mirror.
type failingReplica struct{}

var errReplicaDown = errors.New("replica unreachable")

func (f *failingReplica) SaveYear(ctx context.Context, year int, days []entities.DayRecord) error {
	return errReplicaDown
}

func (f *failingReplica) LoadYear(ctx context.Context, year int) ([]entities.DayRecord, error) {
	return nil, errReplicaDown
}

func (f *failingReplica) GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error) {
	return nil, errReplicaDown
}

func (f *failingReplica) UpdateDayNotes(ctx context.Context, date string, notes []entities.Note) error {
	return errReplicaDown
}

func (f *failingReplica) SaveNote(ctx context.Context, note entities.Note) error { return errReplicaDown }
func (f *failingReplica) DeleteNote(ctx context.Context, id string) error        { return errReplicaDown }
func (f *failingReplica) Writer(ctx context.Context) (*ports.ReplicaWriter, error) {
	return nil, errReplicaDown
}

func (f *failingReplica) LoadNotes(ctx context.Context) ([]entities.Note, error) {
	return nil, errReplicaDown
}
func (f *failingReplica) Close() error { return nil }

func newCalendarService(t *testing.T) (*CalendarService, *repository.CalendarRepository) {
	t.Helper()
	calRepo, err := repository.NewCalendarRepository(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return NewCalendarService(calRepo, nil, logger.NewNop()), calRepo
}

func TestCalendarService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("leap year has 366 days", func(t *testing.T) {
		svc, _ := newCalendarService(t)
		days, err := svc.Generate(ctx, 2024)
		require.NoError(t, err)
		assert.Len(t, days, 366)
	})

	t.Run("regular year has 365 days", func(t *testing.T) {
		svc, _ := newCalendarService(t)
		days, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, days, 365)
	})

	t.Run("days are sorted and unique", func(t *testing.T) {
		svc, _ := newCalendarService(t)
		days, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)

		assert.Equal(t, "2025-01-01", days[0].Date)
		assert.Equal(t, "2025-12-31", days[len(days)-1].Date)
		for i := 1; i < len(days); i++ {
			assert.Less(t, days[i-1].Date, days[i].Date)
		}
	})

	t.Run("rejects non positive year", func(t *testing.T) {
		svc, _ := newCalendarService(t)
		_, err := svc.Generate(ctx, 0)
		assert.ErrorIs(t, err, entities.ErrInvalidYear)
	})

	t.Run("persists the generated year", func(t *testing.T) {
		svc, calRepo := newCalendarService(t)
		_, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)

		loaded, err := calRepo.Load(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, loaded, 365)
	})

	t.Run("regeneration preserves embedded notes", func(t *testing.T) {
		svc, calRepo := newCalendarService(t)
		_, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)

		notes := []entities.Note{{ID: "1", Date: "2025-03-08", Title: "Holi party"}}
		require.NoError(t, calRepo.UpdateDayNotes(ctx, "2025-03-08", notes))

		days, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)

		var holi *entities.DayRecord
		for i := range days {
			if days[i].Date == "2025-03-08" {
				holi = &days[i]
				break
			}
		}
		require.NotNil(t, holi)
		require.Len(t, holi.Notes, 1)
		assert.Equal(t, "Holi party", holi.Notes[0].Title)
	})

	t.Run("note written during regeneration is not lost", func(t *testing.T) {
		svc, calRepo := newCalendarService(t)
		_, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)

		// The persist step merges under the same year lock the note
		// write-through takes, so the note survives regardless of
		// which side commits first.
		note := []entities.Note{{ID: "1", Date: "2025-08-15", Title: "Flag hoisting"}}
		var wg sync.WaitGroup
		var updateErr, genErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			updateErr = calRepo.UpdateDayNotes(ctx, "2025-08-15", note)
		}()
		go func() {
			defer wg.Done()
			_, genErr = svc.Generate(ctx, 2025)
		}()
		wg.Wait()

		require.NoError(t, updateErr)
		require.NoError(t, genErr)

		day, err := calRepo.GetDay(ctx, 2025, "2025-08-15")
		require.NoError(t, err)
		require.Len(t, day.Notes, 1)
		assert.Equal(t, "Flag hoisting", day.Notes[0].Title)
	})

	t.Run("replica failure does not fail generation", func(t *testing.T) {
		calRepo, err := repository.NewCalendarRepository(t.TempDir(), logger.NewNop())
		require.NoError(t, err)
		svc := NewCalendarService(calRepo, &failingReplica{}, logger.NewNop())

		days, err := svc.Generate(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, days, 365)

		// The authoritative local copy was still written.
		loaded, err := calRepo.Load(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, loaded, 365)
	})
}

func TestCalendarService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get calendar generates on first request", func(t *testing.T) {
		svc, calRepo := newCalendarService(t)

		days, err := svc.GetCalendar(ctx, 2026)
		require.NoError(t, err)
		assert.Len(t, days, 365)

		_, err = calRepo.Load(ctx, 2026)
		assert.NoError(t, err)
	})

	t.Run("get calendar falls back to local when replica is down", func(t *testing.T) {
		calRepo, err := repository.NewCalendarRepository(t.TempDir(), logger.NewNop())
		require.NoError(t, err)
		svc := NewCalendarService(calRepo, &failingReplica{}, logger.NewNop())

		_, err = svc.Generate(ctx, 2025)
		require.NoError(t, err)

		days, err := svc.GetCalendar(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, days, 365)
	})

	t.Run("festivals are flattened one per day", func(t *testing.T) {
		svc, _ := newCalendarService(t)

		festivals, err := svc.GetFestivals(ctx, 2025)
		require.NoError(t, err)
		require.NotEmpty(t, festivals)

		var republicDay *entities.FestivalOccurrence
		for i := range festivals {
			if festivals[i].Date == "2025-01-26" && festivals[i].Name.En == "Republic Day" {
				republicDay = &festivals[i]
			}
		}
		require.NotNil(t, republicDay)
		assert.NotEmpty(t, republicDay.Tithi.En)
		assert.NotEmpty(t, republicDay.Nakshatra.En)
	})

	t.Run("holidays are the national subset", func(t *testing.T) {
		svc, _ := newCalendarService(t)

		holidays, err := svc.GetHolidays(ctx, 2025)
		require.NoError(t, err)
		require.Len(t, holidays, 3)
		assert.Equal(t, "2025-01-26", holidays[0].Date)
		assert.Equal(t, "2025-08-15", holidays[1].Date)
		assert.Equal(t, "2025-10-02", holidays[2].Date)
		for _, h := range holidays {
			assert.True(t, h.NationalHoliday)
		}
	})

	t.Run("get day", func(t *testing.T) {
		svc, _ := newCalendarService(t)

		day, err := svc.GetDay(ctx, 2025, "2025-03-08")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-08", day.Date)

		_, err = svc.GetDay(ctx, 2025, "2026-01-01")
		assert.ErrorIs(t, err, entities.ErrDayNotFound)
	})
}
