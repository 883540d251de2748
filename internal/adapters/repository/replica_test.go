package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
)

func newReplica(t *testing.T) *BadgerReplica {
	t.Helper()
	replica, err := OpenReplica("", false, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { replica.Close() })
	return replica
}

func TestBadgerReplica(t *testing.T) {
	ctx := context.Background()

	t.Run("load of missing year", func(t *testing.T) {
		replica := newReplica(t)
		_, err := replica.LoadYear(ctx, 2025)
		assert.ErrorIs(t, err, entities.ErrYearNotGenerated)
	})

	t.Run("save year round trips sorted", func(t *testing.T) {
		replica := newReplica(t)
		days := buildYear(2025, 10)

		require.NoError(t, replica.SaveYear(ctx, 2025, days))

		loaded, err := replica.LoadYear(ctx, 2025)
		require.NoError(t, err)
		require.Len(t, loaded, 10)
		assert.Equal(t, days, loaded)
		for i := 1; i < len(loaded); i++ {
			assert.Less(t, loaded[i-1].Date, loaded[i].Date)
		}
	})

	t.Run("years are isolated", func(t *testing.T) {
		replica := newReplica(t)
		require.NoError(t, replica.SaveYear(ctx, 2024, buildYear(2024, 3)))
		require.NoError(t, replica.SaveYear(ctx, 2025, buildYear(2025, 5)))

		loaded, err := replica.LoadYear(ctx, 2024)
		require.NoError(t, err)
		assert.Len(t, loaded, 3)
	})

	t.Run("get day", func(t *testing.T) {
		replica := newReplica(t)
		require.NoError(t, replica.SaveYear(ctx, 2025, buildYear(2025, 3)))

		day, err := replica.GetDay(ctx, 2025, "2025-01-02")
		require.NoError(t, err)
		assert.Equal(t, "2025-01-02", day.Date)

		_, err = replica.GetDay(ctx, 2025, "2025-02-01")
		assert.ErrorIs(t, err, entities.ErrDayNotFound)
	})

	t.Run("update day notes patches one key", func(t *testing.T) {
		replica := newReplica(t)
		require.NoError(t, replica.SaveYear(ctx, 2025, buildYear(2025, 3)))

		notes := []entities.Note{{ID: "1", Date: "2025-01-02", Title: "Vrat"}}
		require.NoError(t, replica.UpdateDayNotes(ctx, "2025-01-02", notes))

		day, err := replica.GetDay(ctx, 2025, "2025-01-02")
		require.NoError(t, err)
		require.Len(t, day.Notes, 1)
		assert.Equal(t, "Vrat", day.Notes[0].Title)
	})

	t.Run("note lifecycle", func(t *testing.T) {
		replica := newReplica(t)
		note := entities.Note{ID: "42", Date: "2025-01-02", Title: "Vrat"}

		require.NoError(t, replica.SaveNote(ctx, note))
		notes, err := replica.LoadNotes(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "42", notes[0].ID)

		require.NoError(t, replica.DeleteNote(ctx, "42"))
		notes, err = replica.LoadNotes(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)

		// Deleting an id that was never stored is not an error.
		assert.NoError(t, replica.DeleteNote(ctx, "absent"))
	})

	t.Run("writer stamp reports the opening instance", func(t *testing.T) {
		replica := newReplica(t)

		writer, err := replica.Writer(ctx)
		require.NoError(t, err)
		assert.Equal(t, replica.instanceID, writer.InstanceID)
		assert.NotEmpty(t, writer.UpdatedAt)
	})
}
