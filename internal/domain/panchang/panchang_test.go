package panchang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchang/core/internal/domain/entities"
)

func TestTithi(t *testing.T) {
	t.Run("january first is always shukla pratipada", func(t *testing.T) {
		for _, year := range []int{2023, 2024, 2025, 2026} {
			tithi := Tithi(NewDate(year, 1, 1))
			assert.Equal(t, "Shukla Paksha Pratipada", tithi.En, "year %d", year)
			assert.Equal(t, "शुक्ल पक्ष प्रतिपदा", tithi.Hi, "year %d", year)
		}
	})

	t.Run("fifteenth day is purnima or amavasya", func(t *testing.T) {
		// Day-of-year 14 and 29 hit the shared fifteenth name in each
		// fortnight.
		tithi := Tithi(NewDate(2025, 1, 15))
		assert.Equal(t, "Shukla Paksha Purnima/Amavasya", tithi.En)

		tithi = Tithi(NewDate(2025, 1, 30))
		assert.Equal(t, "Krishna Paksha Purnima/Amavasya", tithi.En)
	})

	t.Run("paksha flips at day sixteen of the cycle", func(t *testing.T) {
		tithi := Tithi(NewDate(2025, 1, 16))
		assert.Equal(t, "Krishna Paksha Pratipada", tithi.En)
	})

	t.Run("cycle wraps after thirty days", func(t *testing.T) {
		assert.Equal(t, Tithi(NewDate(2025, 1, 1)), Tithi(NewDate(2025, 1, 31)))
	})

	t.Run("deterministic", func(t *testing.T) {
		d := NewDate(2026, 7, 19)
		assert.Equal(t, Tithi(d), Tithi(d))
		assert.Equal(t, Nakshatra(d), Nakshatra(d))
	})
}

func TestNakshatra(t *testing.T) {
	t.Run("january first is ashwini", func(t *testing.T) {
		n := Nakshatra(NewDate(2025, 1, 1))
		assert.Equal(t, "Ashwini", n.En)
		assert.Equal(t, "अश्विनी", n.Hi)
	})

	t.Run("cycle wraps after twentyseven days", func(t *testing.T) {
		assert.Equal(t, Nakshatra(NewDate(2025, 1, 1)), Nakshatra(NewDate(2025, 1, 28)))
	})
}

func TestFestivals(t *testing.T) {
	t.Run("fixed table entry comes first", func(t *testing.T) {
		festivals := Festivals(NewDate(2026, 1, 26))
		require.NotEmpty(t, festivals)
		assert.Equal(t, "Republic Day", festivals[0].En)
	})

	t.Run("purnima tithi adds synthetic entry", func(t *testing.T) {
		// January 15: day-of-year 14, the fifteenth tithi.
		festivals := Festivals(NewDate(2025, 1, 15))
		names := festivalNames(festivals)
		assert.Contains(t, names, "Purnima")
		assert.Contains(t, names, "Amavasya")
	})

	t.Run("ekadashi tithi adds synthetic entry", func(t *testing.T) {
		// January 11: day-of-year 10, the eleventh tithi.
		festivals := Festivals(NewDate(2025, 1, 11))
		assert.Contains(t, festivalNames(festivals), "Ekadashi")
	})

	t.Run("plain day has no festivals", func(t *testing.T) {
		// January 3: day-of-year 2, Tritiya, no fixed entry.
		assert.Empty(t, Festivals(NewDate(2025, 1, 3)))
	})

	t.Run("festival dates are year independent", func(t *testing.T) {
		for _, year := range []int{2024, 2025, 2026} {
			festivals := Festivals(NewDate(year, 12, 25))
			require.NotEmpty(t, festivals, "year %d", year)
			assert.Equal(t, "Christmas", festivals[0].En, "year %d", year)
		}
	})
}

func TestDayName(t *testing.T) {
	// 2025-01-01 was a Wednesday.
	day := DayName(NewDate(2025, 1, 1))
	assert.Equal(t, "Wednesday", day.En)
	assert.Equal(t, "बुधवार", day.Hi)
}

func TestDate(t *testing.T) {
	t.Run("string format", func(t *testing.T) {
		assert.Equal(t, "2025-03-08", NewDate(2025, 3, 8).String())
	})

	t.Run("day of year counts from zero", func(t *testing.T) {
		assert.Equal(t, 0, NewDate(2025, 1, 1).DayOfYear())
		assert.Equal(t, 31, NewDate(2025, 2, 1).DayOfYear())
		assert.Equal(t, 364, NewDate(2025, 12, 31).DayOfYear())
		assert.Equal(t, 365, NewDate(2024, 12, 31).DayOfYear())
	})
}

func festivalNames(festivals []entities.LocalizedText) []string {
	names := make([]string, len(festivals))
	for i, f := range festivals {
		names[i] = f.En
	}
	return names
}
