package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedText(t *testing.T) {
	t.Run("unmarshals canonical object", func(t *testing.T) {
		var lt LocalizedText
		err := json.Unmarshal([]byte(`{"en":"Diwali","hi":"दिवाली","sa":"दीपावलिः"}`), &lt)
		require.NoError(t, err)
		assert.Equal(t, "Diwali", lt.En)
		assert.Equal(t, "दिवाली", lt.Hi)
	})

	t.Run("normalizes bare string to all languages", func(t *testing.T) {
		var lt LocalizedText
		err := json.Unmarshal([]byte(`"Diwali"`), &lt)
		require.NoError(t, err)
		assert.Equal(t, LocalizedText{En: "Diwali", Hi: "Diwali", Sa: "Diwali"}, lt)
	})

	t.Run("normalizes inside containing struct", func(t *testing.T) {
		var day DayRecord
		err := json.Unmarshal([]byte(`{"date":"2025-01-01","tithi":"Pratipada"}`), &day)
		require.NoError(t, err)
		assert.Equal(t, "Pratipada", day.Tithi.En)
		assert.Equal(t, "Pratipada", day.Tithi.Hi)
	})

	t.Run("marshals with all three keys", func(t *testing.T) {
		data, err := json.Marshal(LocalizedText{En: "Holi"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"en":"Holi","hi":"","sa":""}`, string(data))
	})

	t.Run("in falls back to english", func(t *testing.T) {
		lt := LocalizedText{En: "Holi", Hi: "होली"}
		assert.Equal(t, "होली", lt.In(LangHindi))
		assert.Equal(t, "Holi", lt.In(LangSanskrit))
		assert.Equal(t, "Holi", lt.In("fr"))
	})
}

func TestNoteMatches(t *testing.T) {
	note := Note{
		ID:          "1",
		Date:        "2025-03-08",
		Title:       "Holi Party",
		Description: "Bring colors",
		Category:    "festival",
	}

	tests := []struct {
		name  string
		query string
		field string
		want  bool
	}{
		{"title match is case insensitive", "holi", "title", true},
		{"title miss", "diwali", "title", false},
		{"description match", "COLORS", "description", true},
		{"category match", "fest", "category", true},
		{"all matches title", "party", "all", true},
		{"all matches date substring", "03-08", "all", true},
		{"all miss", "meeting", "all", false},
		{"unknown field behaves like all", "party", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, note.Matches(tt.query, tt.field))
		})
	}
}

func TestNoteTouch(t *testing.T) {
	note := Note{UpdatedAt: "2025-01-01T00:00:00Z"}
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	note.Touch(now)
	assert.Equal(t, "2025-06-01T10:30:00Z", note.UpdatedAt)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-01-31"))
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2025-02-29"))
	assert.False(t, ValidDate("2025-13-01"))
	assert.False(t, ValidDate("2025-1-1"))
	assert.False(t, ValidDate("not-a-date"))
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2025))
	assert.Equal(t, 365, DaysInYear(1900))
	assert.Equal(t, 366, DaysInYear(2000))
}
