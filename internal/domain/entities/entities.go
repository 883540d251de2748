package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrDayNotFound       = errors.New("day not found")
	ErrYearNotGenerated  = errors.New("year not generated")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidYear       = errors.New("invalid year")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrReplicaUnstamped  = errors.New("replica has no writer stamp")
)

// Supported languages
const (
	LangEnglish  = "en"
	LangHindi    = "hi"
	LangSanskrit = "sa"
)

// DefaultNoteCategory is applied when a note is created without a category.
const DefaultNoteCategory = "personal"

// LocalizedText holds a value in English, Hindi and Sanskrit.
// English is the canonical key and must always be non-empty; the
// other languages may be empty but are always present in JSON.
type LocalizedText struct {
	En string `json:"en"`
	Hi string `json:"hi"`
	Sa string `json:"sa"`
}

// FromString normalizes a bare string into a LocalizedText whose three
// language keys all carry the same value. Legacy data stored plain
// strings; normalization happens here, at the boundary, so downstream
// code never branches on shape.
func FromString(s string) LocalizedText {
	return LocalizedText{En: s, Hi: s, Sa: s}
}

// In returns the value for the given language code, falling back to
// English for unknown codes or empty translations.
func (lt LocalizedText) In(lang string) string {
	switch lang {
	case LangHindi:
		if lt.Hi != "" {
			return lt.Hi
		}
	case LangSanskrit:
		if lt.Sa != "" {
			return lt.Sa
		}
	}
	return lt.En
}

// UnmarshalJSON accepts either the canonical three-key object or a bare
// string, which is normalized via FromString.
func (lt *LocalizedText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*lt = FromString(s)
		return nil
	}

	type plain LocalizedText
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*lt = LocalizedText(p)
	return nil
}

// Note represents a user note attached to a calendar date.
type Note struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Time        *string `json:"time"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Touch refreshes the note's update timestamp.
func (n *Note) Touch(now time.Time) {
	n.UpdatedAt = now.UTC().Format(time.RFC3339)
}

// Matches reports whether the note matches a case-insensitive substring
// query against the given field. Field "all" matches title, description,
// category, or a raw substring of the date.
func (n *Note) Matches(query, field string) bool {
	q := strings.ToLower(query)
	switch field {
	case "title":
		return strings.Contains(strings.ToLower(n.Title), q)
	case "description":
		return strings.Contains(strings.ToLower(n.Description), q)
	case "category":
		return strings.Contains(strings.ToLower(n.Category), q)
	default:
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Description), q) ||
			strings.Contains(strings.ToLower(n.Category), q) ||
			strings.Contains(n.Date, query)
	}
}

// DayRecord is the canonical per-date calendar entry.
type DayRecord struct {
	Date            string          `json:"date"`
	Day             LocalizedText   `json:"day"`
	Tithi           LocalizedText   `json:"tithi"`
	Nakshatra       LocalizedText   `json:"nakshatra"`
	Festivals       []LocalizedText `json:"festivals"`
	NationalHoliday bool            `json:"nationalHoliday"`
	OptionalHoliday bool            `json:"optionalHoliday"`
	Sunrise         string          `json:"sunrise"`
	Sunset          string          `json:"sunset"`
	Notes           []Note          `json:"notes"`
}

// HasFestivals reports whether the day carries at least one festival.
func (d *DayRecord) HasFestivals() bool {
	return len(d.Festivals) > 0
}

// FestivalOccurrence is one festival on one date, used by the flattened
// festivals listing.
type FestivalOccurrence struct {
	Date      string        `json:"date"`
	Name      LocalizedText `json:"name"`
	Tithi     LocalizedText `json:"tithi"`
	Nakshatra LocalizedText `json:"nakshatra"`
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsLeapYear implements the Gregorian leap-year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}
