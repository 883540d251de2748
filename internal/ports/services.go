package ports

import (
	"context"

	"github.com/panchang/core/internal/domain/entities"
)

// CalendarService exposes year-level calendar operations.
type CalendarService interface {
	// GetCalendar loads a year, generating and persisting it first if
	// it was never generated.
	GetCalendar(ctx context.Context, year int) ([]entities.DayRecord, error)

	// Generate derives every day of a year, preserves notes embedded in
	// any previously persisted copy, persists the result and returns
	// it. A storage failure is logged but does not suppress the
	// in-memory result.
	Generate(ctx context.Context, year int) ([]entities.DayRecord, error)

	// GetFestivals flattens a year into one entry per festival per day.
	GetFestivals(ctx context.Context, year int) ([]entities.FestivalOccurrence, error)

	// GetHolidays returns the subset of days with nationalHoliday set.
	GetHolidays(ctx context.Context, year int) ([]entities.DayRecord, error)

	GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error)
}

// NoteService exposes note CRUD with calendar write-through.
type NoteService interface {
	List(ctx context.Context, filter NoteFilter) ([]entities.Note, error)
	Add(ctx context.Context, req CreateNoteRequest) (*entities.Note, error)
	Update(ctx context.Context, req UpdateNoteRequest) (*entities.Note, error)
	Delete(ctx context.Context, id string) (*entities.Note, error)
	Search(ctx context.Context, query, field string) ([]entities.Note, error)
}

// ExportService renders a year's calendar in an interchange format.
type ExportService interface {
	Export(ctx context.Context, year int, format string) (*ExportResult, error)
}

// CreateNoteRequest carries the fields of a new note.
type CreateNoteRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Time        *string `json:"time" validate:"omitempty,datetime=15:04"`
}

// UpdateNoteRequest carries a note id plus the fields to merge. Nil
// pointers leave the existing value untouched.
type UpdateNoteRequest struct {
	ID          string  `json:"id" validate:"required"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Time        *string `json:"time" validate:"omitempty,datetime=15:04"`
}

// ExportResult is a rendered export plus its HTTP metadata.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}
