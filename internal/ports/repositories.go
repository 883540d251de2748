package ports

import (
	"context"

	"github.com/panchang/core/internal/domain/entities"
)

// CalendarRepository is the durable, authoritative store for year-long
// day-record sequences. Implementations must serialize concurrent
// note updates within a year so no update is lost.
type CalendarRepository interface {
	// Load returns the persisted sequence for a year, or
	// entities.ErrYearNotGenerated when the year was never saved.
	Load(ctx context.Context, year int) ([]entities.DayRecord, error)

	// Save overwrites the whole year in place.
	Save(ctx context.Context, year int, days []entities.DayRecord) error

	// SaveMerging overwrites a year after letting merge rework the
	// new days against the previously persisted ones, all under the
	// same lock UpdateDayNotes takes. merge is skipped when the year
	// was never saved.
	SaveMerging(ctx context.Context, year int, days []entities.DayRecord, merge func(prev, next []entities.DayRecord) []entities.DayRecord) error

	// GetDay returns one record, or entities.ErrDayNotFound /
	// entities.ErrYearNotGenerated.
	GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error)

	// UpdateDayNotes replaces only the notes field of one day record,
	// leaving every other field untouched.
	UpdateDayNotes(ctx context.Context, date string, notes []entities.Note) error
}

// NoteRepository owns the standalone note collection.
type NoteRepository interface {
	List(ctx context.Context, filter NoteFilter) ([]entities.Note, error)
	GetByID(ctx context.Context, id string) (*entities.Note, error)
	Create(ctx context.Context, note entities.Note) error
	Update(ctx context.Context, note entities.Note) error
	// Delete removes the note and returns the removed entity.
	Delete(ctx context.Context, id string) (*entities.Note, error)
	Search(ctx context.Context, query, field string) ([]entities.Note, error)
}

// ReplicaStore mirrors calendar and note data into a hierarchical
// key-value document store (calendar/{year}/{date}, notes/{id}). It is
// the best-effort second tier: callers log its failures but never treat
// them as fatal while the local write succeeded.
type ReplicaStore interface {
	SaveYear(ctx context.Context, year int, days []entities.DayRecord) error
	LoadYear(ctx context.Context, year int) ([]entities.DayRecord, error)
	GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error)
	// UpdateDayNotes patches the notes field of a single day document
	// without rewriting the rest of the year.
	UpdateDayNotes(ctx context.Context, date string, notes []entities.Note) error
	SaveNote(ctx context.Context, note entities.Note) error
	DeleteNote(ctx context.Context, id string) error
	LoadNotes(ctx context.Context) ([]entities.Note, error)
	// Writer returns the metadata stamped by the instance that last
	// opened the store.
	Writer(ctx context.Context) (*ReplicaWriter, error)
	Close() error
}

// ReplicaWriter identifies which server instance last opened the
// replica for writing, and when.
type ReplicaWriter struct {
	InstanceID string `json:"instanceId"`
	UpdatedAt  string `json:"updatedAt"`
}

// NoteFilter narrows note listings. Both filters apply when both are set.
type NoteFilter struct {
	Date     *string
	Category *string
}
