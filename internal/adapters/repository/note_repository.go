package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// NoteRepository persists the standalone note collection in a single
// notes.json file. A repository-wide mutex serializes every mutation;
// the collection is small and mutations are rare.
type NoteRepository struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewNoteRepository creates a note repository storing notes.json under
// dataDir.
func NewNoteRepository(dataDir string, log *logger.Logger) (*NoteRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &NoteRepository{
		path:   filepath.Join(dataDir, "notes.json"),
		logger: log,
	}, nil
}

func (r *NoteRepository) loadAll() ([]entities.Note, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Note{}, nil
		}
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	var notes []entities.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) saveAll(notes []entities.Note) error {
	start := time.Now()
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err == nil {
		err = os.Rename(tmp, r.path)
	}
	r.logger.LogStorageOp("save_notes", r.path, float64(time.Since(start).Nanoseconds())/1e6, err)
	if err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}

// List returns notes matching the filter, sorted by date ascending with
// the creation-ordered id as tie-break.
func (r *NoteRepository) List(ctx context.Context, filter ports.NoteFilter) ([]entities.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	notes, err := r.loadAll()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	filtered := notes[:0:0]
	for _, n := range notes {
		if filter.Date != nil && n.Date != *filter.Date {
			continue
		}
		if filter.Category != nil && n.Category != *filter.Category {
			continue
		}
		filtered = append(filtered, n)
	}

	sortNotes(filtered)
	return filtered, nil
}

// GetByID returns one note or entities.ErrNoteNotFound.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	notes, err := r.loadAll()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, entities.ErrNoteNotFound
}

// Create appends a new note to the collection.
func (r *NoteRepository) Create(ctx context.Context, note entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.loadAll()
	if err != nil {
		return err
	}
	notes = append(notes, note)
	if err := r.saveAll(notes); err != nil {
		return err
	}

	r.logger.Debugw("Note created", "note_id", note.ID, "date", note.Date)
	return nil
}

// Update replaces the stored note with the same id.
func (r *NoteRepository) Update(ctx context.Context, note entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.loadAll()
	if err != nil {
		return err
	}

	for i := range notes {
		if notes[i].ID == note.ID {
			notes[i] = note
			return r.saveAll(notes)
		}
	}
	return entities.ErrNoteNotFound
}

// Delete removes a note and returns the removed entity.
func (r *NoteRepository) Delete(ctx context.Context, id string) (*entities.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	for i := range notes {
		if notes[i].ID == id {
			removed := notes[i]
			notes = append(notes[:i], notes[i+1:]...)
			if err := r.saveAll(notes); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, entities.ErrNoteNotFound
}

// Search runs a case-insensitive substring match over the requested
// field ("all", "title", "description" or "category").
func (r *NoteRepository) Search(ctx context.Context, query, field string) ([]entities.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	notes, err := r.loadAll()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var results []entities.Note
	for _, n := range notes {
		if n.Matches(query, field) {
			results = append(results, n)
		}
	}
	sortNotes(results)
	return results, nil
}

func sortNotes(notes []entities.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Date != notes[j].Date {
			return notes[i].Date < notes[j].Date
		}
		return notes[i].ID < notes[j].ID
	})
}
