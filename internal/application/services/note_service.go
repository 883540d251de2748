package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// NoteService owns the note store and keeps the per-day embedded note
// lists in the calendar store in sync with it. The note store is the
// authority; embedded copies and the replica are projections.
type NoteService struct {
	noteRepo ports.NoteRepository
	calRepo  ports.CalendarRepository
	replica  ports.ReplicaStore
	logger   *logger.Logger

	mu     sync.Mutex
	lastID int64
}

// NewNoteService creates a new note service. replica may be nil when
// mirroring is disabled.
func NewNoteService(noteRepo ports.NoteRepository, calRepo ports.CalendarRepository, replica ports.ReplicaStore, log *logger.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		calRepo:  calRepo,
		replica:  replica,
		logger:   log,
	}
}

// List returns notes matching the filter, ordered by date then id.
// When the note store cannot be read the replica serves a degraded
// answer instead of failing the request.
func (s *NoteService) List(ctx context.Context, filter ports.NoteFilter) ([]entities.Note, error) {
	notes, err := s.noteRepo.List(ctx, filter)
	if err == nil || s.replica == nil {
		return notes, err
	}

	s.logger.Errorw("Note store read failed, answering from replica", "error", err)
	all, rerr := s.replica.LoadNotes(ctx)
	if rerr != nil {
		s.logger.LogReplicaFailure("load_notes", rerr)
		ReplicaSyncFailures.Inc()
		return nil, err
	}

	filtered := make([]entities.Note, 0, len(all))
	for _, n := range all {
		if filter.Date != nil && n.Date != *filter.Date {
			continue
		}
		if filter.Category != nil && n.Category != *filter.Category {
			continue
		}
		filtered = append(filtered, n)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date < filtered[j].Date
		}
		return filtered[i].ID < filtered[j].ID
	})
	return filtered, nil
}

// Add creates a note and writes it through to the owning day record.
// The note store write must succeed; projection failures are tolerated.
func (s *NoteService) Add(ctx context.Context, req ports.CreateNoteRequest) (*entities.Note, error) {
	if !entities.ValidDate(req.Date) {
		return nil, entities.ErrInvalidDate
	}

	now := time.Now().UTC()
	note := entities.Note{
		ID:          s.newID(now),
		Date:        req.Date,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Time:        req.Time,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}
	if note.Category == "" {
		note.Category = entities.DefaultNoteCategory
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.syncDayNotes(ctx, note.Date)
	s.mirrorNote(note, false)

	s.logger.Infow("Note created", "id", note.ID, "date", note.Date, "category", note.Category)
	return &note, nil
}

// Update merges the provided fields into an existing note. When the
// date changes, both the old and the new day record are re-projected.
func (s *NoteService) Update(ctx context.Context, req ports.UpdateNoteRequest) (*entities.Note, error) {
	existing, err := s.noteRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	oldDate := existing.Date
	if req.Date != nil {
		if !entities.ValidDate(*req.Date) {
			return nil, entities.ErrInvalidDate
		}
		existing.Date = *req.Date
	}
	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Time != nil {
		existing.Time = req.Time
	}
	existing.Touch(time.Now().UTC())

	if err := s.noteRepo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.syncDayNotes(ctx, existing.Date)
	if oldDate != existing.Date {
		s.syncDayNotes(ctx, oldDate)
	}
	s.mirrorNote(*existing, false)

	s.logger.Infow("Note updated", "id", existing.ID, "date", existing.Date)
	return existing, nil
}

// Delete removes a note, re-projects the day it belonged to and returns
// the removed note.
func (s *NoteService) Delete(ctx context.Context, id string) (*entities.Note, error) {
	removed, err := s.noteRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.syncDayNotes(ctx, removed.Date)
	s.mirrorNote(*removed, true)

	s.logger.Infow("Note deleted", "id", id, "date", removed.Date)
	return removed, nil
}

// Search returns notes whose field values contain the query,
// case-insensitive.
func (s *NoteService) Search(ctx context.Context, query, field string) ([]entities.Note, error) {
	return s.noteRepo.Search(ctx, query, field)
}

// newID derives ids from creation time so lexicographic-by-length order
// follows creation order. Same-instant collisions get the next value.
func (s *NoteService) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// syncDayNotes rewrites the embedded note list of one day record from
// the note store. A day whose year was never generated just means the
// note is not yet visible in calendar reads; that is not an error.
func (s *NoteService) syncDayNotes(ctx context.Context, date string) {
	notes, err := s.noteRepo.List(ctx, ports.NoteFilter{Date: &date})
	if err != nil {
		s.logger.Errorw("Failed to list notes for day projection", "date", date, "error", err)
		return
	}

	if err := s.calRepo.UpdateDayNotes(ctx, date, notes); err != nil {
		if errors.Is(err, entities.ErrYearNotGenerated) || errors.Is(err, entities.ErrDayNotFound) {
			s.logger.Debugw("Day record absent, note kept unprojected", "date", date)
		} else {
			s.logger.Errorw("Failed to project notes onto day record", "date", date, "error", err)
		}
		return
	}

	if s.replica != nil {
		if err := s.replica.UpdateDayNotes(ctx, date, notes); err != nil {
			s.logger.LogReplicaFailure("update_day_notes", err)
			ReplicaSyncFailures.Inc()
		}
	}
}

// mirrorNote pushes a note write or deletion to the replica,
// best-effort.
func (s *NoteService) mirrorNote(note entities.Note, deleted bool) {
	if s.replica == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	var err error
	op := "save_note"
	if deleted {
		op = "delete_note"
		err = s.replica.DeleteNote(ctx, note.ID)
	} else {
		err = s.replica.SaveNote(ctx, note)
	}
	if err != nil {
		s.logger.LogReplicaFailure(op, err)
		ReplicaSyncFailures.Inc()
	}
}
