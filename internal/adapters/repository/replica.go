package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// Replica key layout: calendar/{year}/{date} and notes/{id}, one JSON
// document per key, so a single day's notes can be patched without
// rewriting the rest of the year.
const (
	calendarKeyPrefix = "calendar/"
	noteKeyPrefix     = "notes/"
	writerMetaKey     = "meta/writer"
)

// BadgerReplica mirrors calendar and note documents into an embedded
// badger store. It stands in for the remote document-store replica at
// the same key-value boundary; callers treat all its failures as
// non-fatal while the local file write succeeded.
type BadgerReplica struct {
	db         *badger.DB
	logger     *logger.Logger
	instanceID string
}

// OpenReplica opens (or creates) the replica store at path. An empty
// path opens an in-memory store, used by tests.
func OpenReplica(path string, syncWrites bool, log *logger.Logger) (*BadgerReplica, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithSyncWrites(syncWrites).WithLogger(badgerLogger{log})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open replica store: %w", err)
	}

	r := &BadgerReplica{
		db:         db,
		logger:     log,
		instanceID: uuid.NewString(),
	}
	if prev, err := r.Writer(context.Background()); err == nil {
		log.Infow("Replica store was last written by another instance",
			"instance_id", prev.InstanceID, "updated_at", prev.UpdatedAt)
	}
	if err := r.recordWriter(); err != nil {
		log.Warnw("Failed to record replica writer metadata", "error", err)
	}

	log.Infow("Replica store opened", "path", path, "instance_id", r.instanceID)
	return r, nil
}

// recordWriter stamps which server instance last opened the replica.
func (r *BadgerReplica) recordWriter() error {
	meta := ports.ReplicaWriter{
		InstanceID: r.instanceID,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(writerMetaKey), data)
	})
}

// Writer returns the writer stamp left by the instance that last
// opened the store, or entities.ErrReplicaUnstamped for a fresh one.
func (r *BadgerReplica) Writer(ctx context.Context) (*ports.ReplicaWriter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta ports.ReplicaWriter
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(writerMetaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, entities.ErrReplicaUnstamped
		}
		return nil, fmt.Errorf("failed to load replica writer metadata: %w", err)
	}
	return &meta, nil
}

func dayKey(year int, date string) []byte {
	return []byte(fmt.Sprintf("%s%d/%s", calendarKeyPrefix, year, date))
}

func noteKey(id string) []byte {
	return []byte(noteKeyPrefix + id)
}

// SaveYear writes every day of a year as an individual document.
func (r *BadgerReplica) SaveYear(ctx context.Context, year int, days []entities.DayRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	for _, day := range days {
		data, err := json.Marshal(day)
		if err != nil {
			return fmt.Errorf("failed to encode day %s: %w", day.Date, err)
		}
		if err := wb.Set(dayKey(year, day.Date), data); err != nil {
			return fmt.Errorf("failed to stage day %s: %w", day.Date, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush year %d: %w", year, err)
	}
	return nil
}

// LoadYear reads every day document under calendar/{year}/, sorted by
// date. Returns entities.ErrYearNotGenerated when no documents exist.
func (r *BadgerReplica) LoadYear(ctx context.Context, year int) ([]entities.DayRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(fmt.Sprintf("%s%d/", calendarKeyPrefix, year))
	var days []entities.DayRecord

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var day entities.DayRecord
				if err := json.Unmarshal(val, &day); err != nil {
					return err
				}
				days = append(days, day)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load year %d from replica: %w", year, err)
	}
	if len(days) == 0 {
		return nil, entities.ErrYearNotGenerated
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// GetDay reads a single day document.
func (r *BadgerReplica) GetDay(ctx context.Context, year int, date string) (*entities.DayRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var day entities.DayRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dayKey(year, date))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &day)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, entities.ErrDayNotFound
		}
		return nil, fmt.Errorf("failed to load day %s from replica: %w", date, err)
	}
	return &day, nil
}

// UpdateDayNotes patches the notes field of one day document without
// touching the rest of the year.
func (r *BadgerReplica) UpdateDayNotes(ctx context.Context, date string, notes []entities.Note) error {
	year, err := yearOf(date)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := dayKey(year, date)
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return entities.ErrDayNotFound
			}
			return err
		}

		var day entities.DayRecord
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &day)
		}); err != nil {
			return err
		}

		day.Notes = notes
		data, err := json.Marshal(day)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// SaveNote writes one note document.
func (r *BadgerReplica) SaveNote(ctx context.Context, note entities.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to encode note %s: %w", note.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(noteKey(note.ID), data)
	})
}

// DeleteNote removes one note document. Deleting an absent note is not
// an error; the replica is eventually consistent.
func (r *BadgerReplica) DeleteNote(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(noteKey(id))
	})
}

// LoadNotes reads the full mirrored note collection.
func (r *BadgerReplica) LoadNotes(ctx context.Context) ([]entities.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(noteKeyPrefix)
	var notes []entities.Note

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var n entities.Note
				if err := json.Unmarshal(val, &n); err != nil {
					return err
				}
				notes = append(notes, n)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load notes from replica: %w", err)
	}

	sortNotes(notes)
	return notes, nil
}

// Close shuts the underlying badger store.
func (r *BadgerReplica) Close() error {
	return r.db.Close()
}

// badgerLogger adapts the application logger to badger's Logger
// interface. Badger's routine chatter is demoted to debug.
type badgerLogger struct {
	log *logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Errorf("badger: "+format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warnf("badger: "+format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Debugf("badger: "+format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debugf("badger: "+format, args...)
}
