// Package store persists validated content entries between syncs.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"

	"github.com/eykd/sitecontent/internal/content"
	"github.com/eykd/sitecontent/internal/logging"
	"github.com/eykd/sitecontent/internal/markdown"
)

// ErrNotFound is returned when an entry or sync record does not exist.
var ErrNotFound = errors.New("not found")

const lastSyncKey = "last-sync"

// Record is the persisted form of a content entry. Data is kept as JSON so
// that values of any declared field kind round-trip through the store.
type Record struct {
	Key        string
	Collection string `badgerhold:"index"`
	ID         string
	Data       []byte
	Body       string
	Rendered   []byte
	FilePath   string
	Digest     string
	SyncID     string
	StoredAt   time.Time
}

// SyncRecord describes the most recent completed sync.
type SyncRecord struct {
	ID          string
	CompletedAt time.Time
	Entries     int
	Errors      int
}

// Counts summarizes the changes made by Replace.
type Counts struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// Store is a badgerhold-backed entry store.
type Store struct {
	db     *badgerhold.Store
	logger *log.Logger
}

// Open opens (creating if needed) the store at dir. A nil logger discards
// store records.
func Open(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dir, err)
	}
	logger.Debug().Str("path", dir).Msg("store opened")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func recordKey(collection, id string) string {
	return collection + "/" + id
}

// Replace makes the stored contents of collection equal to entries. Entries
// whose digest, source path and rendered output are unchanged are not
// rewritten; stored entries absent from entries are deleted.
func (s *Store) Replace(ctx context.Context, collection string, entries []content.Entry, syncID string) (Counts, error) {
	var counts Counts

	var existing []Record
	if err := s.db.Find(&existing, badgerhold.Where("Collection").Eq(collection).Index("Collection")); err != nil {
		return counts, fmt.Errorf("list %s: %w", collection, err)
	}
	stale := make(map[string]Record, len(existing))
	for _, r := range existing {
		stale[r.ID] = r
	}

	now := time.Now().UTC()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		prev, had := stale[e.ID]
		delete(stale, e.ID)

		e.Collection = collection
		rec, err := toRecord(e, syncID, now)
		if err != nil {
			return counts, err
		}
		if had && sameContent(prev, rec) {
			counts.Unchanged++
			continue
		}
		if err := s.db.Upsert(rec.Key, &rec); err != nil {
			return counts, fmt.Errorf("store %s: %w", rec.Key, err)
		}
		if had {
			counts.Updated++
		} else {
			counts.Added++
		}
	}

	for id := range stale {
		if err := s.db.Delete(recordKey(collection, id), &Record{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return counts, fmt.Errorf("delete %s/%s: %w", collection, id, err)
		}
		counts.Removed++
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("added", counts.Added).
		Int("updated", counts.Updated).
		Int("unchanged", counts.Unchanged).
		Int("removed", counts.Removed).
		Msg("collection stored")
	return counts, nil
}

// List returns the stored entries of collection ordered by id.
func (s *Store) List(_ context.Context, collection string) ([]content.Entry, error) {
	var recs []Record
	query := badgerhold.Where("Collection").Eq(collection).Index("Collection").SortBy("ID")
	if err := s.db.Find(&recs, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	entries := make([]content.Entry, 0, len(recs))
	for _, r := range recs {
		e, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns one stored entry.
func (s *Store) Get(_ context.Context, collection, id string) (content.Entry, error) {
	var rec Record
	err := s.db.Get(recordKey(collection, id), &rec)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return content.Entry{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return content.Entry{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return fromRecord(rec)
}

// RecordSync stores rec as the most recent sync.
func (s *Store) RecordSync(_ context.Context, rec SyncRecord) error {
	if err := s.db.Upsert(lastSyncKey, &rec); err != nil {
		return fmt.Errorf("record sync: %w", err)
	}
	return nil
}

// LastSync returns the most recent sync record.
func (s *Store) LastSync(_ context.Context) (SyncRecord, error) {
	var rec SyncRecord
	err := s.db.Get(lastSyncKey, &rec)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return SyncRecord{}, ErrNotFound
	}
	if err != nil {
		return SyncRecord{}, fmt.Errorf("last sync: %w", err)
	}
	return rec, nil
}

func sameContent(a, b Record) bool {
	return a.Digest == b.Digest && a.FilePath == b.FilePath && bytes.Equal(a.Rendered, b.Rendered)
}

func toRecord(e content.Entry, syncID string, now time.Time) (Record, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return Record{}, fmt.Errorf("encode %s/%s: %w", e.Collection, e.ID, err)
	}
	var rendered []byte
	if e.Rendered != nil {
		if rendered, err = json.Marshal(e.Rendered); err != nil {
			return Record{}, fmt.Errorf("encode %s/%s: %w", e.Collection, e.ID, err)
		}
	}
	return Record{
		Key:        recordKey(e.Collection, e.ID),
		Collection: e.Collection,
		ID:         e.ID,
		Data:       data,
		Body:       e.Body,
		Rendered:   rendered,
		FilePath:   e.FilePath,
		Digest:     e.Digest,
		SyncID:     syncID,
		StoredAt:   now,
	}, nil
}

// fromRecord rebuilds an entry. Data values come back in their JSON form:
// dates as RFC 3339 strings and references as {collection, id} objects.
func fromRecord(r Record) (content.Entry, error) {
	e := content.Entry{
		Collection: r.Collection,
		ID:         r.ID,
		Body:       r.Body,
		FilePath:   r.FilePath,
		Digest:     r.Digest,
	}
	if err := json.Unmarshal(r.Data, &e.Data); err != nil {
		return content.Entry{}, fmt.Errorf("decode %s: %w", r.Key, err)
	}
	if len(r.Rendered) > 0 {
		e.Rendered = &markdown.Rendered{}
		if err := json.Unmarshal(r.Rendered, e.Rendered); err != nil {
			return content.Entry{}, fmt.Errorf("decode %s: %w", r.Key, err)
		}
	}
	return e, nil
}
