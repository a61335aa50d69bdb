package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"filedrop/internal/model"
	"filedrop/internal/repository"
)

// RecordJSONFile is a flat-file implementation of repository.RecordRepository.
// The whole record map is serialized as one JSON blob; every mutation reads
// the blob, applies the change, and rewrites the file in full. A mutex
// serializes in-process writers so interleaved requests cannot lose updates;
// across processes the last writer's snapshot still wins.
type RecordJSONFile struct {
	mu   sync.Mutex
	path string
}

// NewRecordJSONFile creates a repository backed by the JSON file at path.
// The parent directory is created if missing.
func NewRecordJSONFile(path string) (*RecordJSONFile, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &RecordJSONFile{path: path}, nil
}

var _ repository.RecordRepository = (*RecordJSONFile)(nil)

// load reads and deserializes the full record map. A missing file yields an
// empty map. A corrupt file also yields an empty map with a logged warning:
// availability is favored over strict correctness here.
func (r *RecordJSONFile) load() map[string]*model.FileRecord {
	records := make(map[string]*model.FileRecord)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf(`{"level":"warn","msg":"record store unreadable, starting empty","path":%q,"error":%q}`, r.path, err.Error())
		}
		return records
	}
	if len(data) == 0 {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf(`{"level":"warn","msg":"record store corrupt, starting empty","path":%q,"error":%q}`, r.path, err.Error())
		return make(map[string]*model.FileRecord)
	}
	return records
}

// save serializes the full record map and overwrites the backing file.
func (r *RecordJSONFile) save(records map[string]*model.FileRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record store: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write record store: %w", err)
	}
	return nil
}

// Create inserts a new record, rejecting duplicate ids so the caller can retry
// with a fresh token.
func (r *RecordJSONFile) Create(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	if rec == nil || rec.ID == "" {
		return nil, fmt.Errorf("record with id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	if _, exists := records[rec.ID]; exists {
		return nil, repository.ErrDuplicateID
	}
	records[rec.ID] = rec
	if err := r.save(records); err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByID returns the record for id, or repository.ErrNotFound.
func (r *RecordJSONFile) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.load()[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

// Delete removes the record for id. A missing id is not an error.
func (r *RecordJSONFile) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return r.save(records)
}

// DeleteBatch removes all the given ids and rewrites the store once.
// The store is not touched when nothing changed.
func (r *RecordJSONFile) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	changed := false
	for _, id := range ids {
		if _, ok := records[id]; ok {
			delete(records, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(records)
}

// All returns every live record.
func (r *RecordJSONFile) All(ctx context.Context) ([]*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	out := make([]*model.FileRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of live records.
func (r *RecordJSONFile) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.load()), nil
}
