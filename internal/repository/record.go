package repository

import (
	"context"

	"filedrop/internal/model"
)

// RecordRepository defines data access for file records.
// No business logic here — strictly persistence operations.
type RecordRepository interface {
	// Create inserts a new record. Returns ErrDuplicateID if the id is taken.
	Create(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error)

	// FindByID returns a record by its id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.FileRecord, error)

	// Delete removes a record by id. It returns nil if the record was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error

	// DeleteBatch removes all the given ids with a single store write.
	// Missing ids are skipped silently.
	DeleteBatch(ctx context.Context, ids []string) error

	// All returns every live record.
	All(ctx context.Context) ([]*model.FileRecord, error)

	// Count returns the number of live records.
	Count(ctx context.Context) (int, error)
}
