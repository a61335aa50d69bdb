package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"filedrop/internal/model"
	"filedrop/internal/qr"
	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/token"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("file not found")
	ErrExpired      = errors.New("file link expired")
	ErrUnauthorized = errors.New("invalid password")
	ErrReaderNil    = errors.New("reader is nil")
)

// maxIDAttempts bounds the collision check-and-retry loop on record creation.
const maxIDAttempts = 5

// UploadResult is the service-level DTO for a completed upload.
type UploadResult struct {
	Record  *model.FileRecord
	FileURL string
	QRData  string
}

// FileMeta is the display-safe subset of a record. It never carries the
// password digest or storage path.
type FileMeta struct {
	ID                string `json:"id"`
	OriginalName      string `json:"originalName"`
	ExpiresAt         int64  `json:"expiresAt"`
	PasswordProtected bool   `json:"passwordProtected"`
}

// SweepResult summarizes one expiry sweep.
type SweepResult struct {
	Scanned         int
	Removed         int
	CleanupFailures int
}

// Options holds the compiled-in sharing behavior for the service.
type Options struct {
	// BaseURL is the absolute URL prefix embedded in share links, e.g.
	// "http://localhost:8080".
	BaseURL string
	// TTL is the fixed lifetime of every record; ExpiresAt is immutable
	// after creation.
	TTL time.Duration
	// IDLength is the hex length of generated share ids.
	IDLength int
}

// ShareService defines the use cases for ephemeral file sharing.
type ShareService interface {
	// Upload persists the file bytes under a generated name, creates the
	// record, and returns the share URL plus its QR code. The stored blob is
	// rolled back if the record cannot be written, and the record is only
	// written after URL and QR generation succeed, so a returned id never
	// references a partial upload.
	Upload(ctx context.Context, r io.Reader, originalName, password string, size int64) (*UploadResult, error)

	// Meta returns display-safe fields for the given id. Unknown and
	// already-swept ids are indistinguishable; both yield ErrNotFound.
	Meta(ctx context.Context, id string) (*FileMeta, error)

	// Download validates expiry and password and returns the stored bytes.
	// An expired record is deleted on access and ErrExpired is terminal for
	// that id. Downloading never deletes an unexpired record.
	Download(ctx context.Context, id, password string) (io.ReadCloser, *model.FileRecord, error)

	// Sweep removes every expired record and its blob, rewriting the store
	// at most once.
	Sweep(ctx context.Context) (SweepResult, error)

	// Count returns the number of live records.
	Count(ctx context.Context) (int, error)
}

type shareService struct {
	store   storage.Storage
	repo    repository.RecordRepository
	encoder qr.Encoder
	metrics *Metrics
	opts    Options

	// now is swapped in tests to exercise expiry without sleeping.
	now func() time.Time
}

// NewShareService constructs a ShareService.
func NewShareService(store storage.Storage, repo repository.RecordRepository, encoder qr.Encoder, m *Metrics, opts Options) ShareService {
	return &shareService{
		store:   store,
		repo:    repo,
		encoder: encoder,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

func (s *shareService) Upload(ctx context.Context, r io.Reader, originalName, password string, size int64) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	now := s.now().UTC()

	// Stored name decouples persisted bytes from the untrusted original name:
	// upload timestamp plus a random suffix, keeping the extension for
	// download convenience.
	suffix, err := token.GenerateID(8)
	if err != nil {
		return nil, fmt.Errorf("generate name suffix: %w", err)
	}
	storedName := fmt.Sprintf("%d_%s%s", now.UnixMilli(), suffix, filepath.Ext(originalName))

	objInfo, err := s.store.Put(ctx, storedName, r, storage.PutOptions{Size: size})
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	rec := &model.FileRecord{
		StoredName:     storedName,
		OriginalName:   originalName,
		StoragePath:    objInfo.Path,
		Size:           objInfo.Size,
		PasswordDigest: token.HashPassword(password),
		UploadedAt:     now,
		ExpiresAt:      now.Add(s.opts.TTL),
	}

	// Build the share URL and QR image before the record is persisted so a
	// failure here never leaves an orphaned record behind. Id collisions are
	// detected by the repository and retried with a fresh token.
	var res *UploadResult
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := token.GenerateID(s.opts.IDLength)
		if err != nil {
			return nil, s.abortUpload(ctx, objInfo.Path, fmt.Errorf("generate id: %w", err))
		}
		fileURL := fmt.Sprintf("%s/download?id=%s", s.opts.BaseURL, id)

		qrData, err := s.encoder.DataURI(fileURL)
		if err != nil {
			return nil, s.abortUpload(ctx, objInfo.Path, fmt.Errorf("render qr code: %w", err))
		}

		rec.ID = id
		if _, err := s.repo.Create(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrDuplicateID) {
				continue
			}
			return nil, s.abortUpload(ctx, objInfo.Path, fmt.Errorf("save record: %w", err))
		}

		res = &UploadResult{Record: rec, FileURL: fileURL, QRData: qrData}
		break
	}
	if res == nil {
		return nil, s.abortUpload(ctx, objInfo.Path, fmt.Errorf("exhausted %d id generation attempts", maxIDAttempts))
	}

	s.metrics.UploadsTotal.Inc()
	return res, nil
}

// abortUpload rolls back the stored blob after a failed upload step.
func (s *shareService) abortUpload(ctx context.Context, path string, cause error) error {
	if delErr := s.store.Delete(ctx, path); delErr != nil {
		s.metrics.CleanupFailuresTotal.Inc()
		return fmt.Errorf("%v; rollback delete failed: %v", cause, delErr)
	}
	return cause
}

func (s *shareService) Meta(ctx context.Context, id string) (*FileMeta, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &FileMeta{
		ID:                rec.ID,
		OriginalName:      rec.OriginalName,
		ExpiresAt:         rec.ExpiresAt.UnixMilli(),
		PasswordProtected: rec.PasswordProtected(),
	}, nil
}

func (s *shareService) Download(ctx context.Context, id, password string) (io.ReadCloser, *model.FileRecord, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	// Lazy expiry: an expired record is purged on access and gone for all
	// future requests.
	if rec.Expired(s.now()) {
		s.removeExpired(ctx, rec)
		return nil, nil, ErrExpired
	}

	// The record is kept on a password mismatch; retries are allowed.
	if rec.PasswordProtected() && !token.VerifyPassword(rec.PasswordDigest, password) {
		return nil, nil, ErrUnauthorized
	}

	rc, _, err := s.store.Get(ctx, rec.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}

	s.metrics.DownloadsTotal.Inc()
	return rc, rec, nil
}

// removeExpired deletes an expired record and its blob, best-effort. Blob
// deletion failures are counted and logged but never block record removal.
func (s *shareService) removeExpired(ctx context.Context, rec *model.FileRecord) {
	if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
		s.metrics.CleanupFailuresTotal.Inc()
		log.Printf(`{"level":"warn","msg":"expired blob cleanup failed","id":%q,"error":%q}`, rec.ID, err.Error())
	}
	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		log.Printf(`{"level":"error","msg":"expired record removal failed","id":%q,"error":%q}`, rec.ID, err.Error())
	}
	s.metrics.RecordsExpiredTotal.Inc()
}

func (s *shareService) Sweep(ctx context.Context) (SweepResult, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("load records: %w", err)
	}

	now := s.now()
	res := SweepResult{Scanned: len(records)}

	var expired []string
	for _, rec := range records {
		if !rec.Expired(now) {
			continue
		}
		if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
			s.metrics.CleanupFailuresTotal.Inc()
			res.CleanupFailures++
			log.Printf(`{"level":"warn","msg":"sweep blob cleanup failed","id":%q,"error":%q}`, rec.ID, err.Error())
		}
		expired = append(expired, rec.ID)
	}

	// One store rewrite per sweep, and none when nothing expired.
	if len(expired) > 0 {
		if err := s.repo.DeleteBatch(ctx, expired); err != nil {
			return res, fmt.Errorf("remove expired records: %w", err)
		}
		res.Removed = len(expired)
		s.metrics.RecordsExpiredTotal.Add(float64(len(expired)))
	}

	s.metrics.SweepsTotal.Inc()
	return res, nil
}

func (s *shareService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
