package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filedrop/internal/model"
	qrMocks "filedrop/internal/qr/mocks"
	"filedrop/internal/repository"
	repoMocks "filedrop/internal/repository/mocks"
	"filedrop/internal/storage"
	storeMocks "filedrop/internal/storage/mocks"
	"filedrop/internal/token"
)

func newTestService(t *testing.T, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) *shareService {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	svc := NewShareService(mStore, mRepo, mQR, m, Options{
		BaseURL:  "http://localhost:8080",
		TTL:      10 * time.Minute,
		IDLength: 16,
	})
	return svc.(*shareService)
}

func TestShareService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		originalName string
		password     string
		setupMocks   func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader
		check        func(t *testing.T, res *UploadResult)
		wantErr      error
		wantErrMsg   string
	}{
		{
			name:         "happy path without password",
			originalName: "report.pdf",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(name string) bool {
					return strings.HasSuffix(name, ".pdf")
				}), r, storage.PutOptions{Size: 11}).Return(storage.ObjectInfo{
					Path: "uploads/gen.pdf",
					Size: 11,
				}, nil)
				mQR.On("DataURI", mock.MatchedBy(func(url string) bool {
					return strings.HasPrefix(url, "http://localhost:8080/download?id=")
				})).Return("data:image/png;base64,AAAA", nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(rec *model.FileRecord) bool {
					return len(rec.ID) == 16 && rec.StoragePath == "uploads/gen.pdf" && rec.PasswordDigest == ""
				})).Return(&model.FileRecord{}, nil)
				return r
			},
			check: func(t *testing.T, res *UploadResult) {
				assert.Equal(t, "http://localhost:8080/download?id="+res.Record.ID, res.FileURL)
				assert.Equal(t, "data:image/png;base64,AAAA", res.QRData)
				assert.Equal(t, "report.pdf", res.Record.OriginalName)
				assert.Equal(t, 10*time.Minute, res.Record.ExpiresAt.Sub(res.Record.UploadedAt))
			},
		},
		{
			name:         "happy path with password",
			originalName: "secret.txt",
			password:     "abc",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("hush")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Path: "uploads/gen.txt", Size: 4}, nil)
				mQR.On("DataURI", mock.Anything).Return("data:image/png;base64,AAAA", nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(rec *model.FileRecord) bool {
					return rec.PasswordDigest != "" && rec.PasswordDigest != "abc"
				})).Return(&model.FileRecord{}, nil)
				return r
			},
			check: func(t *testing.T, res *UploadResult) {
				assert.True(t, res.Record.PasswordProtected())
			},
		},
		{
			name:         "nil reader",
			originalName: "x.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:         "storage error",
			originalName: "x.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
				return r
			},
			wantErrMsg: "store upload: disk full",
		},
		{
			name:         "qr failure rolls back the stored blob",
			originalName: "x.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Path: "uploads/gen.txt", Size: 1}, nil)
				mQR.On("DataURI", mock.Anything).Return("", errors.New("qr fail"))
				mStore.On("Delete", ctx, "uploads/gen.txt").Return(nil)
				return r
			},
			wantErrMsg: "render qr code: qr fail",
		},
		{
			name:         "record save failure rolls back the stored blob",
			originalName: "x.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Path: "uploads/gen.txt", Size: 1}, nil)
				mQR.On("DataURI", mock.Anything).Return("data:image/png;base64,AAAA", nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("store write failed"))
				mStore.On("Delete", ctx, "uploads/gen.txt").Return(nil)
				return r
			},
			wantErrMsg: "save record: store write failed",
		},
		{
			name:         "id collision is retried",
			originalName: "x.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRecordRepository, mQR *qrMocks.MockEncoder) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Path: "uploads/gen.txt", Size: 1}, nil)
				mQR.On("DataURI", mock.Anything).Return("data:image/png;base64,AAAA", nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateID).Once()
				mRepo.On("Create", ctx, mock.Anything).Return(&model.FileRecord{}, nil).Once()
				return r
			},
			check: func(t *testing.T, res *UploadResult) {
				assert.NotEmpty(t, res.Record.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockRecordRepository)
			mQR := new(qrMocks.MockEncoder)
			svc := newTestService(t, mStore, mRepo, mQR)

			r := tt.setupMocks(mStore, mRepo, mQR)
			size := int64(0)
			if sr, ok := r.(*strings.Reader); ok {
				size = sr.Size()
			}

			res, err := svc.Upload(ctx, r, tt.originalName, tt.password, size)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				require.NotNil(t, res)
				if tt.check != nil {
					tt.check(t, res)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mQR.AssertExpectations(t)
		})
	}
}

func TestShareService_Meta(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().UTC().Add(10 * time.Minute)

	t.Run("returns display-safe fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, new(storeMocks.MockStorage), mRepo, new(qrMocks.MockEncoder))

		mRepo.On("FindByID", ctx, "abc123").Return(&model.FileRecord{
			ID:             "abc123",
			OriginalName:   "notes.txt",
			StoragePath:    "uploads/gen.txt",
			PasswordDigest: "deadbeef",
			ExpiresAt:      expires,
		}, nil)

		meta, err := svc.Meta(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", meta.ID)
		assert.Equal(t, "notes.txt", meta.OriginalName)
		assert.Equal(t, expires.UnixMilli(), meta.ExpiresAt)
		assert.True(t, meta.PasswordProtected)
	})

	t.Run("unknown id", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, new(storeMocks.MockStorage), mRepo, new(qrMocks.MockEncoder))

		mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		_, err := svc.Meta(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := newTestService(t, new(storeMocks.MockStorage), new(repoMocks.MockRecordRepository), new(qrMocks.MockEncoder))

		_, err := svc.Meta(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestShareService_Download(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	liveRecord := func(digest string) *model.FileRecord {
		return &model.FileRecord{
			ID:             "abc123",
			OriginalName:   "notes.txt",
			StoragePath:    "uploads/gen.txt",
			PasswordDigest: digest,
			UploadedAt:     now.Add(-time.Minute),
			ExpiresAt:      now.Add(9 * time.Minute),
		}
	}

	t.Run("streams unprotected file", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		mRepo.On("FindByID", ctx, "abc123").Return(liveRecord(""), nil)
		mStore.On("Get", ctx, "uploads/gen.txt").
			Return(io.NopCloser(strings.NewReader("hello world")), storage.ObjectInfo{Size: 11}, nil)

		rc, rec, err := svc.Download(ctx, "abc123", "")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
		assert.Equal(t, "notes.txt", rec.OriginalName)

		// Downloads never delete an unexpired record.
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("password matrix", func(t *testing.T) {
		cases := []struct {
			name     string
			password string
			wantErr  error
		}{
			{"missing password", "", ErrUnauthorized},
			{"wrong password", "abcd", ErrUnauthorized},
			{"correct password", "abc", nil},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mStore := new(storeMocks.MockStorage)
				mRepo := new(repoMocks.MockRecordRepository)
				svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
				svc.now = func() time.Time { return now }

				rec := liveRecord("")
				rec.PasswordDigest = token.HashPassword("abc")
				mRepo.On("FindByID", ctx, "abc123").Return(rec, nil)

				if tc.wantErr == nil {
					mStore.On("Get", ctx, "uploads/gen.txt").
						Return(io.NopCloser(strings.NewReader("x")), storage.ObjectInfo{}, nil)
				}

				rc, _, err := svc.Download(ctx, "abc123", tc.password)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
					// Failed auth must not delete the record.
					mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				} else {
					require.NoError(t, err)
					rc.Close()
				}
			})
		}
	})

	t.Run("expired record is purged on access", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		rec := liveRecord("")
		rec.ExpiresAt = now.Add(-time.Second)
		mRepo.On("FindByID", ctx, "abc123").Return(rec, nil)
		mStore.On("Delete", ctx, "uploads/gen.txt").Return(nil)
		mRepo.On("Delete", ctx, "abc123").Return(nil)

		_, _, err := svc.Download(ctx, "abc123", "")
		assert.ErrorIs(t, err, ErrExpired)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("blob cleanup failure never blocks record removal", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		rec := liveRecord("")
		rec.ExpiresAt = now.Add(-time.Second)
		mRepo.On("FindByID", ctx, "abc123").Return(rec, nil)
		mStore.On("Delete", ctx, "uploads/gen.txt").Return(errors.New("locked"))
		mRepo.On("Delete", ctx, "abc123").Return(nil)

		_, _, err := svc.Download(ctx, "abc123", "")
		assert.ErrorIs(t, err, ErrExpired)
		assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.CleanupFailuresTotal))
	})

	t.Run("unknown id", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, new(storeMocks.MockStorage), mRepo, new(qrMocks.MockEncoder))

		mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Download(ctx, "missing", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestShareService_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rec := func(id string, expiresAt time.Time) *model.FileRecord {
		return &model.FileRecord{ID: id, StoragePath: "uploads/" + id, ExpiresAt: expiresAt}
	}

	t.Run("removes only expired records with one store write", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		mRepo.On("All", ctx).Return([]*model.FileRecord{
			rec("old1", now.Add(-time.Minute)),
			rec("live", now.Add(time.Minute)),
			rec("old2", now.Add(-time.Hour)),
		}, nil)
		mStore.On("Delete", ctx, "uploads/old1").Return(nil)
		mStore.On("Delete", ctx, "uploads/old2").Return(nil)
		mRepo.On("DeleteBatch", ctx, mock.MatchedBy(func(ids []string) bool {
			return len(ids) == 2
		})).Return(nil).Once()

		res, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Scanned)
		assert.Equal(t, 2, res.Removed)
		assert.Zero(t, res.CleanupFailures)
		mStore.AssertNotCalled(t, "Delete", ctx, "uploads/live")
		mRepo.AssertExpectations(t)
	})

	t.Run("no expired records means no store write", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, new(storeMocks.MockStorage), mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		mRepo.On("All", ctx).Return([]*model.FileRecord{rec("live", now.Add(time.Minute))}, nil)

		res, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, res.Removed)
		mRepo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
	})

	t.Run("cleanup failures are counted but do not keep the record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRecordRepository)
		svc := newTestService(t, mStore, mRepo, new(qrMocks.MockEncoder))
		svc.now = func() time.Time { return now }

		mRepo.On("All", ctx).Return([]*model.FileRecord{rec("old1", now.Add(-time.Minute))}, nil)
		mStore.On("Delete", ctx, "uploads/old1").Return(errors.New("locked"))
		mRepo.On("DeleteBatch", ctx, []string{"old1"}).Return(nil)

		res, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Removed)
		assert.Equal(t, 1, res.CleanupFailures)
		assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.CleanupFailuresTotal))
	})
}

func TestShareService_Count(t *testing.T) {
	mRepo := new(repoMocks.MockRecordRepository)
	svc := newTestService(t, new(storeMocks.MockStorage), mRepo, new(qrMocks.MockEncoder))

	mRepo.On("Count", mock.Anything).Return(3, nil)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
