package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"filedrop/internal/model"
	"filedrop/internal/service"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Upload(ctx context.Context, r io.Reader, originalName, password string, size int64) (*service.UploadResult, error) {
	args := m.Called(ctx, r, originalName, password, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockShareService) Meta(ctx context.Context, id string) (*service.FileMeta, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileMeta), args.Error(1)
}

func (m *MockShareService) Download(ctx context.Context, id, password string) (io.ReadCloser, *model.FileRecord, error) {
	args := m.Called(ctx, id, password)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var rec *model.FileRecord
	if args.Get(1) != nil {
		rec = args.Get(1).(*model.FileRecord)
	}
	return rc, rec, args.Error(2)
}

func (m *MockShareService) Sweep(ctx context.Context) (service.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.SweepResult), args.Error(1)
}

func (m *MockShareService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
