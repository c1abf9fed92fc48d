package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
	"tripdocs/internal/storage"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Upload(ctx context.Context, r io.Reader, size int64, contentType, bookingID string, category model.Category, originalFilename string) (storage.UploadResult, error) {
	args := m.Called(ctx, r, size, contentType, bookingID, category, originalFilename)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockBackend) Download(ctx context.Context, locator string) ([]byte, string, error) {
	args := m.Called(ctx, locator)
	var content []byte
	if args.Get(0) != nil {
		content = args.Get(0).([]byte)
	}
	return content, args.String(1), args.Error(2)
}

// MockPrimary is a MockBackend that also answers liveness probes.
type MockPrimary struct {
	MockBackend
}

func (m *MockPrimary) Ping(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
