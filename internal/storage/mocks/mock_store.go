package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
	"tripdocs/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(ctx context.Context, content []byte, contentType, bookingID string, category model.Category, originalFilename string) (storage.UploadResult, error) {
	args := m.Called(ctx, content, contentType, bookingID, category, originalFilename)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockStore) Download(ctx context.Context, locator string, hint model.StorageType) ([]byte, string, error) {
	args := m.Called(ctx, locator, hint)
	var content []byte
	if args.Get(0) != nil {
		content = args.Get(0).([]byte)
	}
	return content, args.String(1), args.Error(2)
}
