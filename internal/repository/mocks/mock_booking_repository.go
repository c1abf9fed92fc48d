package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	args := m.Called(ctx, b)
	var out *model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).(*model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	var out *model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).(*model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingRepository) ListActive(ctx context.Context, userID string) ([]model.Booking, error) {
	args := m.Called(ctx, userID)
	var out []model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).([]model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingRepository) ListTrashed(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	var out []model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).([]model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) MoveToTrash(ctx context.Context, id, deletedBy string) error {
	args := m.Called(ctx, id, deletedBy)
	return args.Error(0)
}

func (m *MockBookingRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) EmptyTrash(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) UpdateItineraryURL(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}
