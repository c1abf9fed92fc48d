package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
	"tripdocs/internal/service"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, caller model.Identity, in service.BookingInput) (*model.Booking, error) {
	args := m.Called(ctx, caller, in)
	var out *model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).(*model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, bookingID string, caller model.Identity) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, caller)
	var out *model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).(*model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, caller model.Identity) ([]model.Booking, error) {
	args := m.Called(ctx, caller)
	var out []model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).([]model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingService) Update(ctx context.Context, bookingID string, caller model.Identity, in service.BookingInput) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, caller, in)
	var out *model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).(*model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingService) MoveToTrash(ctx context.Context, bookingID string, caller model.Identity) error {
	args := m.Called(ctx, bookingID, caller)
	return args.Error(0)
}

func (m *MockBookingService) Restore(ctx context.Context, bookingID string, caller model.Identity) error {
	args := m.Called(ctx, bookingID, caller)
	return args.Error(0)
}

func (m *MockBookingService) ListTrashed(ctx context.Context, caller model.Identity) ([]model.Booking, error) {
	args := m.Called(ctx, caller)
	var out []model.Booking
	if args.Get(0) != nil {
		out = args.Get(0).([]model.Booking)
	}
	return out, args.Error(1)
}

func (m *MockBookingService) EmptyTrash(ctx context.Context, caller model.Identity) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingService) ImportCSV(ctx context.Context, caller model.Identity, r io.Reader) (int, error) {
	args := m.Called(ctx, caller, r)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) ExportCSV(ctx context.Context, caller model.Identity, w io.Writer) error {
	args := m.Called(ctx, caller, w)
	return args.Error(0)
}
