package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.BookingDocument) (*model.BookingDocument, error) {
	args := m.Called(ctx, doc)
	var out *model.BookingDocument
	if args.Get(0) != nil {
		out = args.Get(0).(*model.BookingDocument)
	}
	return out, args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, bookingID, id string) (*model.BookingDocument, error) {
	args := m.Called(ctx, bookingID, id)
	var out *model.BookingDocument
	if args.Get(0) != nil {
		out = args.Get(0).(*model.BookingDocument)
	}
	return out, args.Error(1)
}

func (m *MockDocumentRepository) ListByBooking(ctx context.Context, bookingID string, categories []model.Category) ([]model.BookingDocument, error) {
	args := m.Called(ctx, bookingID, categories)
	var out []model.BookingDocument
	if args.Get(0) != nil {
		out = args.Get(0).([]model.BookingDocument)
	}
	return out, args.Error(1)
}

func (m *MockDocumentRepository) UpdateCategory(ctx context.Context, id string, category model.Category) error {
	args := m.Called(ctx, id, category)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountByBooking(ctx context.Context, bookingID string) (int, error) {
	args := m.Called(ctx, bookingID)
	return args.Int(0), args.Error(1)
}
