package repository

import (
	"context"

	"tripdocs/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// No business logic here, strictly persistence operations.

// DocumentRepository defines data access for booking documents.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.BookingDocument) (*model.BookingDocument, error)

	// FindByID returns a document scoped to its booking; the booking id is
	// part of the lookup so a document can never be addressed through a
	// foreign booking.
	FindByID(ctx context.Context, bookingID, id string) (*model.BookingDocument, error)

	// ListByBooking returns a booking's documents, optionally filtered to the
	// given categories (nil or empty means all).
	ListByBooking(ctx context.Context, bookingID string, categories []model.Category) ([]model.BookingDocument, error)

	// UpdateCategory changes the only mutable document attribute.
	UpdateCategory(ctx context.Context, id string, category model.Category) error

	// Delete removes a document row. The blob is not touched.
	Delete(ctx context.Context, id string) error

	// CountByBooking returns the number of documents a booking holds, for
	// quota checks.
	CountByBooking(ctx context.Context, bookingID string) (int, error)
}
