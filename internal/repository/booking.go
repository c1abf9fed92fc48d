package repository

import (
	"context"

	"tripdocs/internal/model"
)

// BookingRepository defines data access for bookings, including the
// soft-delete (trash) lifecycle.
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)

	// FindByID returns a booking regardless of trash state; callers decide
	// whether trashed bookings are acceptable.
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// ListActive returns non-trashed bookings. An empty userID lists all
	// (admin view); otherwise only the user's own.
	ListActive(ctx context.Context, userID string) ([]model.Booking, error)

	// ListTrashed returns trashed bookings.
	ListTrashed(ctx context.Context) ([]model.Booking, error)

	Update(ctx context.Context, b *model.Booking) error

	// MoveToTrash soft-deletes a booking, recording who and when.
	MoveToTrash(ctx context.Context, id, deletedBy string) error

	// Restore clears the soft-delete markers.
	Restore(ctx context.Context, id string) error

	// EmptyTrash permanently deletes all trashed bookings and returns the
	// count removed.
	EmptyTrash(ctx context.Context) (int64, error)

	// UpdateItineraryURL stores the free-form manual itinerary reference.
	UpdateItineraryURL(ctx context.Context, id, url string) error
}
