package postgres

import (
	"context"
	"database/sql"
	"time"

	"tripdocs/internal/model"
	"tripdocs/internal/repository"
)

// BookingPostgres is a PostgreSQL implementation of
// repository.BookingRepository.
type BookingPostgres struct {
	db *sql.DB
}

// NewBookingPostgres creates a new BookingPostgres repository.
func NewBookingPostgres(db *sql.DB) *BookingPostgres {
	return &BookingPostgres{db: db}
}

var _ repository.BookingRepository = (*BookingPostgres)(nil)

const bookingColumns = `id, name, date_from, date_to, country, pax, ladies, men, children, teens, agent, consultant, user_id, itinerary_url, is_deleted, deleted_at, deleted_by, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b         model.Booking
		deletedAt sql.NullTime
		deletedBy sql.NullString
	)
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.DateFrom,
		&b.DateTo,
		&b.Country,
		&b.Pax,
		&b.Ladies,
		&b.Men,
		&b.Children,
		&b.Teens,
		&b.Agent,
		&b.Consultant,
		&b.UserID,
		&b.ItineraryURL,
		&b.IsDeleted,
		&deletedAt,
		&deletedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		b.DeletedAt = &deletedAt.Time
	}
	b.DeletedBy = deletedBy.String
	return &b, nil
}

// Create inserts a booking and returns the stored row.
func (r *BookingPostgres) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	const q = `
		INSERT INTO bookings (id, name, date_from, date_to, country, pax, ladies, men, children, teens, agent, consultant, user_id, itinerary_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + bookingColumns
	row := r.db.QueryRowContext(ctx, q,
		b.ID, b.Name, b.DateFrom, b.DateTo, b.Country,
		b.Pax, b.Ladies, b.Men, b.Children, b.Teens,
		b.Agent, b.Consultant, b.UserID, b.ItineraryURL,
		b.CreatedAt, b.UpdatedAt,
	)
	return scanBooking(row)
}

// FindByID returns a booking regardless of trash state.
func (r *BookingPostgres) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

func (r *BookingPostgres) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListActive returns non-trashed bookings, optionally restricted to a user.
func (r *BookingPostgres) ListActive(ctx context.Context, userID string) ([]model.Booking, error) {
	if userID != "" {
		const q = `
			SELECT ` + bookingColumns + `
			FROM bookings
			WHERE NOT is_deleted AND user_id = $1
			ORDER BY created_at DESC
		`
		return r.list(ctx, q, userID)
	}
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE NOT is_deleted
		ORDER BY created_at DESC
	`
	return r.list(ctx, q)
}

// ListTrashed returns trashed bookings.
func (r *BookingPostgres) ListTrashed(ctx context.Context) ([]model.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE is_deleted
		ORDER BY deleted_at DESC
	`
	return r.list(ctx, q)
}

// Update rewrites a booking's mutable fields.
func (r *BookingPostgres) Update(ctx context.Context, b *model.Booking) error {
	const q = `
		UPDATE bookings
		SET name = $2, date_from = $3, date_to = $4, country = $5,
		    pax = $6, ladies = $7, men = $8, children = $9, teens = $10,
		    agent = $11, consultant = $12, user_id = $13, updated_at = $14
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, b.Name, b.DateFrom, b.DateTo, b.Country,
		b.Pax, b.Ladies, b.Men, b.Children, b.Teens,
		b.Agent, b.Consultant, b.UserID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MoveToTrash soft-deletes a booking.
func (r *BookingPostgres) MoveToTrash(ctx context.Context, id, deletedBy string) error {
	const q = `
		UPDATE bookings
		SET is_deleted = TRUE, deleted_at = $2, deleted_by = $3, updated_at = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, time.Now().UTC(), deletedBy)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Restore clears the soft-delete markers.
func (r *BookingPostgres) Restore(ctx context.Context, id string) error {
	const q = `
		UPDATE bookings
		SET is_deleted = FALSE, deleted_at = NULL, deleted_by = NULL, updated_at = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// EmptyTrash permanently deletes all trashed bookings.
func (r *BookingPostgres) EmptyTrash(ctx context.Context) (int64, error) {
	const q = `DELETE FROM bookings WHERE is_deleted`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateItineraryURL stores the manual itinerary reference on the booking.
func (r *BookingPostgres) UpdateItineraryURL(ctx context.Context, id, url string) error {
	const q = `UPDATE bookings SET itinerary_url = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, url, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
