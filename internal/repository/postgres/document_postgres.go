package postgres

import (
	"context"
	"database/sql"

	"tripdocs/internal/model"
	"tripdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, booking_id, filename, stored_filename, category, size, mime_type, url, path, storage_type, uploaded_at, uploaded_by`

func scanDocument(row interface{ Scan(...any) error }) (*model.BookingDocument, error) {
	var d model.BookingDocument
	if err := row.Scan(
		&d.ID,
		&d.BookingID,
		&d.Filename,
		&d.StoredFilename,
		&d.Category,
		&d.Size,
		&d.MimeType,
		&d.URL,
		&d.Path,
		&d.StorageType,
		&d.UploadedAt,
		&d.UploadedBy,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.BookingDocument) (*model.BookingDocument, error) {
	const q = `
		INSERT INTO booking_documents (id, booking_id, filename, stored_filename, category, size, mime_type, url, path, storage_type, uploaded_at, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.BookingID,
		doc.Filename,
		doc.StoredFilename,
		doc.Category,
		doc.Size,
		doc.MimeType,
		doc.URL,
		doc.Path,
		doc.StorageType,
		doc.UploadedAt,
		doc.UploadedBy,
	)
	return scanDocument(row)
}

// FindByID fetches a single document scoped to its booking.
func (r *DocumentPostgres) FindByID(ctx context.Context, bookingID, id string) (*model.BookingDocument, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM booking_documents
		WHERE id = $1 AND booking_id = $2
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, bookingID))
}

// ListByBooking returns a booking's documents, newest first, optionally
// filtered by category.
func (r *DocumentPostgres) ListByBooking(ctx context.Context, bookingID string, categories []model.Category) ([]model.BookingDocument, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(categories) > 0 {
		const q = `
			SELECT ` + documentColumns + `
			FROM booking_documents
			WHERE booking_id = $1 AND category = ANY($2)
			ORDER BY uploaded_at DESC, id DESC
		`
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = string(c)
		}
		rows, err = r.db.QueryContext(ctx, q, bookingID, names)
	} else {
		const q = `
			SELECT ` + documentColumns + `
			FROM booking_documents
			WHERE booking_id = $1
			ORDER BY uploaded_at DESC, id DESC
		`
		rows, err = r.db.QueryContext(ctx, q, bookingID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.BookingDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateCategory changes a document's category.
func (r *DocumentPostgres) UpdateCategory(ctx context.Context, id string, category model.Category) error {
	const q = `UPDATE booking_documents SET category = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, category)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document row. It does not return an error if the row does
// not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM booking_documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountByBooking returns how many documents a booking currently holds.
func (r *DocumentPostgres) CountByBooking(ctx context.Context, bookingID string) (int, error) {
	const q = `SELECT COUNT(*) FROM booking_documents WHERE booking_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
