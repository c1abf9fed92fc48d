package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tripdocs/internal/model"
	"tripdocs/internal/repository"
)

// ShareTokenPostgres is a PostgreSQL implementation of
// repository.ShareTokenRepository. Categories are stored as a JSONB array.
type ShareTokenPostgres struct {
	db *sql.DB
}

// NewShareTokenPostgres creates a new ShareTokenPostgres repository.
func NewShareTokenPostgres(db *sql.DB) *ShareTokenPostgres {
	return &ShareTokenPostgres{db: db}
}

var _ repository.ShareTokenRepository = (*ShareTokenPostgres)(nil)

const shareColumns = `token, booking_id, categories, expires_at, created_at, created_by, used_count`

func scanShareToken(row interface{ Scan(...any) error }) (*model.ShareToken, error) {
	var (
		t    model.ShareToken
		cats []byte
	)
	if err := row.Scan(
		&t.Token,
		&t.BookingID,
		&cats,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.UsedCount,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cats, &t.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return &t, nil
}

// Create persists a freshly minted token.
func (r *ShareTokenPostgres) Create(ctx context.Context, tok *model.ShareToken) error {
	cats, err := json.Marshal(tok.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	const q = `
		INSERT INTO share_tokens (token, booking_id, categories, expires_at, created_at, created_by, used_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, q,
		tok.Token,
		tok.BookingID,
		cats,
		tok.ExpiresAt,
		tok.CreatedAt,
		tok.CreatedBy,
		tok.UsedCount,
	)
	return err
}

// FindByToken looks a token up by exact match.
func (r *ShareTokenPostgres) FindByToken(ctx context.Context, token string) (*model.ShareToken, error) {
	const q = `SELECT ` + shareColumns + ` FROM share_tokens WHERE token = $1`
	return scanShareToken(r.db.QueryRowContext(ctx, q, token))
}

// FindLatestActive returns the newest unexpired token for a booking.
func (r *ShareTokenPostgres) FindLatestActive(ctx context.Context, bookingID string, now time.Time) (*model.ShareToken, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM share_tokens
		WHERE booking_id = $1 AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanShareToken(r.db.QueryRowContext(ctx, q, bookingID, now))
}

// IncrementUsage bumps used_count by one.
func (r *ShareTokenPostgres) IncrementUsage(ctx context.Context, token string) error {
	const q = `UPDATE share_tokens SET used_count = used_count + 1 WHERE token = $1`
	_, err := r.db.ExecContext(ctx, q, token)
	return err
}

// DeleteExpired physically removes tokens whose expiry has passed. Driven by
// a scheduled job at the persistence layer, not by request handling.
func (r *ShareTokenPostgres) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM share_tokens WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
