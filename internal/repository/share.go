package repository

import (
	"context"
	"time"

	"tripdocs/internal/model"
)

// ShareTokenRepository defines data access for share tokens. Expiry is a
// predicate over expires_at; physical removal of expired rows belongs to
// DeleteExpired, which a persistence-layer scheduled job drives.
type ShareTokenRepository interface {
	// Create persists a freshly minted token with used_count = 0.
	Create(ctx context.Context, tok *model.ShareToken) error

	// FindByToken looks a token up by exact match, expired or not.
	FindByToken(ctx context.Context, token string) (*model.ShareToken, error)

	// FindLatestActive returns the most recently created unexpired token for
	// a booking.
	FindLatestActive(ctx context.Context, bookingID string, now time.Time) (*model.ShareToken, error)

	// IncrementUsage bumps used_count by one.
	IncrementUsage(ctx context.Context, token string) error

	// DeleteExpired physically removes tokens whose expiry has passed and
	// returns how many were swept.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
