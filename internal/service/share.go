package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripdocs/internal/config"
	"tripdocs/internal/model"
	"tripdocs/internal/repository"
)

// ShareLink is the service-level DTO for a share link handed to a booking
// owner.
type ShareLink struct {
	Token      string           `json:"token"`
	ShareURL   string           `json:"shareUrl"`
	Categories []model.Category `json:"allowedCategories"`
	ExpiresAt  time.Time        `json:"expiresAt"`
	CreatedAt  time.Time        `json:"createdAt"`
	UsedCount  int              `json:"usedCount"`
}

// ShareService implements the share token protocol: minting, lookup,
// verification, and usage tracking of capability tokens.
type ShareService interface {
	// Generate mints a token scoped to the given categories. Zero values fall
	// back to the defaults (Voucher + Air Ticket, 7 days).
	Generate(ctx context.Context, bookingID string, caller model.Identity, categories []model.Category, ttl time.Duration) (*ShareLink, error)

	// GetExisting returns the most recent live share link for a booking.
	GetExisting(ctx context.Context, bookingID string, caller model.Identity) (*ShareLink, error)

	// Verify resolves a token to its grant. Absent and expired tokens both
	// come back as ErrInvalidShareLink. Verification never counts as a use.
	Verify(ctx context.Context, token string) (*model.ShareToken, error)

	// RecordUse counts one successful public access. Best-effort: a failed
	// increment must not fail the access that triggered it.
	RecordUse(ctx context.Context, token string)

	// AutoGenerate mints the post-creation share link for a new booking: all
	// categories, default TTL, best-effort.
	AutoGenerate(ctx context.Context, bookingID, creatorID string)
}

type shareService struct {
	bookings repository.BookingRepository
	tokens   repository.ShareTokenRepository
	cfg      config.ShareConfig
	log      *zap.Logger
	now      func() time.Time
}

// NewShareService constructs a ShareService.
func NewShareService(bookings repository.BookingRepository, tokens repository.ShareTokenRepository, cfg config.ShareConfig, log *zap.Logger) ShareService {
	return &shareService{
		bookings: bookings,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// newToken returns a cryptographically random, URL-safe token (22 chars from
// 16 random bytes).
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *shareService) shareURL(token string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/share/" + token
}

// authorizeBooking loads the booking and checks the caller may manage it.
// Existence is checked before authorization so a missing booking reads as
// not-found, not as forbidden.
func authorizeBooking(ctx context.Context, bookings repository.BookingRepository, bookingID string, caller model.Identity) (*model.Booking, error) {
	b, err := bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !caller.MayAccess(b) {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func (s *shareService) Generate(ctx context.Context, bookingID string, caller model.Identity, categories []model.Category, ttl time.Duration) (*ShareLink, error) {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		categories = model.DefaultShareCategories()
	}
	for i, c := range categories {
		categories[i] = model.ParseCategory(string(c))
	}
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tok := &model.ShareToken{
		Token:      token,
		BookingID:  bookingID,
		Categories: categories,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		CreatedBy:  caller.ID,
		UsedCount:  0,
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return nil, fmt.Errorf("store share token: %w", err)
	}

	s.log.Info("share link generated",
		zap.String("booking_id", bookingID),
		zap.Time("expires_at", tok.ExpiresAt))

	return &ShareLink{
		Token:      token,
		ShareURL:   s.shareURL(token),
		Categories: categories,
		ExpiresAt:  tok.ExpiresAt,
		CreatedAt:  tok.CreatedAt,
	}, nil
}

func (s *shareService) GetExisting(ctx context.Context, bookingID string, caller model.Identity) (*ShareLink, error) {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return nil, err
	}

	tok, err := s.tokens.FindLatestActive(ctx, bookingID, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareLinkNotFound
		}
		return nil, err
	}

	return &ShareLink{
		Token:      tok.Token,
		ShareURL:   s.shareURL(tok.Token),
		Categories: tok.Categories,
		ExpiresAt:  tok.ExpiresAt,
		CreatedAt:  tok.CreatedAt,
		UsedCount:  tok.UsedCount,
	}, nil
}

func (s *shareService) Verify(ctx context.Context, token string) (*model.ShareToken, error) {
	if token == "" {
		return nil, ErrInvalidShareLink
	}
	tok, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidShareLink
		}
		return nil, err
	}
	if tok.Expired(s.now().UTC()) {
		return nil, ErrInvalidShareLink
	}
	return tok, nil
}

func (s *shareService) RecordUse(ctx context.Context, token string) {
	if err := s.tokens.IncrementUsage(ctx, token); err != nil {
		s.log.Warn("failed to record share link use", zap.Error(err))
	}
}

func (s *shareService) AutoGenerate(ctx context.Context, bookingID, creatorID string) {
	token, err := newToken()
	if err != nil {
		s.log.Warn("auto share link generation failed",
			zap.String("booking_id", bookingID), zap.Error(err))
		return
	}

	now := s.now().UTC()
	tok := &model.ShareToken{
		Token:      token,
		BookingID:  bookingID,
		Categories: model.AllCategories(),
		ExpiresAt:  now.Add(s.cfg.AutoGenTTL),
		CreatedAt:  now,
		CreatedBy:  creatorID,
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		// Best-effort: the booking is already persisted and stays that way.
		s.log.Warn("auto share link generation failed",
			zap.String("booking_id", bookingID), zap.Error(err))
		return
	}

	s.log.Info("auto share link generated", zap.String("booking_id", bookingID))
}
