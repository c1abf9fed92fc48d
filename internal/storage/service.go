package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tripdocs/internal/model"
)

// ErrUnavailable signals that no storage backend could serve the request.
var ErrUnavailable = errors.New("storage unavailable")

// Primary is the probe-able primary backend. Liveness is checked before every
// upload attempt.
type Primary interface {
	Backend
	Ping(ctx context.Context) bool
}

// Service composes the two backends: primary first (behind a liveness probe),
// fallback on any primary failure. Each backend is attempted at most once per
// call; this is selection, not a retry loop.
type Service struct {
	primary  Primary
	fallback Backend
	log      *zap.Logger
}

var _ Store = (*Service)(nil)

// NewService creates the failover storage service. fallback may be nil when
// the object store is not configured; uploads then fail once the primary does.
func NewService(primary Primary, fallback Backend, log *zap.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, log: log}
}

// Upload stores the content on the first available backend and returns the
// normalized descriptor. Content is held in memory so the fallback attempt can
// replay it after a primary failure.
func (s *Service) Upload(ctx context.Context, content []byte, contentType, bookingID string, category model.Category, originalFilename string) (UploadResult, error) {
	var primaryErr error

	if s.primary.Ping(ctx) {
		res, err := s.primary.Upload(ctx, bytes.NewReader(content), int64(len(content)), contentType, bookingID, category, originalFilename)
		if err == nil {
			s.log.Info("file uploaded to primary backend",
				zap.String("booking_id", bookingID),
				zap.String("filename", res.Filename))
			return res, nil
		}
		primaryErr = err
		s.log.Warn("primary upload failed",
			zap.String("booking_id", bookingID),
			zap.Error(err))
	} else {
		primaryErr = fmt.Errorf("primary backend not accessible")
		s.log.Warn("primary backend liveness probe failed",
			zap.String("booking_id", bookingID))
	}

	if s.fallback == nil {
		return UploadResult{}, fmt.Errorf("%w: no fallback configured: %v", ErrUnavailable, primaryErr)
	}

	res, err := s.fallback.Upload(ctx, bytes.NewReader(content), int64(len(content)), contentType, bookingID, category, originalFilename)
	if err != nil {
		s.log.Error("fallback upload failed",
			zap.String("booking_id", bookingID),
			zap.Error(err))
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(primaryErr, err))
	}

	s.log.Info("file uploaded to fallback backend",
		zap.String("booking_id", bookingID),
		zap.String("filename", res.Filename))
	return res, nil
}

// Download fetches an object's bytes and content type. A hint of StorageS3 or
// an s3:// locator routes straight to the fallback; otherwise the primary is
// tried first, with one opportunistic fallback attempt when the locator is a
// bare path that could also resolve in the bucket.
func (s *Service) Download(ctx context.Context, locator string, hint model.StorageType) ([]byte, string, error) {
	if hint == model.StorageS3 || strings.HasPrefix(locator, "s3://") {
		if s.fallback == nil {
			return nil, "", fmt.Errorf("%w: fallback backend not configured", ErrUnavailable)
		}
		return s.downloadFallback(ctx, locator)
	}

	content, contentType, err := s.primary.Download(ctx, locator)
	if err == nil {
		return content, contentType, nil
	}

	s.log.Warn("primary download failed", zap.String("locator", locator), zap.Error(err))

	// HTTP URLs only ever point at the primary; bare paths may also resolve
	// in the bucket, so those get one fallback attempt.
	if s.fallback != nil && !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
		return s.downloadFallback(ctx, locator)
	}
	if errors.Is(err, ErrObjectNotFound) {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// downloadFallback fetches from the object store, keeping a missing object
// distinguishable from an unreachable backend.
func (s *Service) downloadFallback(ctx context.Context, locator string) ([]byte, string, error) {
	content, contentType, err := s.fallback.Download(ctx, locator)
	if err == nil {
		return content, contentType, nil
	}
	if errors.Is(err, ErrObjectNotFound) {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
}
