package storage

import (
	"context"
	"errors"
	"io"

	"tripdocs/internal/model"
)

// Package storage contains the blob backend adapters and the failover service
// composing them. Backends are addressed by opaque locators (URLs or bucket
// paths); metadata persistence is the caller's responsibility.

// ErrObjectNotFound signals that a locator resolved to no object on the
// queried backend. It is distinct from backend unavailability.
var ErrObjectNotFound = errors.New("object not found")

// UploadResult is the normalized descriptor returned by every backend,
// regardless of which one served the request.
type UploadResult struct {
	URL              string
	Filename         string
	OriginalFilename string
	Path             string
	Size             int64
	StorageType      model.StorageType
}

// Store is what callers see: upload with automatic backend selection and
// download by locator. Implemented by Service.
type Store interface {
	Upload(ctx context.Context, content []byte, contentType, bookingID string, category model.Category, originalFilename string) (UploadResult, error)
	Download(ctx context.Context, locator string, hint model.StorageType) ([]byte, string, error)
}

// Backend is one blob storage driver. Implementations must be safe for
// concurrent use: clients are constructed once and shared across requests.
type Backend interface {
	// Upload stores the reader's content under a collision-resistant name
	// derived from the booking, category, and original filename.
	Upload(ctx context.Context, r io.Reader, size int64, contentType, bookingID string, category model.Category, originalFilename string) (UploadResult, error)
	// Download fetches an object's bytes and content type by locator.
	// A missing object is reported as ErrObjectNotFound.
	Download(ctx context.Context, locator string) ([]byte, string, error)
}
