package service

import "errors"

// Sentinel errors returned by the service layer. The handler layer maps them
// to HTTP statuses; messages are safe to show to clients.
var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUnauthorized     = errors.New("unauthorized access")

	// ErrInvalidShareLink deliberately covers missing, malformed, and expired
	// tokens alike: public endpoints must not tell a probing caller which.
	ErrInvalidShareLink  = errors.New("invalid or expired link")
	ErrShareLinkNotFound = errors.New("no active share link found")

	ErrFileRequired        = errors.New("no file provided")
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file size exceeds limit")
	ErrQuotaExceeded       = errors.New("maximum files per booking reached")
	ErrNoDocuments         = errors.New("no documents found")
)
