package model

import "time"

// Package model contains pure domain models with no database-specific
// dependencies or tags. They can be used across layers (HTTP, service,
// storage) without coupling to persistence.

// Category classifies a booking document. It scopes both storage organization
// and share-link visibility.
type Category string

const (
	CategoryVoucher   Category = "Voucher"
	CategoryAirTicket Category = "Air Ticket"
	CategoryInvoice   Category = "Invoice"
	CategoryOther     Category = "Other"
)

// AllCategories returns every valid document category.
func AllCategories() []Category {
	return []Category{CategoryVoucher, CategoryAirTicket, CategoryInvoice, CategoryOther}
}

// DefaultShareCategories are the categories a share link grants access to
// when the caller does not specify any.
func DefaultShareCategories() []Category {
	return []Category{CategoryVoucher, CategoryAirTicket}
}

// ParseCategory normalizes an arbitrary input to a valid category.
// Unrecognized values are coerced to CategoryOther so uploads never fail on
// cosmetic metadata issues.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryVoucher, CategoryAirTicket, CategoryInvoice, CategoryOther:
		return Category(s)
	default:
		return CategoryOther
	}
}

// StorageType identifies which blob backend persisted a document.
type StorageType string

const (
	// StorageFileServer is the self-hosted primary file server.
	StorageFileServer StorageType = "fileserver"
	// StorageS3 is the S3-compatible fallback object store.
	StorageS3 StorageType = "s3"
)

// BookingDocument is one uploaded file attached to a booking.
type BookingDocument struct {
	ID             string      `json:"id"`
	BookingID      string      `json:"bookingId"`
	Filename       string      `json:"filename"`
	StoredFilename string      `json:"-"`
	Category       Category    `json:"category"`
	Size           int64       `json:"size"`
	MimeType       string      `json:"mimeType"`
	URL            string      `json:"-"`
	Path           string      `json:"-"`
	StorageType    StorageType `json:"-"`
	UploadedAt     time.Time   `json:"uploadedAt"`
	UploadedBy     string      `json:"-"`
}
