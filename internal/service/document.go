package service

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripdocs/internal/config"
	"tripdocs/internal/model"
	"tripdocs/internal/repository"
	"tripdocs/internal/storage"
)

// allowedExtensions is the upload allow-list, matched case-insensitively.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"docx": true,
}

// DocumentList is the service-level DTO for a booking's document listing.
type DocumentList struct {
	Documents    []model.BookingDocument `json:"documents"`
	ItineraryURL string                  `json:"itineraryUrl"`
}

// SharedDocument is a document as exposed through a share link: no backend
// URL, only an opaque download path relative to the API.
type SharedDocument struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	Category    model.Category `json:"category"`
	Size        int64          `json:"size"`
	UploadedAt  time.Time      `json:"uploadedAt"`
	DownloadURL string         `json:"downloadUrl"`
}

// SharedViewResult is what a share-link holder sees.
type SharedViewResult struct {
	BookingID         string           `json:"bookingId"`
	BookingName       string           `json:"bookingName"`
	Documents         []SharedDocument `json:"documents"`
	AllowedCategories []model.Category `json:"allowedCategories"`
	ExpiresAt         time.Time        `json:"expiresAt"`
}

// FileDownload carries a file's bytes and presentation metadata.
type FileDownload struct {
	Content     []byte
	ContentType string
	Filename    string
}

// DocumentService defines the document API surface: owner/admin management
// operations and the public share-link consumption operations.
type DocumentService interface {
	List(ctx context.Context, bookingID string, caller model.Identity) (*DocumentList, error)
	Upload(ctx context.Context, bookingID string, caller model.Identity, content []byte, contentType, filename, category string) (*model.BookingDocument, error)
	UpdateCategory(ctx context.Context, bookingID, documentID string, caller model.Identity, category string) error
	Delete(ctx context.Context, bookingID, documentID string, caller model.Identity) error
	UpdateItinerary(ctx context.Context, bookingID string, caller model.Identity, url string) error

	// Public operations: the token is the credential, no caller identity.
	SharedView(ctx context.Context, token string) (*SharedViewResult, error)
	SharedDownload(ctx context.Context, token, documentID string) (*FileDownload, error)
	SharedDownloadAll(ctx context.Context, token string) (*FileDownload, error)
}

type documentService struct {
	bookings  repository.BookingRepository
	documents repository.DocumentRepository
	shares    ShareService
	store     storage.Store
	limits    config.UploadConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(
	bookings repository.BookingRepository,
	documents repository.DocumentRepository,
	shares ShareService,
	store storage.Store,
	limits config.UploadConfig,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		bookings:  bookings,
		documents: documents,
		shares:    shares,
		store:     store,
		limits:    limits,
		log:       log,
		now:       time.Now,
	}
}

func (s *documentService) List(ctx context.Context, bookingID string, caller model.Identity) (*DocumentList, error) {
	booking, err := authorizeBooking(ctx, s.bookings, bookingID, caller)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByBooking(ctx, bookingID, nil)
	if err != nil {
		return nil, err
	}
	return &DocumentList{Documents: docs, ItineraryURL: booking.ItineraryURL}, nil
}

func extensionAllowed(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

func (s *documentService) Upload(ctx context.Context, bookingID string, caller model.Identity, content []byte, contentType, filename, category string) (*model.BookingDocument, error) {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return nil, err
	}

	// Validation happens up front, before any backend is touched.
	if len(content) == 0 || filename == "" {
		return nil, ErrFileRequired
	}
	if !extensionAllowed(filename) {
		return nil, ErrExtensionNotAllowed
	}
	if int64(len(content)) > s.limits.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	count, err := s.documents.CountByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if count >= s.limits.MaxDocsPerBooking {
		return nil, ErrQuotaExceeded
	}

	cat := model.ParseCategory(category)

	// Blob write happens-before metadata write; there is no transaction
	// spanning the two stores.
	res, err := s.store.Upload(ctx, content, contentType, bookingID, cat, filename)
	if err != nil {
		return nil, err
	}

	doc := &model.BookingDocument{
		ID:             uuid.NewString(),
		BookingID:      bookingID,
		Filename:       res.OriginalFilename,
		StoredFilename: res.Filename,
		Category:       cat,
		Size:           res.Size,
		MimeType:       contentType,
		URL:            res.URL,
		Path:           res.Path,
		StorageType:    res.StorageType,
		UploadedAt:     s.now().UTC(),
		UploadedBy:     caller.ID,
	}
	stored, err := s.documents.Create(ctx, doc)
	if err != nil {
		// The blob stays behind; metadata is the authoritative index, so an
		// orphaned blob is tolerable but worth an operator's attention.
		s.log.Warn("metadata insert failed after blob write, orphaned blob",
			zap.String("booking_id", bookingID),
			zap.String("path", res.Path),
			zap.String("storage_type", string(res.StorageType)),
			zap.Error(err))
		return nil, fmt.Errorf("save document metadata: %w", err)
	}

	s.log.Info("document uploaded",
		zap.String("booking_id", bookingID),
		zap.String("document_id", stored.ID),
		zap.String("storage_type", string(stored.StorageType)))
	return stored, nil
}

func (s *documentService) UpdateCategory(ctx context.Context, bookingID, documentID string, caller model.Identity, category string) error {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return err
	}

	if _, err := s.documents.FindByID(ctx, bookingID, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}
	if err := s.documents.UpdateCategory(ctx, documentID, model.ParseCategory(category)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Delete(ctx context.Context, bookingID, documentID string, caller model.Identity) error {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return err
	}

	doc, err := s.documents.FindByID(ctx, bookingID, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}

	// Metadata only. The blob may linger on its backend; cleanup is a
	// separate operational concern.
	if err := s.documents.Delete(ctx, documentID); err != nil {
		return err
	}

	s.log.Info("document deleted",
		zap.String("booking_id", bookingID),
		zap.String("document_id", documentID),
		zap.String("path", doc.Path))
	return nil
}

func (s *documentService) UpdateItinerary(ctx context.Context, bookingID string, caller model.Identity, url string) error {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return err
	}
	return s.bookings.UpdateItineraryURL(ctx, bookingID, url)
}

func (s *documentService) SharedView(ctx context.Context, token string) (*SharedViewResult, error) {
	tok, err := s.shares.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, tok.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	docs, err := s.documents.ListByBooking(ctx, tok.BookingID, tok.Categories)
	if err != nil {
		return nil, err
	}

	shared := make([]SharedDocument, 0, len(docs))
	for _, d := range docs {
		shared = append(shared, SharedDocument{
			ID:         d.ID,
			Filename:   d.Filename,
			Category:   d.Category,
			Size:       d.Size,
			UploadedAt: d.UploadedAt,
			// Opaque per-document path; raw backend URLs never cross the
			// public boundary.
			DownloadURL: fmt.Sprintf("/api/share/%s/download/%s", token, d.ID),
		})
	}

	s.shares.RecordUse(ctx, token)

	return &SharedViewResult{
		BookingID:         booking.ID,
		BookingName:       booking.Name,
		Documents:         shared,
		AllowedCategories: tok.Categories,
		ExpiresAt:         tok.ExpiresAt,
	}, nil
}

// inferContentType fills in a concrete content type from the filename when
// the backend only offered a generic one.
func inferContentType(filename, contentType string) string {
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(filename), ".jpg"),
		strings.HasSuffix(strings.ToLower(filename), ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(strings.ToLower(filename), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(filename), ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func (s *documentService) SharedDownload(ctx context.Context, token, documentID string) (*FileDownload, error) {
	tok, err := s.shares.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.FindByID(ctx, tok.BookingID, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	// A category outside the grant reads as not-found; the document's
	// existence is not disclosed.
	if !tok.Allows(doc.Category) {
		return nil, ErrDocumentNotFound
	}

	content, contentType, err := s.store.Download(ctx, doc.URL, doc.StorageType)
	if err != nil {
		s.log.Error("shared download failed",
			zap.String("booking_id", tok.BookingID),
			zap.String("document_id", documentID),
			zap.String("storage_type", string(doc.StorageType)),
			zap.Error(err))
		return nil, err
	}

	s.shares.RecordUse(ctx, token)

	return &FileDownload{
		Content:     content,
		ContentType: inferContentType(doc.Filename, contentType),
		Filename:    doc.Filename,
	}, nil
}

func (s *documentService) SharedDownloadAll(ctx context.Context, token string) (*FileDownload, error) {
	tok, err := s.shares.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, tok.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	docs, err := s.documents.ListByBooking(ctx, tok.BookingID, tok.Categories)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	added := 0
	for _, doc := range docs {
		content, _, err := s.store.Download(ctx, doc.URL, doc.StorageType)
		if err != nil {
			// One bad file never sinks the archive.
			s.log.Error("skipping document in zip download",
				zap.String("booking_id", tok.BookingID),
				zap.String("document_id", doc.ID),
				zap.Error(err))
			continue
		}

		entry := string(doc.Category) + "/" + storage.SanitizeFilename(doc.Filename)
		w, err := zw.Create(entry)
		if err != nil {
			s.log.Error("skipping document in zip download",
				zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		if _, err := w.Write(content); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write zip entry: %w", err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}

	s.log.Info("zip download assembled",
		zap.String("booking_id", tok.BookingID),
		zap.Int("documents", added),
		zap.Int("skipped", len(docs)-added))

	s.shares.RecordUse(ctx, token)

	return &FileDownload{
		Content:     buf.Bytes(),
		ContentType: "application/zip",
		Filename:    storage.SanitizeFilename(booking.Name) + "_documents.zip",
	}, nil
}
