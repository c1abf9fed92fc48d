package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripdocs/internal/model"
	"tripdocs/internal/repository"
)

const bookingDateLayout = "01/02/2006"

// BookingInput carries the client-supplied booking fields.
type BookingInput struct {
	Name       string `json:"name"`
	DateFrom   string `json:"date_from"`
	DateTo     string `json:"date_to"`
	Country    string `json:"country"`
	Pax        int    `json:"pax"`
	Ladies     int    `json:"ladies"`
	Men        int    `json:"men"`
	Children   int    `json:"children"`
	Teens      int    `json:"teens"`
	Agent      string `json:"agent"`
	Consultant string `json:"consultant"`
	UserID     string `json:"user_id,omitempty"`
}

// ErrInvalidBooking covers malformed booking input (missing name, bad dates).
var ErrInvalidBooking = errors.New("invalid booking data")

// BookingService manages bookings, their trash lifecycle, and CSV
// import/export.
type BookingService interface {
	Create(ctx context.Context, caller model.Identity, in BookingInput) (*model.Booking, error)
	Get(ctx context.Context, bookingID string, caller model.Identity) (*model.Booking, error)
	List(ctx context.Context, caller model.Identity) ([]model.Booking, error)
	Update(ctx context.Context, bookingID string, caller model.Identity, in BookingInput) (*model.Booking, error)
	MoveToTrash(ctx context.Context, bookingID string, caller model.Identity) error
	Restore(ctx context.Context, bookingID string, caller model.Identity) error
	ListTrashed(ctx context.Context, caller model.Identity) ([]model.Booking, error)
	EmptyTrash(ctx context.Context, caller model.Identity) (int64, error)
	ImportCSV(ctx context.Context, caller model.Identity, r io.Reader) (int, error)
	ExportCSV(ctx context.Context, caller model.Identity, w io.Writer) error
}

type bookingService struct {
	bookings repository.BookingRepository
	shares   ShareService
	log      *zap.Logger
	now      func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings repository.BookingRepository, shares ShareService, log *zap.Logger) BookingService {
	return &bookingService{
		bookings: bookings,
		shares:   shares,
		log:      log,
		now:      time.Now,
	}
}

func (s *bookingService) fromInput(in BookingInput, ownerID string) (*model.Booking, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidBooking)
	}
	from, err := time.Parse(bookingDateLayout, in.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from: %v", ErrInvalidBooking, err)
	}
	to, err := time.Parse(bookingDateLayout, in.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to: %v", ErrInvalidBooking, err)
	}

	now := s.now().UTC()
	return &model.Booking{
		ID:         uuid.NewString(),
		Name:       in.Name,
		DateFrom:   from,
		DateTo:     to,
		Country:    in.Country,
		Pax:        in.Pax,
		Ladies:     in.Ladies,
		Men:        in.Men,
		Children:   in.Children,
		Teens:      in.Teens,
		Agent:      in.Agent,
		Consultant: in.Consultant,
		UserID:     ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *bookingService) Create(ctx context.Context, caller model.Identity, in BookingInput) (*model.Booking, error) {
	ownerID := caller.ID
	if in.UserID != "" && caller.IsAdmin() {
		ownerID = in.UserID
	}

	b, err := s.fromInput(in, ownerID)
	if err != nil {
		return nil, err
	}

	stored, err := s.bookings.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	// Best-effort; a failed share link never rolls back the booking.
	s.shares.AutoGenerate(ctx, stored.ID, caller.ID)

	s.log.Info("booking created", zap.String("booking_id", stored.ID))
	return stored, nil
}

func (s *bookingService) Get(ctx context.Context, bookingID string, caller model.Identity) (*model.Booking, error) {
	return authorizeBooking(ctx, s.bookings, bookingID, caller)
}

func (s *bookingService) List(ctx context.Context, caller model.Identity) ([]model.Booking, error) {
	if caller.IsAdmin() {
		return s.bookings.ListActive(ctx, "")
	}
	return s.bookings.ListActive(ctx, caller.ID)
}

func (s *bookingService) Update(ctx context.Context, bookingID string, caller model.Identity, in BookingInput) (*model.Booking, error) {
	existing, err := authorizeBooking(ctx, s.bookings, bookingID, caller)
	if err != nil {
		return nil, err
	}

	updated, err := s.fromInput(in, existing.UserID)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	// Only admins may reassign ownership.
	if in.UserID != "" && caller.IsAdmin() {
		updated.UserID = in.UserID
	}

	if err := s.bookings.Update(ctx, updated); err != nil {
		return nil, err
	}
	return s.bookings.FindByID(ctx, bookingID)
}

func (s *bookingService) MoveToTrash(ctx context.Context, bookingID string, caller model.Identity) error {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return err
	}
	if err := s.bookings.MoveToTrash(ctx, bookingID, caller.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	s.log.Info("booking moved to trash", zap.String("booking_id", bookingID))
	return nil
}

func (s *bookingService) Restore(ctx context.Context, bookingID string, caller model.Identity) error {
	if _, err := authorizeBooking(ctx, s.bookings, bookingID, caller); err != nil {
		return err
	}
	if err := s.bookings.Restore(ctx, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	return nil
}

func (s *bookingService) ListTrashed(ctx context.Context, caller model.Identity) ([]model.Booking, error) {
	if !caller.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return s.bookings.ListTrashed(ctx)
}

func (s *bookingService) EmptyTrash(ctx context.Context, caller model.Identity) (int64, error) {
	if !caller.IsAdmin() {
		return 0, ErrUnauthorized
	}
	n, err := s.bookings.EmptyTrash(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("trash emptied", zap.Int64("bookings_deleted", n))
	return n, nil
}

var csvHeader = []string{"name", "date_from", "date_to", "country", "pax", "ladies", "men", "children", "teens", "agent", "consultant"}

// ImportCSV creates one booking per CSV row, owned by the caller. The header
// row must match csvHeader by name; column order is free.
func (s *bookingService) ImportCSV(ctx context.Context, caller model.Identity, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: missing header row", ErrInvalidBooking)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return 0, fmt.Errorf("%w: missing column %q", ErrInvalidBooking, name)
		}
	}

	atoi := func(record []string, name string) int {
		v := record[col[name]]
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}

	imported := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
		}

		in := BookingInput{
			Name:       record[col["name"]],
			DateFrom:   record[col["date_from"]],
			DateTo:     record[col["date_to"]],
			Country:    record[col["country"]],
			Pax:        atoi(record, "pax"),
			Ladies:     atoi(record, "ladies"),
			Men:        atoi(record, "men"),
			Children:   atoi(record, "children"),
			Teens:      atoi(record, "teens"),
			Agent:      record[col["agent"]],
			Consultant: record[col["consultant"]],
		}
		b, err := s.fromInput(in, caller.ID)
		if err != nil {
			return imported, err
		}
		if _, err := s.bookings.Create(ctx, b); err != nil {
			return imported, err
		}
		imported++
	}

	s.log.Info("bookings imported", zap.Int("count", imported))
	return imported, nil
}

// ExportCSV writes the caller's visible bookings in the import format.
func (s *bookingService) ExportCSV(ctx context.Context, caller model.Identity, w io.Writer) error {
	bookings, err := s.List(ctx, caller)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		record := []string{
			b.Name,
			b.DateFrom.Format(bookingDateLayout),
			b.DateTo.Format(bookingDateLayout),
			b.Country,
			strconv.Itoa(b.Pax),
			strconv.Itoa(b.Ladies),
			strconv.Itoa(b.Men),
			strconv.Itoa(b.Children),
			strconv.Itoa(b.Teens),
			b.Agent,
			b.Consultant,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
