package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"tripdocs/internal/http/middleware"
	"tripdocs/internal/service"
)

// BookingHandler serves the booking CRUD, trash, and CSV endpoints.
type BookingHandler struct {
	bookings service.BookingService
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in service.BookingInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}

	b, err := h.bookings.Create(c.UserContext(), middleware.Identity(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	b, err := h.bookings.Get(c.UserContext(), c.Params("id"), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(b)
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	bookings, err := h.bookings.List(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) Update(c *fiber.Ctx) error {
	var in service.BookingInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}

	b, err := h.bookings.Update(c.UserContext(), c.Params("id"), middleware.Identity(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(b)
}

// MoveToTrash soft-deletes a booking; it stays recoverable until the trash
// is emptied.
func (h *BookingHandler) MoveToTrash(c *fiber.Ctx) error {
	if err := h.bookings.MoveToTrash(c.UserContext(), c.Params("id"), middleware.Identity(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) Restore(c *fiber.Ctx) error {
	if err := h.bookings.Restore(c.UserContext(), c.Params("id"), middleware.Identity(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) ListTrashed(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListTrashed(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) EmptyTrash(c *fiber.Ctx) error {
	n, err := h.bookings.EmptyTrash(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// ImportCSV bulk-creates bookings from an uploaded CSV file (multipart field
// "file").
func (h *BookingHandler) ImportCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return mapServiceError(c, service.ErrFileRequired)
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	n, err := h.bookings.ImportCSV(c.UserContext(), middleware.Identity(c), f)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"imported": n})
}

// ExportCSV writes the caller's bookings as a CSV attachment.
func (h *BookingHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.bookings.ExportCSV(c.UserContext(), middleware.Identity(c), &buf); err != nil {
		return mapServiceError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(buf.Bytes())
}
