package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"tripdocs/internal/http/middleware"
	"tripdocs/internal/service"
)

// DocumentHandler serves the authenticated document management endpoints.
type DocumentHandler struct {
	docs service.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(docs service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// List returns a booking's documents plus its itinerary link.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	list, err := h.docs.List(c.UserContext(), c.Params("id"), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// Upload accepts a multipart form with field "file" and optional field
// "category".
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return mapServiceError(c, service.ErrFileRequired)
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err := h.docs.Upload(c.UserContext(), c.Params("id"), middleware.Identity(c),
		content, ct, fh.Filename, c.FormValue("category"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// UpdateCategory moves a document to a different category.
func (h *DocumentHandler) UpdateCategory(c *fiber.Ctx) error {
	var body struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}

	if err := h.docs.UpdateCategory(c.UserContext(), c.Params("id"), c.Params("docId"),
		middleware.Identity(c), body.Category); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a document's metadata record.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.docs.Delete(c.UserContext(), c.Params("id"), c.Params("docId"),
		middleware.Identity(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateItinerary stores a manual itinerary link on the booking.
func (h *DocumentHandler) UpdateItinerary(c *fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}

	if err := h.docs.UpdateItinerary(c.UserContext(), c.Params("id"),
		middleware.Identity(c), body.URL); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
