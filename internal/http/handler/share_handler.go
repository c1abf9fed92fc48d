package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tripdocs/internal/http/middleware"
	"tripdocs/internal/model"
	"tripdocs/internal/service"
)

// ShareHandler serves share link management and the public share endpoints.
type ShareHandler struct {
	shares service.ShareService
	docs   service.DocumentService
}

// NewShareHandler creates a ShareHandler.
func NewShareHandler(shares service.ShareService, docs service.DocumentService) *ShareHandler {
	return &ShareHandler{shares: shares, docs: docs}
}

// Generate mints a new share link for a booking.
func (h *ShareHandler) Generate(c *fiber.Ctx) error {
	var body struct {
		Categories []string `json:"categories"`
		TTLSeconds int      `json:"ttl_seconds"`
	}
	// An empty body is fine; everything has a default.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
	}

	categories := make([]model.Category, 0, len(body.Categories))
	for _, s := range body.Categories {
		categories = append(categories, model.Category(s))
	}

	link, err := h.shares.Generate(c.UserContext(), c.Params("id"), middleware.Identity(c),
		categories, time.Duration(body.TTLSeconds)*time.Second)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// GetExisting returns the booking's newest active share link.
func (h *ShareHandler) GetExisting(c *fiber.Ctx) error {
	link, err := h.shares.GetExisting(c.UserContext(), c.Params("id"), middleware.Identity(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(link)
}

// View is the public share landing: the documents visible through the link.
func (h *ShareHandler) View(c *fiber.Ctx) error {
	view, err := h.docs.SharedView(c.UserContext(), c.Params("token"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(view)
}

// Download streams a single shared document.
func (h *ShareHandler) Download(c *fiber.Ctx) error {
	dl, err := h.docs.SharedDownload(c.UserContext(), c.Params("token"), c.Params("docId"))
	if err != nil {
		return mapServiceError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.Filename+`"`)
	c.Set(fiber.HeaderContentType, dl.ContentType)
	return c.Send(dl.Content)
}

// DownloadAll streams all shared documents as a single zip archive.
func (h *ShareHandler) DownloadAll(c *fiber.Ctx) error {
	dl, err := h.docs.SharedDownloadAll(c.UserContext(), c.Params("token"))
	if err != nil {
		return mapServiceError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.Filename+`"`)
	c.Set(fiber.HeaderContentType, dl.ContentType)
	return c.Send(dl.Content)
}
