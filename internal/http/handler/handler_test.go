package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripdocs/internal/http/middleware"
	"tripdocs/internal/model"
	"tripdocs/internal/service"
	serviceMocks "tripdocs/internal/service/mocks"
	"tripdocs/internal/storage"
)

var testCaller = model.Identity{ID: "u1", Role: model.RoleUser}

// stubAuth injects a fixed identity, standing in for the JWT middleware.
func stubAuth(c *fiber.Ctx) error {
	c.Locals(middleware.IdentityLocalKey, testCaller)
	return c.Next()
}

type appFixture struct {
	app       *fiber.App
	dbMock    sqlmock.Sqlmock
	bookings  *serviceMocks.MockBookingService
	documents *serviceMocks.MockDocumentService
	shares    *serviceMocks.MockShareService
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &appFixture{
		dbMock:    dbMock,
		bookings:  new(serviceMocks.MockBookingService),
		documents: new(serviceMocks.MockDocumentService),
		shares:    new(serviceMocks.MockShareService),
	}
	f.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(f.app, db, stubAuth,
		NewBookingHandler(f.bookings),
		NewDocumentHandler(f.documents),
		NewShareHandler(f.shares, f.documents))
	return f
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	f := newAppFixture(t)

	t.Run("healthy", func(t *testing.T) {
		f.dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unhealthy", func(t *testing.T) {
		f.dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("liveness", func(t *testing.T) {
		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestShareRoutes(t *testing.T) {
	t.Run("view", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("SharedView", mock.Anything, "tok123").Return(&service.SharedViewResult{
			BookingID:   "b1",
			BookingName: "Kenya Safari",
			Documents: []service.SharedDocument{
				{ID: "d1", Filename: "voucher.pdf", DownloadURL: "/api/share/tok123/download/d1"},
			},
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/share/tok123", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view service.SharedViewResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, "Kenya Safari", view.BookingName)
	})

	t.Run("invalid link is indistinguishable from expired", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("SharedView", mock.Anything, "whatever").Return(nil, service.ErrInvalidShareLink)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/share/whatever", nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "INVALID_SHARE_LINK", body.Error.Code)
		assert.Equal(t, "invalid or expired link", body.Error.Message)
	})

	t.Run("single download", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("SharedDownload", mock.Anything, "tok123", "d1").Return(&service.FileDownload{
			Content:     []byte("%PDF-1.4"),
			ContentType: "application/pdf",
			Filename:    "voucher.pdf",
		}, nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/share/tok123/download/d1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="voucher.pdf"`)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, []byte("%PDF-1.4"), body)
	})

	t.Run("storage outage is 503 not 404", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("SharedDownload", mock.Anything, "tok123", "d1").Return(nil, storage.ErrUnavailable)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/share/tok123/download/d1", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "STORAGE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("download all", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("SharedDownloadAll", mock.Anything, "tok123").Return(&service.FileDownload{
			Content:     []byte("PK\x03\x04"),
			ContentType: "application/zip",
			Filename:    "Kenya_Safari_documents.zip",
		}, nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/share/tok123/download-all", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	})

	t.Run("generate for booking", func(t *testing.T) {
		f := newAppFixture(t)
		f.shares.On("Generate", mock.Anything, "b1", testCaller,
			[]model.Category{model.CategoryVoucher}, 3600*time.Second).
			Return(&service.ShareLink{Token: "newtok", ShareURL: "https://app.example.com/share/newtok"}, nil)

		payload, _ := json.Marshal(map[string]any{
			"categories":  []string{"Voucher"},
			"ttl_seconds": 3600,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/share", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("no active link", func(t *testing.T) {
		f := newAppFixture(t)
		f.shares.On("GetExisting", mock.Anything, "b1", testCaller).Return(nil, service.ErrShareLinkNotFound)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/b1/share", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func multipartFile(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestDocumentRoutes(t *testing.T) {
	t.Run("upload", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("Upload", mock.Anything, "b1", testCaller,
			[]byte("content"), mock.Anything, "voucher.pdf", "Voucher").
			Return(&model.BookingDocument{ID: "d1", Filename: "voucher.pdf"}, nil)

		body, ct := multipartFile(t, "file", "voucher.pdf", []byte("content"), map[string]string{"category": "Voucher"})
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("upload without file", func(t *testing.T) {
		f := newAppFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/documents", bytes.NewReader(nil))

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("upload validation failures map to status codes", func(t *testing.T) {
		tests := []struct {
			name       string
			svcErr     error
			wantStatus int
			wantCode   string
		}{
			{"quota", service.ErrQuotaExceeded, http.StatusBadRequest, "QUOTA_EXCEEDED"},
			{"size", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
			{"extension", service.ErrExtensionNotAllowed, http.StatusBadRequest, "EXTENSION_NOT_ALLOWED"},
			{"storage down", storage.ErrUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newAppFixture(t)
				f.documents.On("Upload", mock.Anything, "b1", testCaller,
					mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.svcErr)

				body, ct := multipartFile(t, "file", "voucher.pdf", []byte("content"), nil)
				req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/documents", body)
				req.Header.Set(fiber.HeaderContentType, ct)

				resp, _ := f.app.Test(req)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			})
		}
	})

	t.Run("list", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("List", mock.Anything, "b1", testCaller).
			Return(&service.DocumentList{Documents: []model.BookingDocument{{ID: "d1"}}}, nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/b1/documents", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("change category", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("UpdateCategory", mock.Anything, "b1", "d1", testCaller, "Invoice").Return(nil)

		payload, _ := json.Marshal(map[string]string{"category": "Invoice"})
		req := httptest.NewRequest(http.MethodPatch, "/api/bookings/b1/documents/d1", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("delete missing document", func(t *testing.T) {
		f := newAppFixture(t)
		f.documents.On("Delete", mock.Anything, "b1", "nope", testCaller).Return(service.ErrDocumentNotFound)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodDelete, "/api/bookings/b1/documents/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestBookingRoutes(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("Create", mock.Anything, testCaller, mock.MatchedBy(func(in service.BookingInput) bool {
			return in.Name == "Masai Mara Trip"
		})).Return(&model.Booking{ID: "b1", Name: "Masai Mara Trip"}, nil)

		payload, _ := json.Marshal(map[string]any{
			"name": "Masai Mara Trip", "date_from": "07/01/2026", "date_to": "07/10/2026",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("trash route does not collide with id route", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("ListTrashed", mock.Anything, testCaller).Return([]model.Booking{}, nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/trash", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		f.bookings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forbidden trash access", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("ListTrashed", mock.Anything, testCaller).Return(nil, service.ErrUnauthorized)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/trash", nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("move to trash and restore", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("MoveToTrash", mock.Anything, "b1", testCaller).Return(nil)
		f.bookings.On("Restore", mock.Anything, "b1", testCaller).Return(nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodDelete, "/api/bookings/b1", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = f.app.Test(httptest.NewRequest(http.MethodPost, "/api/bookings/b1/restore", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("import csv", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("ImportCSV", mock.Anything, testCaller, mock.Anything).Return(2, nil)

		csv := "name,date_from,date_to,country,pax,ladies,men,children,teens,agent,consultant\n"
		body, ct := multipartFile(t, "file", "bookings.csv", []byte(csv), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/import", body)
		req.Header.Set(fiber.HeaderContentType, ct)

		resp, _ := f.app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, 2, out["imported"])
	})

	t.Run("export csv", func(t *testing.T) {
		f := newAppFixture(t)
		f.bookings.On("ExportCSV", mock.Anything, testCaller, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(2).(io.Writer).Write([]byte("name,date_from\n"))
			}).Return(nil)

		resp, _ := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/export", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	})
}
