package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tripdocs/internal/config"
	"tripdocs/internal/model"
)

// FileServer is the primary blob backend: a self-hosted file server accepting
// multipart POST uploads and serving files by plain GET. It is safe for
// concurrent use; the underlying HTTP client is shared across requests.
type FileServer struct {
	baseURL        string
	apiToken       string
	uploadPassword string
	probeTimeout   time.Duration
	client         *http.Client
	now            func() time.Time
}

// NewFileServer creates the primary backend adapter from configuration.
func NewFileServer(cfg config.FileServerConfig) *FileServer {
	return &FileServer{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:       cfg.APIToken,
		uploadPassword: cfg.UploadPassword,
		probeTimeout:   cfg.ProbeTimeout,
		client: &http.Client{
			Timeout:   cfg.CallTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
}

var _ Backend = (*FileServer)(nil)

// Ping probes the server root with a short timeout, distinct from the longer
// timeout used for actual transfers. It reports whether the server answered
// 200 in time.
func (f *FileServer) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// StoredFilename builds the collision-resistant name a blob is stored under.
func (f *FileServer) storedFilename(bookingID string, category model.Category, originalFilename string) string {
	return fmt.Sprintf("%s_%s_%d_%s",
		bookingID,
		SanitizeFilename(string(category)),
		f.now().Unix(),
		SanitizeFilename(originalFilename),
	)
}

// Upload posts the file as multipart form data (field "f", action "bput"),
// authenticating with the API token or, failing that, the upload password.
func (f *FileServer) Upload(ctx context.Context, r io.Reader, size int64, contentType, bookingID string, category model.Category, originalFilename string) (UploadResult, error) {
	storedName := f.storedFilename(bookingID, category, originalFilename)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="f"; filename="%s"`, storedName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	hdr.Set("Content-Type", contentType)

	part, err := mw.CreatePart(hdr)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create multipart: %w", err)
	}
	written, err := io.Copy(part, r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}

	if err := mw.WriteField("act", "bput"); err != nil {
		return UploadResult{}, fmt.Errorf("write form field: %w", err)
	}
	switch {
	case f.apiToken != "":
		if err := mw.WriteField("token", f.apiToken); err != nil {
			return UploadResult{}, fmt.Errorf("write form field: %w", err)
		}
	case f.uploadPassword != "":
		if err := mw.WriteField("password", f.uploadPassword); err != nil {
			return UploadResult{}, fmt.Errorf("write form field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finalize multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/", &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := f.client.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("file server upload: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UploadResult{}, fmt.Errorf("file server upload: unexpected status %d", resp.StatusCode)
	}

	return UploadResult{
		URL:              f.baseURL + "/" + url.PathEscape(storedName),
		Filename:         storedName,
		OriginalFilename: originalFilename,
		Path:             storedName,
		Size:             written,
		StorageType:      model.StorageFileServer,
	}, nil
}

// Download fetches a stored file by its URL. Locators that are bare paths are
// resolved against the configured base URL.
func (f *FileServer) Download(ctx context.Context, locator string) ([]byte, string, error) {
	u := locator
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		// Stored names are sanitized at upload time, so the path is safe to
		// splice as-is.
		u = f.baseURL + "/" + strings.TrimLeft(locator, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("file server download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("file server download: unexpected status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("file server download: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return content, contentType, nil
}
