package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tripdocs/internal/config"
	"tripdocs/internal/model"
)

// ObjectStore is the fallback blob backend: an S3-compatible object store
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
	now    func() time.Time
}

// resolveCredentials picks a credential provider in priority order:
// static access/secret keys, a shared credentials file, then ambient IAM
// credentials.
func resolveCredentials(cfg config.S3Config) (*credentials.Credentials, error) {
	switch {
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""), nil
	case cfg.CredentialsFile != "":
		return credentials.NewFileAWSCredentials(cfg.CredentialsFile, ""), nil
	default:
		return credentials.NewIAM(""), nil
	}
}

// NewObjectStore creates the fallback backend adapter. It validates
// connectivity and ensures the bucket exists (creates it if missing).
func NewObjectStore(cfg config.S3Config) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve object store credentials: %w", err)
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	os := &ObjectStore{
		client: cli,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.FolderPrefix, "/"),
		now:    time.Now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return os, nil
}

var _ Backend = (*ObjectStore)(nil)

// Upload writes the file under {prefix}/{storedName} and returns an s3://
// locator resolvable by Download.
func (o *ObjectStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, bookingID string, category model.Category, originalFilename string) (UploadResult, error) {
	storedName := fmt.Sprintf("%s_%s_%d_%s",
		bookingID,
		SanitizeFilename(string(category)),
		o.now().Unix(),
		SanitizeFilename(originalFilename),
	)
	key := storedName
	if o.prefix != "" {
		key = o.prefix + "/" + storedName
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := o.client.PutObject(ctx, o.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("object store upload: %w", err)
	}

	return UploadResult{
		URL:              fmt.Sprintf("s3://%s/%s", o.bucket, key),
		Filename:         storedName,
		OriginalFilename: originalFilename,
		Path:             key,
		Size:             info.Size,
		StorageType:      model.StorageS3,
	}, nil
}

// parseLocator resolves either an s3://bucket/path locator or a bare path
// against the configured bucket.
func (o *ObjectStore) parseLocator(locator string) (bucket, key string) {
	if rest, ok := strings.CutPrefix(locator, "s3://"); ok {
		bucket, key, _ = strings.Cut(rest, "/")
		return bucket, key
	}
	return o.bucket, strings.TrimLeft(locator, "/")
}

// Download fetches an object's bytes and content type. A missing object maps
// to ErrObjectNotFound.
func (o *ObjectStore) Download(ctx context.Context, locator string) ([]byte, string, error) {
	bucket, key := o.parseLocator(locator)

	obj, err := o.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("object store download: %w", err)
	}
	defer obj.Close()

	st, err := obj.Stat()
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("object store stat: %w", err)
	}

	content, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("object store download: %w", err)
	}

	contentType := st.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return content, contentType, nil
}

func isNoSuchKey(err error) bool {
	var respErr minio.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Code == "NoSuchKey" || respErr.StatusCode == 404
	}
	return false
}
