package objstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"trainyard/internal/config"
)

// Client wraps an S3-compatible object store for dataset uploads and model
// artifact downloads.
type Client struct {
	api     objectAPI
	bucket  string
	timeout time.Duration
}

// objectAPI is the minio surface the client exercises, split out so tests can
// substitute a fake without a live object store.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	FPutObject(ctx context.Context, bucket, key, path string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucket, key, path string, opts minio.GetObjectOptions) error
}

// NewClient constructs an object store client from storage configuration.
func NewClient(cfg config.Storage) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("objstore: endpoint required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("objstore: bucket required")
	}
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objstore: create client: %w", err)
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Client{api: api, bucket: cfg.Bucket, timeout: timeout}, nil
}

// newClientWithAPI is used by tests.
func newClientWithAPI(api objectAPI, bucket string, timeout time.Duration) *Client {
	return &Client{api: api, bucket: bucket, timeout: timeout}
}

// EnsureBucket verifies the configured bucket exists and is reachable.
// Failures surface to the caller; nothing is created or retried on its behalf.
func (c *Client) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("objstore: check bucket %q: %w", c.bucket, err)
	}
	if !exists {
		return fmt.Errorf("objstore: bucket %q does not exist or is not accessible", c.bucket)
	}
	return nil
}

// UploadFile uploads a single local file under the given key and returns its URI.
func (c *Client) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	key = cleanKey(key)
	if _, err := c.api.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("objstore: upload %q to %q: %w", localPath, key, err)
	}
	return c.URI(key), nil
}

// UploadDir walks a local directory tree and uploads every regular file under
// the given key prefix, preserving relative paths. Returns the prefix URI and
// the number of files uploaded.
func (c *Client) UploadDir(ctx context.Context, localDir, prefix string) (string, int, error) {
	prefix = cleanKey(prefix)
	uploaded := 0

	err := filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		opCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		if _, err := c.api.FPutObject(opCtx, c.bucket, key, p, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("upload %q: %w", rel, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return "", uploaded, fmt.Errorf("objstore: upload dir %q: %w", localDir, err)
	}
	return c.URI(prefix) + "/", uploaded, nil
}

// Download fetches an object to a local path, creating parent directories.
func (c *Client) Download(ctx context.Context, key, localPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("objstore: create download dir: %w", err)
	}
	if err := c.api.FGetObject(ctx, c.bucket, cleanKey(key), localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("objstore: download %q: %w", key, err)
	}
	return nil
}

// URI renders the s3:// form of a key in the configured bucket.
func (c *Client) URI(key string) string {
	return "s3://" + c.bucket + "/" + cleanKey(key)
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// ParseURI splits an s3://bucket/key URI into its components.
func ParseURI(uri string) (bucket, key string, err error) {
	const scheme = "s3://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", fmt.Errorf("objstore: URI %q missing s3:// scheme", uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("objstore: URI %q missing bucket or key", uri)
	}
	return bucket, key, nil
}

func cleanKey(key string) string {
	return strings.Trim(path.Clean("/"+key), "/")
}
