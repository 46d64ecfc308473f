package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	pkgstorage "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage"
)

const (
	defaultUploadTimeout = 2 * time.Minute
	deleteTimeout        = 30 * time.Second
	pingTimeout          = 5 * time.Second
)

// Client uploads objects into a single bucket through the Cloud Storage
// client library.
type Client struct {
	storage       *storage.Client
	bucket        string
	publicBaseURL string
	emulatorHost  string
	uploadTimeout time.Duration
	cacheControl  string
	logg          *logger.Logger
}

var _ pkgstorage.ObjectStore = (*Client)(nil)

func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	sc, err := newStorageClient(ctx, cfg, gcp)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}

	client := &Client{
		storage:       sc,
		bucket:        cfg.BucketName,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		emulatorHost:  strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"),
		uploadTimeout: timeout,
		cacheControl:  cfg.CacheControl,
		logg:          logg,
	}

	if err := client.Ping(ctx); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func newStorageClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig) (*storage.Client, error) {
	if host := strings.TrimSpace(cfg.EmulatorHost); host != "" {
		if err := os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(host, "/")); err != nil {
			return nil, err
		}
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	switch {
	case gcp.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case gcp.ApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	return storage.NewClient(ctx, opts...)
}

func (c *Client) Close() error {
	if c == nil || c.storage == nil {
		return nil
	}
	return c.storage.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.storage == nil {
		return errors.New("gcs client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := c.storage.Bucket(c.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("reading bucket %q: %w", c.bucket, err)
	}
	return nil
}

// Upload writes body under key, replacing any existing object, and returns
// the object's public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("object key is required")
	}
	if contentType == "" {
		contentType = pkgstorage.ContentTypeForKey(key)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	w := c.storage.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if c.cacheControl != "" {
		w.CacheControl = c.cacheControl
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing %q to gcs: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing gcs writer for %q: %w", key, err)
	}
	return c.PublicURL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()
	err := c.storage.Bucket(c.bucket).Object(strings.TrimLeft(key, "/")).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return pkgstorage.ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting gcs object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the durable URL of key. The emulator serves objects
// through the JSON API media endpoint.
func (c *Client) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case c.publicBaseURL != "":
		return fmt.Sprintf("%s/%s", c.publicBaseURL, key)
	case c.emulatorHost != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			c.emulatorHost, url.PathEscape(c.bucket), url.PathEscape(key))
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, key)
	}
}
