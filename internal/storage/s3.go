package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chartmuseum/storage"
)

// S3Config encapsulates the connection info for an S3-compatible object
// store used as an alternative catalog backend.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// ObjectKey is the object written when the caller does not name one.
	ObjectKey string
}

// S3Client implements RemoteStore for S3-compatible services via
// chartmuseum's Amazon storage backend.
type S3Client struct {
	backend   storage.Backend
	objectKey string
}

// NewS3Client builds a new S3Client.
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must be provided")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "https"
		if !cfg.UseSSL {
			scheme = "http"
		}
		endpoint = fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(cfg.Endpoint, "//"))
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretKey)
	os.Setenv("AWS_REGION", region)
	os.Setenv("AWS_DEFAULT_REGION", region)

	backend := storage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		"", // no prefix
		region,
		endpoint,
		"",
		&storage.AmazonS3Options{
			S3ForcePathStyle: awsBool(true),
		},
	)

	objectKey := cfg.ObjectKey
	if objectKey == "" {
		objectKey = "catalog.json"
	}

	return &S3Client{backend: backend, objectKey: objectKey}, nil
}

// Get downloads the object stored under key.
func (c *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		key = c.objectKey
	}
	object, err := c.backend.GetObject(key)
	if err != nil {
		if isMissingObject(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	if len(object.Content) == 0 {
		return nil, ErrNotFound
	}
	return object.Content, nil
}

// Put uploads data under key.
func (c *S3Client) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		key = c.objectKey
	}
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func isMissingObject(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nosuchkey") || strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}

var _ RemoteStore = (*S3Client)(nil)

func awsBool(v bool) *bool {
	return &v
}
