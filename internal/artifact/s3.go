package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store keeps generated report files in an S3-compatible bucket
// (minio in local setups). Refs have the form s3://bucket/key.
type Store struct {
	s3     *s3.Client
	bucket string
}

type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// LoadEnv reads the artifact store configuration from the environment.
// Returns nil when no endpoint is configured.
func LoadEnv() *Config {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil
	}
	return &Config{
		Endpoint:  endpoint,
		Bucket:    os.Getenv("MINIO_BUCKET"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
	}
}

func New(ctx context.Context, c *Config) (*Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("artifact bucket is not set")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: fmt.Sprintf("http://%s", c.Endpoint),
			HostnameImmutable: true}, nil
	})
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey,
			c.SecretKey,
			"")),
		config.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}
	return &Store{s3: s3.NewFromConfig(cfg), bucket: c.Bucket}, nil
}

// Put stores an artifact and returns its ref.
func (c *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put artifact %s: %w", key, err)
	}

	ref := fmt.Sprintf("s3://%s/%s", c.bucket, key)
	slog.Info("artifact stored", "ref", ref, "bytes", len(data), "content_type", contentType)
	return ref, nil
}

// Get fetches an artifact by ref or bare key.
func (c *Store) Get(ctx context.Context, ref string) ([]byte, string, error) {
	key := ref
	if strings.HasPrefix(ref, "s3://") {
		var err error
		_, key, err = ParseRef(ref)
		if err != nil {
			return nil, "", err
		}
	}

	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("get artifact %s: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read artifact %s: %w", ref, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

// ParseRef splits an s3://bucket/key ref into bucket and key.
func ParseRef(ref string) (string, string, error) {
	const p = "s3://"
	if !strings.HasPrefix(ref, p) {
		return "", "", fmt.Errorf("bad s3 ref (missing s3://): %q", ref)
	}
	s := strings.TrimPrefix(ref, p)
	slash := strings.IndexByte(s, '/')
	if slash <= 0 || slash == len(s)-1 {
		return "", "", fmt.Errorf("bad s3 ref (need bucket/key): %q", ref)
	}
	return s[:slash], s[slash+1:], nil
}
