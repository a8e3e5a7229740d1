// Package sources reads the dashboard CSV documents from a storage backend.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"feargreed/internal/config"
)

// Fetcher returns the raw bytes of a document addressed by a slash separated
// relative path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// maxDocumentSize bounds a single CSV read.
const maxDocumentSize = 64 << 20

// NewFetcher builds the fetcher for the configured backend.
func NewFetcher(ctx context.Context, cfg config.SourcesConfig) (Fetcher, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendFile, "":
		return NewFileFetcher(cfg.Dir), nil
	case config.BackendHTTP:
		return NewHTTPFetcher(cfg.BaseURL, cfg.Timeout)
	case config.BackendS3:
		return NewS3Fetcher(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown source backend %q", cfg.Backend)
	}
}

// FileFetcher reads documents below a local directory.
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

// Fetch reads dir/p. Paths escaping dir are rejected.
func (f *FileFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(clean)))
}

// HTTPFetcher downloads documents relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for baseURL. A zero timeout means 10s.
func NewHTTPFetcher(baseURL string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch issues a GET for base/p. Any non-200 status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	target := f.base.ResolveReference(&url.URL{Path: clean})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// S3API is the part of the S3 client used by S3Fetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads documents from a bucket under an optional key prefix.
type S3Fetcher struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Fetcher loads the AWS configuration and creates an S3 client.
// Static credentials are used only when both keys are set.
func NewS3Fetcher(ctx context.Context, cfg config.S3Config) (*S3Fetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return NewS3FetcherWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3FetcherWithClient wraps an existing client.
func NewS3FetcherWithClient(client S3API, bucket, prefix string) *S3Fetcher {
	return &S3Fetcher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the object key for p.
func (f *S3Fetcher) Key(p string) string {
	if f.prefix == "" {
		return p
	}
	return f.prefix + "/" + p
}

// Fetch downloads the object bucket/prefix/p.
func (f *S3Fetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	key := f.Key(clean)

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", f.bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", f.bucket, key, err)
	}
	return body, nil
}

func cleanPath(p string) (string, error) {
	slashed := strings.ReplaceAll(p, "\\", "/")
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", fmt.Errorf("source path %q escapes the source root", p)
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+slashed), "/")
	if clean == "" {
		return "", fmt.Errorf("empty source path %q", p)
	}
	return clean, nil
}
