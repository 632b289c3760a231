// Package source reads and writes mass files and budgets by location.
//
// A location is either a local filesystem path or an object URL of the form
// s3://bucket/key. S3 access goes through an S3-compatible client configured
// from the environment:
//
//	BALLAST_S3_REGION=<region>        (default us-east-1)
//	BALLAST_S3_ENDPOINT=<url>         (optional, for MinIO and friends)
//	BALLAST_S3_PATH_STYLE=true|false  (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Scheme prefixes object locations.
const S3Scheme = "s3://"

// Location is a parsed local path or S3 object reference.
type Location struct {
	Bucket string // empty for local paths
	Key    string
	Path   string
}

// IsS3 reports whether the location refers to an object store.
func (l Location) IsS3() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.IsS3() {
		return S3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Parse interprets a location string.
func Parse(loc string) (Location, error) {
	if loc == "" {
		return Location{}, errors.New("empty location")
	}
	if !strings.HasPrefix(loc, S3Scheme) {
		return Location{Path: loc}, nil
	}
	rest := strings.TrimPrefix(loc, S3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid object location %q: want s3://bucket/key", loc)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// S3Config holds object store construction parameters.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool

	// Credentials overrides the default credential chain when set.
	Credentials aws.CredentialsProvider
	// HTTPClient overrides the transport when set.
	HTTPClient *http.Client
}

// S3ConfigFromEnv reads BALLAST_S3_* variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("BALLAST_S3_REGION"),
		Endpoint:  os.Getenv("BALLAST_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("BALLAST_S3_PATH_STYLE"), "true"),
	}
}

// Store resolves locations to bytes. The S3 client is created on first use
// so purely local invocations never touch AWS configuration.
type Store struct {
	cfg    S3Config
	logger *slog.Logger

	once      sync.Once
	client    *s3.Client
	clientErr error
}

// New creates a Store. A nil logger discards log output.
func New(cfg S3Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{cfg: cfg, logger: logger}
}

func (s *Store) s3Client(ctx context.Context) (*s3.Client, error) {
	s.once.Do(func() {
		region := s.cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
		if s.cfg.Credentials != nil {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(s.cfg.Credentials))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			s.clientErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = s.cfg.PathStyle
			if s.cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			}
			if s.cfg.HTTPClient != nil {
				o.HTTPClient = s.cfg.HTTPClient
			}
			// Plain payloads keep S3-compatible servers happy.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		})
	})
	return s.client, s.clientErr
}

// ReadError reports a location that could not be read. It wraps the
// underlying failure, so IsNotExist still applies.
type ReadError struct {
	Location string
	Err      error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Location, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// Read returns the full content at loc. Failures after loc is parsed are
// *ReadError.
func (s *Store) Read(ctx context.Context, loc string) ([]byte, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, err
	}
	data, err := s.read(ctx, l)
	if err != nil {
		return nil, &ReadError{Location: l.String(), Err: err}
	}
	return data, nil
}

func (s *Store) read(ctx context.Context, l Location) ([]byte, error) {
	if !l.IsS3() {
		return os.ReadFile(l.Path)
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetching object", "bucket", l.Bucket, "key", l.Key)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &l.Bucket, Key: &l.Key})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Write replaces the content at loc. Local parent directories are created.
func (s *Store) Write(ctx context.Context, loc string, data []byte) error {
	l, err := Parse(loc)
	if err != nil {
		return err
	}
	if !l.IsS3() {
		if dir := filepath.Dir(l.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		return os.WriteFile(l.Path, data, 0o644)
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("storing object", "bucket", l.Bucket, "key", l.Key, "bytes", len(data))
	contentType := "text/plain; charset=utf-8"
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &l.Bucket,
		Key:         &l.Key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", l, err)
	}
	return nil
}

// IsNotExist reports whether err means the location does not exist.
func IsNotExist(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

// StaticCredentials is a convenience for fixed access keys.
func StaticCredentials(id, secret string) aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(id, secret, "")
}
