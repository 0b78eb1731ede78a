package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/klauspost/compress/zstd"

	apperrors "github.com/PabloBorneman/whatsapp-bot-railway/internal/errors"
)

// S3Config holds object-storage configuration. Works with any
// S3-compatible endpoint, including Cloudflare R2.
type S3Config struct {
	Endpoint    string // e.g. https://account-id.r2.cloudflarestorage.com
	AccessKeyID string
	SecretKey   string
	Bucket      string
	Key         string // object key; keys ending in .zst are zstd-compressed
}

// S3Source fetches the catalog from S3-compatible object storage.
type S3Source struct {
	s3     *s3.Client
	bucket string
	key    string
}

// NewS3Source creates an object-storage catalog source.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.New("catalog: all s3 config fields are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Required for R2
	})

	return &S3Source{
		s3:     client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
	}, nil
}

// Fetch downloads the catalog object, decompressing it when the key
// indicates a zstd payload.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	result, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isObjectNotFound(err) {
			return nil, fmt.Errorf("%w: object %q", apperrors.ErrNotFound, s.key)
		}
		return nil, fmt.Errorf("catalog: download %q: %w", s.key, err)
	}
	defer result.Body.Close()

	var reader io.Reader = result.Body
	if strings.HasSuffix(s.key, ".zst") {
		decoder, err := zstd.NewReader(result.Body)
		if err != nil {
			return nil, fmt.Errorf("catalog: create decoder: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", s.key, err)
	}
	return data, nil
}

// Describe identifies the source for logs.
func (s *S3Source) Describe() string {
	return "s3:" + s.bucket + "/" + s.key
}

func isObjectNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}
	return false
}
