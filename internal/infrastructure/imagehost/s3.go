package imagehost

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// S3API is the part of the S3 client the image host uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from; derived from bucket and region when empty
}

// NewS3Client builds an S3 client. Static credentials are used when given, the default chain otherwise.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3 keeps images in an S3 compatible bucket.
type S3 struct {
	api     S3API
	bucket  string
	baseURL string
}

func NewS3(api S3API, cfg S3Config) (*S3, error) {
	if api == nil || cfg.Bucket == "" {
		return nil, errors.New("s3 image host requires a client and a bucket")
	}
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3{api: api, bucket: cfg.Bucket, baseURL: base}, nil
}

func (h *S3) Upload(ctx context.Context, folder string, img application.ImageFile) (string, error) {
	key, _ := objectKey(folder, img.Filename)
	in := &s3.PutObjectInput{
		Bucket:       aws.String(h.bucket),
		Key:          aws.String(key),
		Body:         img.Body,
		CacheControl: aws.String(helpers.ImageCacheControl),
	}
	if img.ContentType != "" {
		in.ContentType = aws.String(img.ContentType)
	}
	if _, err := h.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return h.baseURL + "/" + key, nil
}

func (h *S3) Delete(ctx context.Context, folder, publicID string) error {
	prefix := objectPrefix(folder, publicID)
	out, err := h.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(h.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return fmt.Errorf("s3 list %s: %w", prefix, err)
	}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if !matchesPublicID(key, prefix) {
			continue
		}
		if _, err := h.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(h.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return fmt.Errorf("s3 delete %s: %w", key, err)
		}
	}
	return nil
}

var _ application.ImageHost = (*S3)(nil)
