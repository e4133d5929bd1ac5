package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// maxDimension bounds stored photos to 800x800, keeping the aspect ratio
const maxDimension = 800

// ObjectAPI is the subset of the S3 client the provider uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Provider stores photos in an S3 bucket. References are object keys.
type S3Provider struct {
	client    ObjectAPI
	bucket    string
	prefix    string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// NewS3Provider loads AWS credentials from the default chain
func NewS3Provider(ctx context.Context, cfg config.StorageConfig) (*S3Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	if cfg.S3PublicURL == "" {
		cfg.S3PublicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, awsCfg.Region)
	}

	log.Printf("✅ S3 photo storage at s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
	return NewS3ProviderWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewS3ProviderWithClient wires an existing client
func NewS3ProviderWithClient(client ObjectAPI, cfg config.StorageConfig) *S3Provider {
	return &S3Provider{
		client:    client,
		bucket:    cfg.S3Bucket,
		prefix:    cfg.S3Prefix,
		publicURL: cfg.S3PublicURL,
		maxBytes:  cfg.MaxUploadBytes,
		now:       time.Now,
	}
}

// Store uploads the photo, shrinking it to fit 800x800 first
func (p *S3Provider) Store(ctx context.Context, upload Upload) (*domain.Attachment, error) {
	img, err := readImage(upload, p.maxBytes)
	if err != nil {
		return nil, err
	}

	body := limitDimensions(img)
	key := fmt.Sprintf("%spunch-%d-%s%s", p.prefix, p.now().UnixMilli(), uuid.NewString(), img.ext)

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(img.mime),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: put object %s to bucket %s: %w", domain.ErrInternal, key, p.bucket, err)
	}

	return &domain.Attachment{
		Reference: key,
		URL:       p.publicURL + "/" + key,
	}, nil
}

// Delete removes an object; S3 treats missing keys as success
func (p *S3Provider) Delete(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}

	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(reference),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", reference, p.bucket, err)
	}
	return nil
}

// limitDimensions re-encodes oversized images. Formats imaging cannot
// decode or encode are passed through untouched.
func limitDimensions(img *photo) []byte {
	format, err := imaging.FormatFromExtension(img.ext)
	if err != nil {
		return img.data
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.data), imaging.AutoOrientation(true))
	if err != nil {
		return img.data
	}

	bounds := decoded.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return img.data
	}

	resized := imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return img.data
	}
	return buf.Bytes()
}
