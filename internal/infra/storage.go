package infra

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"linkbio/internal/config"
)

// Presigner issues time-limited PUT urls for direct browser uploads.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type s3Presigner struct {
	bucket string
	client *s3.PresignClient
}

// NewS3Presigner targets any S3-compatible endpoint (R2, MinIO, AWS).
func NewS3Presigner(cfg config.Config) (Presigner, error) {
	storage := cfg.Storage

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(storage.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(storage.AccessKeyID, storage.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Presigner{
		bucket: storage.Bucket,
		client: s3.NewPresignClient(client),
	}, nil
}

func (p *s3Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if p.bucket == "" {
		return "", errors.New("storage bucket not configured")
	}
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
