package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
)

// OverflowClient talks to the egress-unlimited S3-compatible tier (R2 or
// any S3 clone). Optional: services run with a nil client when no overflow
// credentials are configured, and uploads stay on the primary tier.
type OverflowClient struct {
	Client  *s3.Client
	Presign *s3.PresignClient
	Bucket  string

	publicBaseURL string
}

func NewOverflowClient(cfg *config.EnvConfig) (*OverflowClient, error) {
	if !cfg.OverflowConfigured() {
		return nil, errors.New("overflow store credentials not set")
	}

	endpoint := cfg.Overflow.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Overflow.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Overflow.AccessKey, cfg.Overflow.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load overflow store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	publicBaseURL := cfg.Overflow.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + cfg.Overflow.Bucket
	}

	return &OverflowClient{
		Client:        client,
		Presign:       s3.NewPresignClient(client),
		Bucket:        cfg.Overflow.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (o *OverflowClient) PutObject(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	_, err := o.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.Bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (o *OverflowClient) DeleteObject(ctx context.Context, key string) error {
	_, err := o.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// PresignPutObject signs a time-limited PUT URL for one key and content
// type; the signature pins both, so the browser must send them unchanged.
func (o *OverflowClient) PresignPutObject(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	req, err := o.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (o *OverflowClient) PublicURL(key string) string {
	return o.publicBaseURL + "/" + key
}

func (o *OverflowClient) BaseURL() string {
	return o.publicBaseURL
}
