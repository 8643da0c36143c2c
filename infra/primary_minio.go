package infra

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
)

// PrimaryClient talks to the capacity-limited MinIO tier. It carries both
// the S3 client for object I/O and the admin client for cluster usage
// numbers the sweeper reports against.
type PrimaryClient struct {
	Client *minio.Client
	Admin  *madmin.AdminClient
	Bucket string

	baseURL string
}

func InitPrimaryClient(cfg *config.EnvConfig) *PrimaryClient {
	if cfg.Primary.Endpoint == "" {
		log.Fatal("PRIMARY_MINIO_ENDPOINT is required")
	}

	creds := credentials.NewStaticV4(cfg.Primary.AccessKey, cfg.Primary.SecretKey, "")
	client, err := minio.New(cfg.Primary.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.Primary.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to create primary store client: %v", err)
	}

	admin, err := madmin.NewWithOptions(cfg.Primary.Endpoint, &madmin.Options{
		Creds:  creds,
		Secure: cfg.Primary.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to create primary store admin client: %v", err)
	}

	scheme := "http"
	if cfg.Primary.UseSSL {
		scheme = "https"
	}

	return &PrimaryClient{
		Client:  client,
		Admin:   admin,
		Bucket:  cfg.Primary.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Primary.Endpoint, cfg.Primary.Bucket),
	}
}

// EnsureBucket creates the bucket if missing and opens it for anonymous
// reads so stored URLs resolve without signing.
func (p *PrimaryClient) EnsureBucket(ctx context.Context) error {
	exists, err := p.Client.BucketExists(ctx, p.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.Bucket, err)
	}
	if !exists {
		if err := p.Client.MakeBucket(ctx, p.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", p.Bucket, err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, p.Bucket)
	if err := p.Client.SetBucketPolicy(ctx, p.Bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", p.Bucket, err)
	}
	return nil
}

func (p *PrimaryClient) PutObject(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// GetObjectStream opens a read stream plus its stat size. Caller closes the
// stream.
func (p *PrimaryClient) GetObjectStream(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := p.Client.GetObject(ctx, p.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, err
	}
	return obj, stat.Size, nil
}

func (p *PrimaryClient) DeleteObject(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

func (p *PrimaryClient) PublicURL(key string) string {
	return p.baseURL + "/" + key
}

func (p *PrimaryClient) BaseURL() string {
	return p.baseURL
}

// Usage fetches the cluster data-usage report. The numbers lag real time
// (MinIO refreshes the report on a scanner cycle), good enough for sweep
// before/after accounting.
func (p *PrimaryClient) Usage(ctx context.Context) (madmin.DataUsageInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return p.Admin.DataUsageInfo(ctx)
}
