package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Algorithm string
	}
	CORS struct {
		AllowDomains string
		GlobalDomain string
	}
	Redis struct {
		Password string
		Database int
		Host     string
		Port     string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Primary struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}
	Overflow struct {
		Endpoint      string // S3-compatible account endpoint (e.g. Cloudflare R2)
		AccessKey     string
		SecretKey     string
		Bucket        string
		Region        string
		PublicBaseURL string
	}
	Upload struct {
		MaxFileSize   int64 // Default 50MB (52428800 bytes)
		PresignExpiry time.Duration
	}
	Migration struct {
		MinAgeDays    int
		MaxDownloads  int64
		LargeObjectMB int64
		ItemDelay     time.Duration
		Workers       int
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}

	Environment struct {
		Mode  string
		Group string
	}
	DomainName string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.JWT.Algorithm = os.Getenv("JWT_ALGORITHM")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")
	config.CORS.GlobalDomain = os.Getenv("GLOBAL_DOMAIN")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.Host = os.Getenv("REDIS_HOST")
	config.Redis.Port = os.Getenv("REDIS_PORT")

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// Primary store (capacity-limited MinIO bucket)
	config.Primary.Endpoint = os.Getenv("PRIMARY_MINIO_ENDPOINT")
	config.Primary.AccessKey = os.Getenv("PRIMARY_MINIO_ACCESS_KEY")
	config.Primary.SecretKey = os.Getenv("PRIMARY_MINIO_SECRET_KEY")
	config.Primary.Bucket = os.Getenv("PRIMARY_MINIO_BUCKET")
	if config.Primary.Bucket == "" {
		config.Primary.Bucket = "course-materials"
	}
	config.Primary.UseSSL = os.Getenv("PRIMARY_MINIO_USE_SSL") == "true"

	// Overflow store (egress-unlimited, S3-compatible). Presence of
	// credentials is the backend-selection signal.
	config.Overflow.Endpoint = os.Getenv("OVERFLOW_S3_ENDPOINT")
	config.Overflow.AccessKey = os.Getenv("OVERFLOW_S3_ACCESS_KEY")
	config.Overflow.SecretKey = os.Getenv("OVERFLOW_S3_SECRET_KEY")
	config.Overflow.Bucket = os.Getenv("OVERFLOW_S3_BUCKET")
	if config.Overflow.Bucket == "" {
		config.Overflow.Bucket = "course-materials-overflow"
	}
	config.Overflow.Region = os.Getenv("OVERFLOW_S3_REGION")
	if config.Overflow.Region == "" {
		config.Overflow.Region = "auto"
	}
	config.Overflow.PublicBaseURL = strings.TrimSuffix(os.Getenv("OVERFLOW_PUBLIC_BASE_URL"), "/")

	// Upload limits
	if sizeStr := os.Getenv("UPLOAD_MAX_FILE_BYTES"); sizeStr != "" {
		if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil {
			config.Upload.MaxFileSize = size
		} else {
			config.Upload.MaxFileSize = 52428800 // Default 50MB
		}
	} else {
		config.Upload.MaxFileSize = 52428800 // Default 50MB
	}
	if expiryStr := os.Getenv("UPLOAD_PRESIGN_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.Upload.PresignExpiry = expiry
		}
	}
	if config.Upload.PresignExpiry == 0 {
		config.Upload.PresignExpiry = time.Hour
	}

	// Migration sweeper policy
	config.Migration.MinAgeDays = parseIntEnv("MIGRATION_MIN_AGE_DAYS", 60)
	config.Migration.MaxDownloads = int64(parseIntEnv("MIGRATION_MAX_DOWNLOADS", 5))
	config.Migration.LargeObjectMB = int64(parseIntEnv("MIGRATION_LARGE_OBJECT_MB", 10))
	config.Migration.Workers = parseIntEnv("MIGRATION_WORKERS", 2)
	if delayStr := os.Getenv("MIGRATION_ITEM_DELAY"); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			config.Migration.ItemDelay = delay
		}
	}
	if config.Migration.ItemDelay == 0 {
		config.Migration.ItemDelay = 2 * time.Second
	}

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "course-hub-storage"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.Environment.Group = os.Getenv("GROUP_NAME")
	if config.Environment.Group == "" {
		config.Environment.Group = "local"
	}

	config.DomainName = os.Getenv("DOMAIN_NAME")
	if config.DomainName == "" {
		config.DomainName = "localhost:8080"
	}

	return &config
}

// OverflowConfigured reports whether the overflow backend has usable
// credentials. Backend selection keys off this alone.
func (c *EnvConfig) OverflowConfigured() bool {
	return c.Overflow.Endpoint != "" && c.Overflow.AccessKey != "" && c.Overflow.SecretKey != ""
}

func parseIntEnv(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
