package storage

import (
	"context"
	"time"
)

// PutURLSigner is the slice of the overflow client the issuer needs: a
// time-limited PUT URL for one key.
type PutURLSigner interface {
	PresignPutObject(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
}

// UploadIntent is the contract handed to the browser for a direct upload.
// Issuing one writes nothing anywhere; a client may abandon it freely.
type UploadIntent struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	Bucket    string    `json:"bucket"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SignerConfig struct {
	MaxFileSize int64
	Bucket      string
	Expiry      time.Duration
}

// Signer issues pre-signed PUT intents against the overflow store. The size
// check here is advisory (the declared size is client-reported); the store's
// own limits are the real enforcement for direct uploads.
type Signer struct {
	cfg       SignerConfig
	presigner PutURLSigner
	now       func() time.Time
}

func NewSigner(cfg SignerConfig, presigner PutURLSigner) *Signer {
	return &Signer{cfg: cfg, presigner: presigner, now: time.Now}
}

func (s *Signer) Issue(ctx context.Context, filename, contentType string, fileSize int64) (*UploadIntent, error) {
	if filename == "" {
		return nil, &ValidationError{Field: "fileName", Reason: "required"}
	}
	if contentType == "" {
		return nil, &ValidationError{Field: "contentType", Reason: "required"}
	}
	if fileSize <= 0 {
		return nil, &ValidationError{Field: "fileSize", Reason: "must be a positive byte count"}
	}
	if fileSize > s.cfg.MaxFileSize {
		return nil, &PayloadTooLargeError{Size: fileSize, Limit: s.cfg.MaxFileSize}
	}
	if !PresignTypeAllowed(contentType) {
		return nil, &UnsupportedTypeError{ContentType: contentType}
	}

	issuedAt := s.now()
	key := OverflowObjectKey(filename, issuedAt)
	url, err := s.presigner.PresignPutObject(ctx, key, contentType, s.cfg.Expiry)
	if err != nil {
		return nil, &StorageWriteError{Location: "overflow", Err: err}
	}

	return &UploadIntent{
		UploadURL: url,
		Key:       key,
		Bucket:    s.cfg.Bucket,
		ExpiresAt: issuedAt.Add(s.cfg.Expiry),
	}, nil
}
