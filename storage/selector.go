package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
)

// ObjectWriter is the slice of an object-store client the selector needs:
// one durable write.
type ObjectWriter interface {
	PutObject(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
}

type SelectorConfig struct {
	MaxFileSize        int64
	OverflowConfigured bool
	// Public base URLs (scheme://host[/bucket], no trailing slash); the
	// download URL is base + "/" + key, never verified against the store.
	PrimaryBaseURL  string
	OverflowBaseURL string
}

// Selector routes a server-mediated upload to exactly one backend. The
// decision is static preference, not balancing: the overflow store, when
// configured, takes every inline write because the primary tier is
// capacity-limited.
type Selector struct {
	cfg        SelectorConfig
	primary    ObjectWriter
	overflow   ObjectWriter
	compressor Compressor
	now        func() time.Time
}

func NewSelector(cfg SelectorConfig, primary, overflow ObjectWriter, compressor Compressor) *Selector {
	return &Selector{
		cfg:        cfg,
		primary:    primary,
		overflow:   overflow,
		compressor: compressor,
		now:        time.Now,
	}
}

// UploadResult describes the single durable write the selector performed.
type UploadResult struct {
	URL             string
	StorageLocation entity.StorageLocation
	StoragePath     string
	FileSize        int64
	Compressed      bool
}

// Upload validates, optionally compresses, and writes the buffer to the
// selected backend. All validation happens before any store I/O; a returned
// error of type *StorageWriteError is the only case where a network call was
// attempted.
func (s *Selector) Upload(ctx context.Context, courseID, filename, contentType string, data []byte, compress bool) (*UploadResult, error) {
	if courseID == "" {
		return nil, &ValidationError{Field: "courseId", Reason: "required"}
	}
	if filename == "" {
		return nil, &ValidationError{Field: "fileName", Reason: "required"}
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return nil, &ValidationError{Field: "fileSize", Reason: (&PayloadTooLargeError{Size: int64(len(data)), Limit: s.cfg.MaxFileSize}).Error()}
	}
	if !InlineTypeAllowed(contentType) {
		return nil, &UnsupportedTypeError{ContentType: contentType}
	}

	compressed := false
	if compress && contentType == ContentTypePDF && s.compressor != nil {
		res := s.compressor.Compress(data)
		data = res.Data
		compressed = res.WasCompressed
	}

	location := entity.StorageLocationPrimary
	writer := s.primary
	baseURL := s.cfg.PrimaryBaseURL
	key := PrimaryObjectKey(courseID, filename, s.now())
	if s.cfg.OverflowConfigured && s.overflow != nil {
		location = entity.StorageLocationOverflow
		writer = s.overflow
		baseURL = s.cfg.OverflowBaseURL
		key = OverflowObjectKey(filename, s.now())
	}

	if err := writer.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, &StorageWriteError{Location: string(location), Err: err}
	}

	return &UploadResult{
		URL:             baseURL + "/" + key,
		StorageLocation: location,
		StoragePath:     key,
		FileSize:        int64(len(data)),
		Compressed:      compressed,
	}, nil
}
