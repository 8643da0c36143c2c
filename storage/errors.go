package storage

import "fmt"

// ValidationError reports missing or malformed client input. Never retried,
// maps to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnsupportedTypeError reports a content type outside the allow-list.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported content type: %s", e.ContentType)
}

// PayloadTooLargeError reports a file size above the configured ceiling.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit of %d bytes", e.Size, e.Limit)
}

// StorageWriteError wraps a failed object write against a backend. The
// operation has no partial state: no metadata row exists for the object.
type StorageWriteError struct {
	Location string
	Err      error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write to %s store failed: %v", e.Location, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// StorageMetadataError wraps a failed metadata insert or update after the
// object bytes were already written. The object is left orphaned; cleanup is
// a compensating action, not a rollback.
type StorageMetadataError struct {
	Err error
}

func (e *StorageMetadataError) Error() string {
	return fmt.Sprintf("metadata persistence failed: %v", e.Err)
}

func (e *StorageMetadataError) Unwrap() error { return e.Err }

// ConflictError reports a finalize call for a storage path that already has
// a metadata row. Re-finalizing the same key is a detected conflict, not a
// duplicate row.
type ConflictError struct {
	StoragePath string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("material already recorded for storage path %s", e.StoragePath)
}
