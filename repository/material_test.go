package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/Jason-Gitau/jkuat-course-hub/storage"
)

func TestTranslateCreateErrorDuplicateKey(t *testing.T) {
	key := "uploads/1700000000000-abc12345/notes.pdf"

	err := translateCreateError(gorm.ErrDuplicatedKey, key)
	var conflict *storage.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %T, want *storage.ConflictError", err)
	}
	if conflict.StoragePath != key {
		t.Errorf("StoragePath = %q, want %q", conflict.StoragePath, key)
	}

	// Wrapped duplicate-key errors translate too.
	wrapped := fmt.Errorf("insert material: %w", gorm.ErrDuplicatedKey)
	if !errors.As(translateCreateError(wrapped, key), &conflict) {
		t.Fatal("wrapped duplicate-key error must still surface as a conflict")
	}
}

func TestTranslateCreateErrorPassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")

	err := translateCreateError(cause, "uploads/x/y.pdf")
	if err != cause {
		t.Fatalf("got %v, want the original error", err)
	}
	var conflict *storage.ConflictError
	if errors.As(err, &conflict) {
		t.Fatal("non-duplicate errors must not become conflicts")
	}
}
