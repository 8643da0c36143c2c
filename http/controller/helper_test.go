package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
)

func newTestController() *Controller {
	return &Controller{
		Infra: &infra.Infra{Logger: infra.InitLoggerClient(&config.EnvConfig{})},
	}
}

func TestRespondStorageErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := newTestController()

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &storage.ValidationError{Field: "courseId", Reason: "required"}, http.StatusBadRequest},
		{"unsupported type", &storage.UnsupportedTypeError{ContentType: "application/zip"}, http.StatusBadRequest},
		{"too large", &storage.PayloadTooLargeError{Size: 99, Limit: 50}, http.StatusRequestEntityTooLarge},
		{"conflict", &storage.ConflictError{StoragePath: "uploads/x/y.pdf"}, http.StatusConflict},
		{"write failure", &storage.StorageWriteError{Location: "primary", Err: errors.New("down")}, http.StatusInternalServerError},
		{"metadata failure", &storage.StorageMetadataError{Err: errors.New("db down")}, http.StatusInternalServerError},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ctrl.respondStorageError(context.Background(), c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if !strings.Contains(w.Body.String(), "error") {
				t.Fatalf("body %q missing error field", w.Body.String())
			}
		})
	}
}

// A repeat finalize for an already-recorded storage path must come back as
// a conflict the client can distinguish from a transient failure.
func TestRespondStorageErrorDuplicateFinalizeIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := newTestController()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	key := "uploads/1700000000000-abc12345/notes.pdf"
	ctrl.respondStorageError(context.Background(), c, &storage.ConflictError{StoragePath: key})

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), key) {
		t.Fatalf("conflict body %q should name the contested key", w.Body.String())
	}
}
