package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakePresigner struct {
	err   error
	calls int
	key   string
}

func (f *fakePresigner) PresignPutObject(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.calls++
	f.key = key
	if f.err != nil {
		return "", f.err
	}
	return "https://r2.example.com/" + key + "?X-Amz-Signature=abc", nil
}

func newTestSigner(p PutURLSigner) *Signer {
	return NewSigner(SignerConfig{
		MaxFileSize: 1000,
		Bucket:      "course-materials-overflow",
		Expiry:      time.Hour,
	}, p)
}

func TestSignerIssue(t *testing.T) {
	p := &fakePresigner{}
	s := newTestSigner(p)
	before := time.Now()

	intent, err := s.Issue(context.Background(), "week 1 notes.pdf", ContentTypePDF, 500)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(intent.Key, "uploads/") {
		t.Errorf("key %q must use the uploads/ prefix", intent.Key)
	}
	if !strings.HasSuffix(intent.Key, "/week1notes.pdf") {
		t.Errorf("key %q must end with the sanitized filename", intent.Key)
	}
	if intent.Key != p.key {
		t.Errorf("signed key %q differs from returned key %q", p.key, intent.Key)
	}
	if intent.Bucket != "course-materials-overflow" {
		t.Errorf("bucket = %q", intent.Bucket)
	}
	if intent.ExpiresAt.Before(before.Add(time.Hour)) || intent.ExpiresAt.After(time.Now().Add(time.Hour)) {
		t.Errorf("ExpiresAt %v not ~1h from issuance", intent.ExpiresAt)
	}
}

func TestSignerRejectsBeforeSigning(t *testing.T) {
	cases := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		check       func(error) bool
	}{
		{"missing filename", "", ContentTypePDF, 10, func(err error) bool {
			var ve *ValidationError
			return errors.As(err, &ve)
		}},
		{"missing content type", "a.pdf", "", 10, func(err error) bool {
			var ve *ValidationError
			return errors.As(err, &ve)
		}},
		{"zero size", "a.pdf", ContentTypePDF, 0, func(err error) bool {
			var ve *ValidationError
			return errors.As(err, &ve)
		}},
		{"oversize", "a.pdf", ContentTypePDF, 1001, func(err error) bool {
			var ptl *PayloadTooLargeError
			return errors.As(err, &ptl)
		}},
		{"bad type", "a.exe", "application/x-msdownload", 10, func(err error) bool {
			var ute *UnsupportedTypeError
			return errors.As(err, &ute)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakePresigner{}
			s := newTestSigner(p)
			_, err := s.Issue(context.Background(), tc.filename, tc.contentType, tc.size)
			if err == nil || !tc.check(err) {
				t.Fatalf("got %v (%T)", err, err)
			}
			if p.calls != 0 {
				t.Fatal("rejected request must not reach the signer backend")
			}
		})
	}
}

func TestSignerBackendFailure(t *testing.T) {
	p := &fakePresigner{err: errors.New("credentials expired")}
	s := newTestSigner(p)

	_, err := s.Issue(context.Background(), "a.pdf", ContentTypePDF, 10)
	var swe *StorageWriteError
	if !errors.As(err, &swe) {
		t.Fatalf("got %T, want *StorageWriteError", err)
	}
}
