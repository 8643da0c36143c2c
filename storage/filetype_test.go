package storage

import (
	"strings"
	"testing"
	"time"
)

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{ContentTypePDF, FileTypePDF},
		{ContentTypeDocx, FileTypeDocx},
		{ContentTypePptx, FileTypePresentation},
		{ContentTypePNG, FileTypeImage},
		{ContentTypeJPEG, FileTypeImage},
		{"application/zip", FileTypeOther},
		{"", FileTypeOther},
		// Legacy powerpoint has no "presentation" segment in its MIME type.
		{ContentTypePpt, FileTypeOther},
	}
	for _, tc := range cases {
		if got := ClassifyContentType(tc.contentType); got != tc.want {
			t.Errorf("ClassifyContentType(%q) = %q, want %q", tc.contentType, got, tc.want)
		}
	}
}

func TestAllowLists(t *testing.T) {
	if !InlineTypeAllowed(ContentTypePDF) {
		t.Error("pdf should be allowed inline")
	}
	if InlineTypeAllowed(ContentTypePNG) {
		t.Error("images are direct-upload only")
	}
	if !PresignTypeAllowed(ContentTypePNG) {
		t.Error("png should be allowed for direct upload")
	}
	if PresignTypeAllowed("application/x-msdownload") {
		t.Error("executables must never be allowed")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"CS 101 week 3.pdf", "CS101week3.pdf"},
		{"../../etc/passwd", "....etcpasswd"},
		{"résumé.pdf", "rsum.pdf"},
		{"a/b\\c?.docx", "abc.docx"},
		{"日本語", "file"},
		{"", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOverflowObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	key := OverflowObjectKey("lecture notes.pdf", now)

	if !strings.HasPrefix(key, "uploads/1700000000000-") {
		t.Fatalf("key %q missing uploads/{millis}- prefix", key)
	}
	if !strings.HasSuffix(key, "/lecturenotes.pdf") {
		t.Fatalf("key %q missing sanitized filename segment", key)
	}
	for _, r := range key {
		if r == ' ' || r == '\\' {
			t.Fatalf("key %q contains unsafe character %q", key, r)
		}
	}

	// The random token must keep same-name same-millisecond uploads apart.
	other := OverflowObjectKey("lecture notes.pdf", now)
	if key == other {
		t.Fatalf("two keys for the same name collided: %q", key)
	}
}

func TestPrimaryObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	key := PrimaryObjectKey("cs101", "week 1.pdf", now)
	want := "courses/cs101/1700000000000-week1.pdf"
	if key != want {
		t.Fatalf("PrimaryObjectKey = %q, want %q", key, want)
	}
}
