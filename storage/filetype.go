package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePpt  = "application/vnd.ms-powerpoint"
	ContentTypePptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeWebP = "image/webp"
	ContentTypeGIF  = "image/gif"
)

const (
	FileTypePDF          = "pdf"
	FileTypeDocx         = "docx"
	FileTypePresentation = "pptx"
	FileTypeImage        = "image"
	FileTypeOther        = "other"
)

// inlineAllowedTypes is the allow-list for server-mediated uploads. Document
// formats only; images go through the direct-to-store path.
var inlineAllowedTypes = map[string]bool{
	ContentTypePDF:  true,
	ContentTypeDocx: true,
	ContentTypePpt:  true,
	ContentTypePptx: true,
}

// presignAllowedTypes is the allow-list for direct uploads. Superset of the
// inline list plus common image formats.
var presignAllowedTypes = map[string]bool{
	ContentTypePDF:  true,
	ContentTypeDocx: true,
	ContentTypePpt:  true,
	ContentTypePptx: true,
	ContentTypePNG:  true,
	ContentTypeJPEG: true,
	ContentTypeWebP: true,
	ContentTypeGIF:  true,
}

func InlineTypeAllowed(contentType string) bool {
	return inlineAllowedTypes[contentType]
}

func PresignTypeAllowed(contentType string) bool {
	return presignAllowedTypes[contentType]
}

// ClassifyContentType maps a MIME content type to the coarse file-type label
// stored on the material row. Substring matching on purpose: finalize trusts
// the client-reported content type and the label is display-level metadata,
// not an access-control decision.
func ClassifyContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "pdf"):
		return FileTypePDF
	case strings.Contains(contentType, "word"):
		return FileTypeDocx
	case strings.Contains(contentType, "presentation"):
		return FileTypePresentation
	case strings.Contains(contentType, "image"):
		return FileTypeImage
	default:
		return FileTypeOther
	}
}

// SanitizeFilename strips every byte outside [A-Za-z0-9._-] so the name is
// safe inside an object key and a URL path segment without encoding.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// PrimaryObjectKey builds the key for server-mediated writes to the primary
// store, grouped by course.
func PrimaryObjectKey(courseID, filename string, now time.Time) string {
	return fmt.Sprintf("courses/%s/%d-%s", courseID, now.UnixMilli(), SanitizeFilename(filename))
}

// OverflowObjectKey builds the key for overflow-store writes. The timestamp
// plus random token segment keeps concurrent uploads of identically named
// files from colliding.
func OverflowObjectKey(filename string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("uploads/%d-%s/%s", now.UnixMilli(), token, SanitizeFilename(filename))
}
