package dto

import "encoding/json"

// PresignUploadRequest asks for a time-limited direct-upload URL. FileSize
// is the client's declared size; it gates issuance but the store enforces
// nothing beyond the signature.
type PresignUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// CompleteUploadRequest finalizes a direct upload: the client claims it PUT
// the object at Key and hands over the metadata for the catalog row.
type CompleteUploadRequest struct {
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`

	CourseID    string `json:"courseId"`
	TopicID     string `json:"topicId"`
	Title       string `json:"title"`
	Description string `json:"description"`

	UploaderName string `json:"uploaderName"`

	MaterialCategory string          `json:"materialCategory"`
	CategoryMetadata json.RawMessage `json:"categoryMetadata"`
	WeekNumber       *int            `json:"weekNumber"`
}
