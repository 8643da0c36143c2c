package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StorageLocation identifies which object store holds the bytes of a material.
type StorageLocation string

const (
	StorageLocationPrimary  StorageLocation = "primary"
	StorageLocationOverflow StorageLocation = "overflow"
)

// ApprovalStatus is the admin-review lifecycle of a material. The storage
// core only ever writes the initial pending state; approval transitions
// belong to the admin subsystem.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Material is the durable metadata row for one stored course document.
// Created exactly once at finalize time (or inline at upload time); the
// storage core never mutates it afterwards except for the download counter
// and the sweeper's storage-pointer rewrite.
type Material struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(512);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CourseID    string    `json:"course_id" gorm:"type:varchar(128);not null;index"`
	TopicID     *string   `json:"topic_id,omitempty" gorm:"type:varchar(128);index"`

	// Uploader attribution is best-effort: all of these stay NULL for
	// anonymous uploads.
	UploaderID     *uuid.UUID `json:"uploader_id,omitempty" gorm:"type:uuid;index"`
	UploaderName   *string    `json:"uploader_name,omitempty" gorm:"type:varchar(255)"`
	UploaderCourse *string    `json:"uploader_course,omitempty" gorm:"type:varchar(128)"`
	UploaderYear   *int       `json:"uploader_year,omitempty"`

	FileName        string          `json:"file_name" gorm:"type:varchar(512);not null"`
	ContentType     string          `json:"content_type" gorm:"type:varchar(255)"`
	FileType        string          `json:"file_type" gorm:"type:varchar(32);not null"`
	FileSize        int64           `json:"file_size" gorm:"not null"`
	StorageLocation StorageLocation `json:"storage_location" gorm:"type:varchar(16);not null;index"`
	StoragePath     string          `json:"storage_path" gorm:"type:varchar(1024);not null;uniqueIndex"`
	FileURL         string          `json:"file_url" gorm:"type:varchar(2048);not null"`
	Compressed      bool            `json:"compressed" gorm:"not null;default:false"`

	MaterialCategory string         `json:"material_category" gorm:"type:varchar(64)"`
	CategoryMetadata datatypes.JSON `json:"category_metadata,omitempty" gorm:"type:jsonb"`
	WeekNumber       *int           `json:"week_number,omitempty"`

	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Downloads      int64          `json:"downloads" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
