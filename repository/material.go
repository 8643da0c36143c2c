package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
)

type MaterialRepository struct {
	db *gorm.DB
}

// Create inserts the metadata row for a stored object. A second insert for
// the same storage path trips the unique index and surfaces as a conflict.
func (r *MaterialRepository) Create(material *entity.Material) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	if err := r.db.Create(material).Error; err != nil {
		return translateCreateError(err, material.StoragePath)
	}
	return nil
}

// translateCreateError maps the driver's duplicate-key signal onto the
// conflict type callers switch on; anything else passes through.
func translateCreateError(err error, storagePath string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &storage.ConflictError{StoragePath: storagePath}
	}
	return err
}

func (r *MaterialRepository) FindByID(id uuid.UUID) (*entity.Material, error) {
	var material entity.Material
	err := r.db.Where("id = ?", id).First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) FindByStoragePath(path string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.Where("storage_path = ?", path).First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) ListByCourse(courseID string, limit, offset int) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) IncrementDownloads(id uuid.UUID) error {
	return r.db.Model(&entity.Material{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1)).Error
}

// MigrationCandidates returns primary-tier materials old enough and either
// cold (few downloads) or large, ordered oldest first so repeated sweeps
// make forward progress.
func (r *MaterialRepository) MigrationCandidates(olderThan time.Time, maxDownloads, minSizeBytes int64) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.
		Where("storage_location = ?", entity.StorageLocationPrimary).
		Where("created_at < ?", olderThan).
		Where("downloads < ? OR file_size > ?", maxDownloads, minSizeBytes).
		Order("created_at ASC").
		Find(&materials).Error
	return materials, err
}

// UpdateStoragePointer atomically repoints a material at its migrated copy.
// Single UPDATE so readers see either the old location or the new one,
// never a half-moved row.
func (r *MaterialRepository) UpdateStoragePointer(id uuid.UUID, location entity.StorageLocation, path, url string) error {
	return r.db.Model(&entity.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"storage_location": location,
			"storage_path":     path,
			"file_url":         url,
		}).Error
}
