package controller

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
	"github.com/Jason-Gitau/jkuat-course-hub/http/controller/dto"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
	"github.com/Jason-Gitau/jkuat-course-hub/utils"
)

// PresignUpload issues a time-limited direct-upload URL against the
// overflow store. Nothing durable happens here; abandoned intents cost
// nothing.
func (ctrl *Controller) PresignUpload(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Signer == nil {
		utils.JSON500(c, "direct uploads are not configured")
		return
	}

	var req dto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "invalid request body")
		return
	}

	intent, err := ctrl.Signer.Issue(ctx, req.FileName, req.ContentType, req.FileSize)
	if err != nil {
		ctrl.respondStorageError(ctx, c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"success":   true,
		"uploadUrl": intent.UploadURL,
		"key":       intent.Key,
		"bucket":    intent.Bucket,
		"expiresAt": intent.ExpiresAt,
	})
}

// CompleteUpload finalizes a direct upload: trusts the client's claim that
// the object exists at key and records the metadata row in a single insert.
// No round-trip to the store; a finalize against a never-uploaded key
// yields a row whose URL 404s at download time.
func (ctrl *Controller) CompleteUpload(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Infra.Overflow == nil {
		utils.JSON500(c, "direct uploads are not configured")
		return
	}

	var req dto.CompleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "invalid request body")
		return
	}
	if req.Key == "" {
		utils.JSON400(c, "key is required")
		return
	}
	if req.CourseID == "" {
		utils.JSON400(c, "courseId is required")
		return
	}
	if req.Title == "" {
		utils.JSON400(c, "title is required")
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = req.Key
	}

	material := &entity.Material{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		CourseID:         req.CourseID,
		FileName:         fileName,
		ContentType:      req.ContentType,
		FileType:         storage.ClassifyContentType(req.ContentType),
		FileSize:         req.FileSize,
		StorageLocation:  entity.StorageLocationOverflow,
		StoragePath:      req.Key,
		FileURL:          ctrl.Infra.Overflow.PublicURL(req.Key),
		MaterialCategory: req.MaterialCategory,
		WeekNumber:       req.WeekNumber,
		ApprovalStatus:   entity.ApprovalStatusPending,
	}
	if req.TopicID != "" {
		material.TopicID = &req.TopicID
	}
	if len(req.CategoryMetadata) > 0 && json.Valid(req.CategoryMetadata) {
		material.CategoryMetadata = datatypes.JSON(req.CategoryMetadata)
	}
	applyIdentity(c, material)
	if material.UploaderName == nil && req.UploaderName != "" {
		material.UploaderName = &req.UploaderName
	}

	if err := ctrl.Repository.MaterialRepo.Create(material); err != nil {
		var conflict *storage.ConflictError
		if errors.As(err, &conflict) {
			utils.JSON409(c, conflict.Error())
			return
		}
		ctrl.respondStorageError(ctx, c, &storage.StorageMetadataError{Err: err})
		return
	}

	ctrl.publishMaterialCreated(c, material)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "material %s finalized at %s (%d bytes reported)",
		material.ID, material.StoragePath, material.FileSize)

	utils.JSON200(c, gin.H{"success": true, "material": material})
}
