package controller

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
	"github.com/Jason-Gitau/jkuat-course-hub/infra/produce"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
	"github.com/Jason-Gitau/jkuat-course-hub/utils"
)

const materialCacheTTL = 10 * time.Minute

func materialCacheKey(id uuid.UUID) string {
	return "material:" + id.String()
}

// UploadMaterial handles the server-mediated path: multipart file in, one
// object write plus one metadata row out.
func (ctrl *Controller) UploadMaterial(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSON400(c, "file is required")
		return
	}
	courseID := c.PostForm("course_id")
	title := c.PostForm("title")
	if courseID == "" {
		utils.JSON400(c, "course_id is required")
		return
	}
	if title == "" {
		utils.JSON400(c, "title is required")
		return
	}

	// Size and type gate before the body is even read into memory. Inline
	// oversize is a validation failure, matching what the selector itself
	// would return for the same buffer.
	maxSize := ctrl.Config.EnvConfig.Upload.MaxFileSize
	if fileHeader.Size > maxSize {
		utils.JSON400(c, (&storage.ValidationError{
			Field:  "fileSize",
			Reason: (&storage.PayloadTooLargeError{Size: fileHeader.Size, Limit: maxSize}).Error(),
		}).Error())
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.InlineTypeAllowed(contentType) {
		utils.JSON400(c, (&storage.UnsupportedTypeError{ContentType: contentType}).Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSON400(c, "failed to read uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.JSON400(c, "failed to read uploaded file")
		return
	}

	compress := c.DefaultPostForm("compress", "true") == "true"
	result, err := ctrl.Selector.Upload(ctx, courseID, fileHeader.Filename, contentType, data, compress)
	if err != nil {
		ctrl.respondStorageError(ctx, c, err)
		return
	}

	material := &entity.Material{
		ID:               uuid.New(),
		Title:            title,
		Description:      c.PostForm("description"),
		CourseID:         courseID,
		FileName:         fileHeader.Filename,
		ContentType:      contentType,
		FileType:         storage.ClassifyContentType(contentType),
		FileSize:         result.FileSize,
		StorageLocation:  result.StorageLocation,
		StoragePath:      result.StoragePath,
		FileURL:          result.URL,
		Compressed:       result.Compressed,
		MaterialCategory: c.PostForm("material_category"),
		ApprovalStatus:   entity.ApprovalStatusPending,
	}
	if topicID := c.PostForm("topic_id"); topicID != "" {
		material.TopicID = &topicID
	}
	if weekStr := c.PostForm("week_number"); weekStr != "" {
		if week, err := strconv.Atoi(weekStr); err == nil {
			material.WeekNumber = &week
		}
	}
	if raw := c.PostForm("category_metadata"); raw != "" && json.Valid([]byte(raw)) {
		material.CategoryMetadata = datatypes.JSON(raw)
	}
	applyIdentity(c, material)

	if err := ctrl.Repository.MaterialRepo.Create(material); err != nil {
		// The object is durable but unrecorded; hand it to the cleanup
		// consumer instead of leaking it.
		cleanupErr := ctrl.Infra.Produce.Material.PublishCleanupObject(ctx, produce.CleanupObjectMessage{
			StorageLocation: string(result.StorageLocation),
			StoragePath:     result.StoragePath,
			Reason:          "metadata insert failed after upload",
			Timestamp:       time.Now().UnixMilli(),
		})
		if cleanupErr != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, cleanupErr,
				"orphaned object %s on %s store: cleanup publish also failed",
				result.StoragePath, result.StorageLocation)
		}
		ctrl.respondStorageError(ctx, c, &storage.StorageMetadataError{Err: err})
		return
	}

	ctrl.publishMaterialCreated(c, material)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "material %s uploaded to %s store (%d bytes, compressed=%v)",
		material.ID, material.StorageLocation, material.FileSize, material.Compressed)

	utils.JSON201(c, gin.H{"success": true, "material": material})
}

// ListCourseMaterials pages through a course's materials, newest first.
func (ctrl *Controller) ListCourseMaterials(c *gin.Context) {
	ctx := c.Request.Context()

	courseID := c.Param("courseId")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	materials, err := ctrl.Repository.MaterialRepo.ListByCourse(courseID, limit, offset)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "failed to list materials for course %s", courseID)
		utils.JSON500(c, "failed to list materials")
		return
	}

	utils.JSON200(c, gin.H{"success": true, "materials": materials})
}

// GetMaterial serves one material row, cache-aside through Redis.
func (ctrl *Controller) GetMaterial(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "invalid material id")
		return
	}

	cacheKey := materialCacheKey(id)
	if cached, err := ctrl.Infra.Redis.Get(ctx, cacheKey); err == nil && cached != "" {
		var material entity.Material
		if json.Unmarshal([]byte(cached), &material) == nil {
			utils.JSON200(c, gin.H{"success": true, "material": material})
			return
		}
	}

	material, err := ctrl.Repository.MaterialRepo.FindByID(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "failed to load material %s", id)
		utils.JSON500(c, "failed to load material")
		return
	}
	if material == nil {
		utils.JSON404(c, "material not found")
		return
	}

	if payload, err := json.Marshal(material); err == nil {
		if err := ctrl.Infra.Redis.Set(ctx, cacheKey, payload, materialCacheTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "failed to cache material %s: %v", id, err)
		}
	}

	utils.JSON200(c, gin.H{"success": true, "material": material})
}

// DownloadMaterial bumps the popularity counter and redirects to the
// object's public URL. The counter write is best effort; a failed bump
// never blocks the download.
func (ctrl *Controller) DownloadMaterial(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "invalid material id")
		return
	}

	material, err := ctrl.Repository.MaterialRepo.FindByID(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "failed to load material %s", id)
		utils.JSON500(c, "failed to load material")
		return
	}
	if material == nil {
		utils.JSON404(c, "material not found")
		return
	}

	if err := ctrl.Repository.MaterialRepo.IncrementDownloads(id); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "failed to count download for %s: %v", id, err)
	}
	if err := ctrl.Infra.Redis.Delete(ctx, materialCacheKey(id)); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "failed to invalidate cache for %s: %v", id, err)
	}

	utils.JSON302(c, material.FileURL)
}

func applyIdentity(c *gin.Context, material *entity.Material) {
	identity, ok := utils.GetIdentityFromContext(c)
	if !ok || identity == nil {
		return
	}
	material.UploaderID = &identity.UserID
	if identity.Name != "" {
		material.UploaderName = &identity.Name
	}
	if identity.CourseID != "" {
		material.UploaderCourse = &identity.CourseID
	}
	if identity.Year > 0 {
		year := identity.Year
		material.UploaderYear = &year
	}
}

func (ctrl *Controller) publishMaterialCreated(c *gin.Context, material *entity.Material) {
	ctx := c.Request.Context()
	msg := produce.MaterialCreatedMessage{
		MaterialID:      material.ID.String(),
		Title:           material.Title,
		CourseID:        material.CourseID,
		FileType:        material.FileType,
		FileSize:        material.FileSize,
		StorageLocation: string(material.StorageLocation),
		StoragePath:     material.StoragePath,
		Timestamp:       time.Now().UnixMilli(),
	}
	if material.UploaderID != nil {
		msg.UploaderID = material.UploaderID.String()
	}
	if err := ctrl.Infra.Produce.Material.PublishMaterialCreated(ctx, msg); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "failed to publish material.created for %s: %v", material.ID, err)
	}
}
