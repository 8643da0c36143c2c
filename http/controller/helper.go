package controller

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jason-Gitau/jkuat-course-hub/storage"
	"github.com/Jason-Gitau/jkuat-course-hub/utils"
)

// respondStorageError maps the storage error taxonomy onto HTTP statuses.
// Validation and type failures are the client's fault; write and metadata
// failures are ours and get logged with the cause.
func (ctrl *Controller) respondStorageError(ctx context.Context, c *gin.Context, err error) {
	var (
		validationErr   *storage.ValidationError
		unsupportedErr  *storage.UnsupportedTypeError
		tooLargeErr     *storage.PayloadTooLargeError
		writeErr        *storage.StorageWriteError
		metadataErr     *storage.StorageMetadataError
		conflictErr     *storage.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.JSON400(c, validationErr.Error())
	case errors.As(err, &unsupportedErr):
		utils.JSON400(c, unsupportedErr.Error())
	case errors.As(err, &tooLargeErr):
		utils.JSON413(c, tooLargeErr.Error())
	case errors.As(err, &conflictErr):
		utils.JSON409(c, conflictErr.Error())
	case errors.As(err, &writeErr):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "object write failed on %s store", writeErr.Location)
		utils.JSON500(c, "failed to store file")
	case errors.As(err, &metadataErr):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "metadata persistence failed")
		utils.JSON500(c, "failed to record file metadata")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "unexpected storage error")
		utils.JSON500(c, "internal server error")
	}
}
