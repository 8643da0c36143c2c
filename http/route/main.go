package route

import (
	"github.com/gin-gonic/gin"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/http/controller"
	"github.com/Jason-Gitau/jkuat-course-hub/http/middleware"
)

func SetupRouter(ctrl *controller.Controller, cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = cfg.EnvConfig.Upload.MaxFileSize

	router.Use(middleware.CORSMiddleware(cfg.EnvConfig))
	router.Use(middleware.IdentityMiddleware(cfg.EnvConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		materials := apiV1.Group("/materials")
		{
			materials.POST("/upload", ctrl.UploadMaterial)
			materials.GET("/:id", ctrl.GetMaterial)
			materials.GET("/:id/download", ctrl.DownloadMaterial)
		}

		apiV1.GET("/courses/:courseId/materials", ctrl.ListCourseMaterials)

		uploads := apiV1.Group("/uploads")
		{
			uploads.POST("/presign", ctrl.PresignUpload)
			uploads.POST("/complete", ctrl.CompleteUpload)
		}
	}

	return router
}
