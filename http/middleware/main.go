package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
)

func CORSMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	allowOrigins := []string{"*"}
	if cfg.CORS.AllowDomains != "" {
		allowOrigins = strings.Split(cfg.CORS.AllowDomains, ",")
		for i := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(allowOrigins[i])
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.CORS.AllowDomains != "",
	})
}
