package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/utils"
)

// IdentityMiddleware resolves the caller's identity when a valid token is
// present and stays silent otherwise. It never aborts: uploads are open to
// anonymous users, identity only enriches attribution.
func IdentityMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := utils.ExtractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		token, err := utils.ParseToken(tokenString, cfg)
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		identity, err := utils.IdentityFromClaims(claims)
		if err != nil {
			c.Next()
			return
		}

		utils.SetIdentityToContext(c, identity)
		c.Next()
	}
}
