package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
)

const identityContextKey = "identity"

// Identity is the attribution attached to an upload when the caller carries
// a valid token. All fields beyond UserID are display metadata.
type Identity struct {
	UserID   uuid.UUID
	Name     string
	CourseID string
	Year     int
}

// ExtractToken pulls the access token from the cookie or the Authorization
// header, cookie first.
func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func ParseToken(tokenString string, cfg *config.EnvConfig) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.SecretKey), nil
	})
}

func IdentityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token missing user_id claim")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.New("user_id claim is not a uuid")
	}

	identity := &Identity{UserID: userID}
	if name, ok := claims["full_name"].(string); ok {
		identity.Name = name
	}
	if courseID, ok := claims["course_id"].(string); ok {
		identity.CourseID = courseID
	}
	if year, ok := claims["year_of_study"].(float64); ok {
		identity.Year = int(year)
	}
	return identity, nil
}

func SetIdentityToContext(c *gin.Context, identity *Identity) {
	c.Set(identityContextKey, identity)
}

func GetIdentityFromContext(c *gin.Context) (*Identity, bool) {
	val, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
