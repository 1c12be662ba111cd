package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ansidorov/bilet/internal/helpers"
	"github.com/ansidorov/bilet/internal/models"
)

const principalKey = "principal"

// Auth validates the bearer token issued by the identity provider and
// stores the resulting principal on the context. Claims: "sub" is the user
// id, "is_admin" carries the admin capability.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Missing or malformed authorization header.")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid subject claim.")
			c.Abort()
			return
		}
		isAdmin, _ := claims["is_admin"].(bool)

		c.Set(principalKey, models.Principal{ID: userID, IsAdmin: isAdmin})
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated principal carries
// the admin capability. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok || !principal.IsAdmin {
			helpers.RespondWithError(c, http.StatusForbidden, "Not enough rights.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := v.(models.Principal)
	return principal, ok
}

// SetPrincipal is a test hook for injecting a principal without a token.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}
