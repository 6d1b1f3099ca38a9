package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-welfare/internal/shared/apperror"
	"go-welfare/internal/shared/contextutil"
	"go-welfare/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	identityKey = "identity"
)

// AuthMiddleware resolves the opaque bearer token into an Identity and aborts
// with 401 when no identity can be resolved. Everything downstream receives
// the resolved {id, role, departmentId} triple, never raw credentials.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			msg := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "User ID not found in token", nil)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		departmentID, _ := claims["department_id"].(string)

		id := contextutil.Identity{
			UserID:       userID,
			Role:         role,
			DepartmentID: departmentID,
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(contextutil.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// Caller returns the identity resolved by AuthMiddleware. The zero Identity
// means the middleware did not run, which every guarded route prevents.
func Caller(c *gin.Context) contextutil.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(contextutil.Identity); ok {
			return id
		}
	}
	return contextutil.Identity{}
}
