package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
	"github.com/skyline/air-reservation/pkg/jwt"
)

const (
	// UserContextKey is the gin context key holding the authenticated principal
	UserContextKey = "user"

	loginRedirect = "/login"
)

// SessionAuthenticator resolves a bearer token to an active session
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// UserContext is the authenticated principal of a request
type UserContext struct {
	SessionID   uuid.UUID
	Type        models.PrincipalType
	ID          string
	AirlineName string
	StaffRole   models.StaffRole
}

// AuthMiddleware requires a valid bearer token backed by an active session
func AuthMiddleware(auth SessionAuthenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Please log in first.", "MISSING_AUTH_HEADER")
			return
		}

		token, ok := parseBearer(authHeader)
		if !ok {
			abortUnauthorized(c, "Authorization header must be: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				abortUnauthorized(c, "Your session has expired. Please log in again.", "TOKEN_EXPIRED")
			case errors.Is(err, services.ErrUnauthenticated):
				abortUnauthorized(c, "Please log in first.", "INVALID_TOKEN")
			default:
				logger.WithError(err).Error("Failed to authenticate session")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "Something went wrong.",
				})
				c.Abort()
			}
			return
		}

		userCtx := &UserContext{
			SessionID: session.ID,
			Type:      session.PrincipalType,
			ID:        session.PrincipalID,
		}
		if session.AirlineName != nil {
			userCtx.AirlineName = *session.AirlineName
		}
		if session.StaffRole != nil {
			userCtx.StaffRole = *session.StaffRole
		}
		c.Set(UserContextKey, userCtx)

		c.Next()
	}
}

// RequirePrincipal only lets the given principal kinds through.
// Must run after AuthMiddleware.
func RequirePrincipal(types ...models.PrincipalType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			abortUnauthorized(c, "Please log in first.", "MISSING_USER_CONTEXT")
			return
		}

		for _, t := range types {
			if userCtx.Type == t {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":    "forbidden",
			"message":  "You are not authorized to view that page.",
			"redirect": "/",
			"code":     "INSUFFICIENT_PERMISSIONS",
		})
		c.Abort()
	}
}

// GetUserContext returns the principal set by AuthMiddleware
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	userCtx, ok := value.(*UserContext)
	return userCtx, ok
}

// MustGetUserContext panics when called on a route without AuthMiddleware
func MustGetUserContext(c *gin.Context) *UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - did you forget AuthMiddleware?")
	}
	return userCtx
}

// BearerToken returns the token of the Authorization header, or "" when absent
func BearerToken(c *gin.Context) string {
	token, _ := parseBearer(c.GetHeader("Authorization"))
	return token
}

func parseBearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message, code string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    "unauthorized",
		"message":  message,
		"redirect": loginRedirect,
		"code":     code,
	})
	c.Abort()
}
