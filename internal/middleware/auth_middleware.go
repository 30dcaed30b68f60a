package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

// Context keys set by the session middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// AuthMiddleware resolves the session carried by the request
type AuthMiddleware struct {
	sessions   *auth.SessionService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *auth.SessionService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// RequireSession rejects requests without a valid session
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.claims(c)
		if err != nil {
			errorCode := dto.ErrorCodeUnauthorized
			details := "Valid session required"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Session has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication required").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalSession records the session when one is present and never rejects
func (m *AuthMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := m.claims(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// claims reads the session cookie, falling back to the Authorization header
func (m *AuthMiddleware) claims(c *gin.Context) (*auth.Claims, error) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		token, err = auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			return nil, err
		}
	}
	return m.sessions.Validate(token)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
}

// UserID returns the user id recorded by the session middleware
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
