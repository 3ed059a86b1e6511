package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/intervue/session-server/internal/auth"
)

const (
	// ContextKeyIdentity is the context key for storing the caller identity.
	ContextKeyIdentity = "identity"
	// ContextKeyUserType is the context key for storing the caller type (interviewer, company).
	ContextKeyUserType = "user_type"
)

// AuthMiddleware creates a middleware that validates JWT tokens.
func AuthMiddleware(jwtConfig *auth.JWTConfig, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromRequest(c.Request)
		if err != nil {
			logger.Debug().Err(err).Msg("missing or malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}

		claims, err := auth.ValidateToken(jwtConfig, token)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(ContextKeyIdentity, claims.Identity())
		c.Set(ContextKeyUserType, claims.UserType)

		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
