package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/utils"
)

// IdentityMiddleware creates a Gin middleware handler that verifies the
// bearer token and attaches the resulting identity to the request context.
// A request with no Authorization header passes through unauthenticated
// (nil identity): whether that is acceptable is decided per operation by
// its authorization strategies. A present but invalid token is rejected
// outright.
func IdentityMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header format must be Bearer {token}",
				"code":  apperrors.CodeUnauthorized,
			})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": msg,
				"code":  apperrors.CodeUnauthorized,
			})
			return
		}

		ident, ok := utils.IdentityFromClaims(claims)
		if !ok {
			logger.Error("Token claims malformed", slog.String("subject", claims.Subject), slog.String("role", claims.Role))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token claims",
				"code":  apperrors.CodeUnauthorized,
			})
			return
		}

		enrichedLogger := logger.With(
			slog.Int64("subject_id", ident.SubjectID),
			slog.String("role", string(ident.Role)),
		)

		ctx := ContextWithIdentity(c.Request.Context(), ident)
		ctx = ContextWithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
