package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/rs/zerolog"
)

// CheckSingleDeviceSession rejects candidate tokens whose JTI no longer
// matches the active login in Redis (logged out or reset by an admin).
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.TokenType != service.TokenTypeCandidate {
			c.Next()
			return
		}

		if err := authService.ValidateCandidateSession(c.Request.Context(), claims.Subject, claims.ID); err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Str("candidate_id", claims.Subject).Msg("Session rejected")
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
