package middleware

import (
	"context"
	"net/http"
	"strings"

	"threadline/internal/transport/httpdto"
	"threadline/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ActorClaims is the access-token payload. Moderator status carried in the
// token only authorizes moderation when the social graph also confirms it at
// decision time; the claim is a hint for routing, not the authority.
type ActorClaims struct {
	UserID      string `json:"user_id"`
	IsModerator bool   `json:"is_moderator"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the actor id on both
// the gin context and the request context for downstream logging.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		claims := &ActorClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			abortUnauthorized(c)
			return
		}

		actorID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set("actor_id", actorID.String())
		c.Set("is_moderator", claims.IsModerator)

		ctx := context.WithValue(c.Request.Context(), logger.ActorIDKey, actorID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	c.Abort()
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
