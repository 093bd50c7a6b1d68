package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// ContextKeyIdentity is the Gin context key for the resolved caller.
const ContextKeyIdentity = "identity"

// Authorizer resolves a session token into an identity.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*service.Identity, error)
}

// Authenticate requires a valid session token in the Authorization header
// or, for WebSocket and EventSource clients, the ?token= query parameter.
func Authenticate(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		id, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			status, code := authFailure(err)
			response.AbortFail(c, status, code)
			return
		}

		c.Set(ContextKeyIdentity, id)
		c.Next()
	}
}

// GetIdentity retrieves the caller set by Authenticate.
func GetIdentity(c *gin.Context) *service.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	id, ok := val.(*service.Identity)
	if !ok {
		return nil
	}
	return id
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}

func authFailure(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, response.ErrTokenExpired
	case errors.Is(err, service.ErrSessionStale):
		return http.StatusUnauthorized, response.ErrSessionStale
	case errors.Is(err, service.ErrIdentityGone):
		return http.StatusUnauthorized, response.ErrIdentityGone
	case errors.Is(err, service.ErrBlocked):
		return http.StatusForbidden, response.ErrBlocked
	case errors.Is(err, service.ErrStorage):
		return http.StatusInternalServerError, response.ErrInternal
	}
	return http.StatusUnauthorized, response.ErrTokenInvalid
}
