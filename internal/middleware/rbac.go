package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// RequireRoles lets through admins and super admins holding one of roles.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !service.Allowed(id, roles...) {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireTypes lets through identities of one of types.
func RequireTypes(types ...model.IdentityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !service.AllowedType(id, types...) {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireOwner checks that a student caller owns the student ID in the
// named path parameter. Staff pass through.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		studentID, err := strconv.Atoi(c.Param(param))
		if err != nil || studentID <= 0 {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		if err := service.AuthorizeOwner(id, studentID); err != nil {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}
