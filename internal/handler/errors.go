package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/middleware"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"github.com/hsh-clinic/clinic-backend/internal/validator"
)

type failure struct {
	err    error
	status int
	code   response.ErrCode
}

// failures maps domain errors onto HTTP statuses. Order matters only for
// wrapped errors, which match the first entry they satisfy.
var failures = []failure{
	{service.ErrMalformedRequest, http.StatusBadRequest, response.ErrInvalidPayload},
	{service.ErrUnknownReference, http.StatusBadRequest, response.ErrUnknownReference},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusBadRequest, response.ErrFileTooLarge},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrNotConfirmed, http.StatusUnauthorized, response.ErrNotConfirmed},
	{service.ErrTokenInvalid, http.StatusUnauthorized, response.ErrTokenInvalid},
	{service.ErrTokenExpired, http.StatusUnauthorized, response.ErrTokenExpired},
	{service.ErrSessionStale, http.StatusUnauthorized, response.ErrSessionStale},
	{service.ErrIdentityGone, http.StatusUnauthorized, response.ErrIdentityGone},

	{service.ErrForbidden, http.StatusForbidden, response.ErrForbidden},
	{service.ErrBlocked, http.StatusForbidden, response.ErrBlocked},
	{service.ErrNotVerified, http.StatusForbidden, response.ErrNotVerified},

	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrUnknownStudent, http.StatusNotFound, response.ErrUnknownStudent},
	{service.ErrUnknownClinic, http.StatusNotFound, response.ErrUnknownClinic},
	{service.ErrUnknownHospital, http.StatusNotFound, response.ErrUnknownHospital},

	{service.ErrConflict, http.StatusConflict, response.ErrConflict},
	{service.ErrAlreadyAccepted, http.StatusConflict, response.ErrAlreadyAccepted},
	{service.ErrNotAccepted, http.StatusConflict, response.ErrNotAccepted},
	{service.ErrDependencyUse, http.StatusConflict, response.ErrDependencyExists},

	{service.ErrLimitReached, http.StatusTooManyRequests, response.ErrLimitReached},
	{service.ErrDailyLimitExceeded, http.StatusTooManyRequests, response.ErrDailyLimitExceeded},
}

// failWithError writes the envelope matching a service error. Anything
// unrecognised, ErrStorage included, is a 500 and is attached to the
// context so the request logger records the cause.
func failWithError(c *gin.Context, err error) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			response.Fail(c, f.status, f.code)
			return
		}
	}
	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// bindJSON decodes and validates the request body, writing the 400 itself.
func bindJSON(c *gin.Context, req any) bool {
	if fields := validator.Bind(c, req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if fields := validator.BindQuery(c, req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pageQuery reads ?page= and ?per_page=. Bad values fall back to defaults.
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return page, perPage
}

func identity(c *gin.Context) (*service.Identity, bool) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return id, true
}

// staffActor resolves the audit attribution of an admin or super admin caller.
func staffActor(c *gin.Context) (*service.Identity, service.Actor, bool) {
	id, ok := identity(c)
	if !ok {
		return nil, service.Actor{}, false
	}
	actor, err := id.Actor()
	if err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return nil, service.Actor{}, false
	}
	return id, actor, true
}
