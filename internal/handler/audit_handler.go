package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// AuditHandler exposes the admin log to super admins.
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// actorFilter reads the optional :actor_class/:actor_id pair. Only staff
// classes write log entries.
func actorFilter(c *gin.Context) (model.AuditFilter, bool) {
	if c.Param("actor_id") == "" {
		return model.AuditFilter{}, true
	}
	class := model.IdentityClass(c.Param("actor_class"))
	if class != model.ClassAdmin && class != model.ClassSuperAdmin {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return model.AuditFilter{}, false
	}
	id, ok := pathID(c, "actor_id")
	if !ok {
		return model.AuditFilter{}, false
	}
	return model.AuditFilter{ActorClass: class, ActorID: id}, true
}

// List godoc
// GET /api/v1/admin/logs
// GET /api/v1/admin/logs/:actor_class/:actor_id
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := actorFilter(c)
	if !ok {
		return
	}
	page, perPage := pageQuery(c)

	entries, pg, err := h.auditService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"logs": entries}, pg)
}

// Clear godoc
// DELETE /api/v1/admin/logs
// DELETE /api/v1/admin/logs/:actor_class/:actor_id
func (h *AuditHandler) Clear(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	filter, ok := actorFilter(c)
	if !ok {
		return
	}

	n, err := h.auditService.Clear(c.Request.Context(), actor, filter)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}
