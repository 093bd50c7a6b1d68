package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// ReferenceHandler serves one reference table. The router mounts one
// instance per model.ReferenceKinds entry.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
	kind             model.ReferenceKind
}

// NewReferenceHandler creates a ReferenceHandler for kind.
func NewReferenceHandler(referenceService *service.ReferenceService, kind model.ReferenceKind) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, kind: kind}
}

// List godoc
// GET /api/v1/sysdata/{kind}
func (h *ReferenceHandler) List(c *gin.Context) {
	refs, err := h.referenceService.List(c.Request.Context(), h.kind)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{h.kind.Slug: refs})
}

// Get godoc
// GET /api/v1/sysdata/{kind}/:id
func (h *ReferenceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ref, err := h.referenceService.Get(c.Request.Context(), h.kind, id)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ref)
}

// Create godoc
// POST /api/v1/sysdata/{kind}
func (h *ReferenceHandler) Create(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.ReferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.referenceService.Create(c.Request.Context(), actor, h.kind, req.Name)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ref)
}

// Update godoc
// PUT /api/v1/sysdata/{kind}/:id
func (h *ReferenceHandler) Update(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ReferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.referenceService.Update(c.Request.Context(), actor, h.kind, id, req.Name)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ref)
}

// Delete godoc
// DELETE /api/v1/sysdata/{kind}/:id
// Rows still referenced elsewhere answer 409 DEPENDENCY_EXISTS.
func (h *ReferenceHandler) Delete(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.referenceService.Delete(c.Request.Context(), actor, h.kind, id); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
