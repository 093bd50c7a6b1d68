package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// EmergencyHandler manages walk-in emergency reservations.
type EmergencyHandler struct {
	emergencyService *service.EmergencyService
}

// NewEmergencyHandler creates a new EmergencyHandler.
func NewEmergencyHandler(emergencyService *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

// Create godoc
// POST /api/v1/admin/emergency
func (h *EmergencyHandler) Create(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.EmergencyReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.emergencyService.Create(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"emergency": e})
}

// List godoc
// GET /api/v1/admin/emergency?search=&page=&per_page=
func (h *EmergencyHandler) List(c *gin.Context) {
	page, perPage := pageQuery(c)
	list, pg, err := h.emergencyService.List(c.Request.Context(), c.Query("search"), page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"emergencies": list}, pg)
}

// Get godoc
// GET /api/v1/admin/emergency/:id
func (h *EmergencyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.emergencyService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"emergency": e})
}

// Update godoc
// PUT /api/v1/admin/emergency/:id
func (h *EmergencyHandler) Update(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.EmergencyReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.emergencyService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"emergency": e})
}

// Delete godoc
// DELETE /api/v1/admin/emergency/:id
func (h *EmergencyHandler) Delete(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.emergencyService.Delete(c.Request.Context(), actor, id); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
