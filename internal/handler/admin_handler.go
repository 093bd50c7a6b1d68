package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// AdminHandler manages admin accounts and super admins.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Create godoc
// POST /api/v1/admin/admins
func (h *AdminHandler) Create(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"admin": admin})
}

// List godoc
// GET /api/v1/admin/admins?search=&role=&page=&per_page=
func (h *AdminHandler) List(c *gin.Context) {
	page, perPage := pageQuery(c)
	admins, pg, err := h.adminService.List(c.Request.Context(), c.Query("search"), model.Role(c.Query("role")), page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"admins": admins}, pg)
}

// Get godoc
// GET /api/v1/admin/admins/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	admin, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}

// Update godoc
// PUT /api/v1/admin/admins/:id
func (h *AdminHandler) Update(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.adminService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}

// Delete godoc
// DELETE /api/v1/admin/admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.Delete(c.Request.Context(), actor, id); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ResetPassword godoc
// PATCH /api/v1/admin/admins/:id/password
// Admins may only reset their own password; super admins may reset any.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.adminService.ResetPassword(c.Request.Context(), caller, id, req); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

// CreateSuperAdmin godoc
// POST /api/v1/admin/super-admins
func (h *AdminHandler) CreateSuperAdmin(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.CreateSuperAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	sa, err := h.adminService.CreateSuperAdmin(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"super_admin": sa})
}
