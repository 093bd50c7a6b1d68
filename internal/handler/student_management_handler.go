package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// StudentManagementHandler is the staff-side view of student accounts.
type StudentManagementHandler struct {
	studentService *service.StudentService
}

// NewStudentManagementHandler creates a new StudentManagementHandler.
func NewStudentManagementHandler(studentService *service.StudentService) *StudentManagementHandler {
	return &StudentManagementHandler{studentService: studentService}
}

// List godoc
// GET /api/v1/admin/students?search=&level_id=&gov_id=&faculty_id=&nationality_id=&blocked=&verified=&page=&per_page=
func (h *StudentManagementHandler) List(c *gin.Context) {
	var filter model.StudentFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, perPage := pageQuery(c)

	students, pg, err := h.studentService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pg)
}

// Create godoc
// POST /api/v1/admin/students
func (h *StudentManagementHandler) Create(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	st, err := h.studentService.Create(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": st})
}

// Update godoc
// PUT /api/v1/admin/students/:id
func (h *StudentManagementHandler) Update(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.studentService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": p})
}

// Delete godoc
// DELETE /api/v1/admin/students/:id
func (h *StudentManagementHandler) Delete(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.Delete(c.Request.Context(), actor, id); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Block godoc
// PATCH /api/v1/admin/students/:id/block
func (h *StudentManagementHandler) Block(c *gin.Context) {
	h.setBlocked(c, true)
}

// Unblock godoc
// PATCH /api/v1/admin/students/:id/unblock
func (h *StudentManagementHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *StudentManagementHandler) setBlocked(c *gin.Context, blocked bool) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.SetBlocked(c.Request.Context(), actor, id, blocked); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocked": blocked})
}

// SendObservation godoc
// POST /api/v1/admin/students/:id/observation
func (h *StudentManagementHandler) SendObservation(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ObservationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.studentService.SendObservation(c.Request.Context(), actor, id, req.Message); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}
