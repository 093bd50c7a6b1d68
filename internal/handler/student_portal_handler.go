package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

const fieldPhoto = "image_file"

// StudentPortalHandler serves a student's own reservations and profile.
// Routes sit behind RequireOwner("student_id").
type StudentPortalHandler struct {
	reservationService *service.ReservationService
	studentService     *service.StudentService
	media              Uploader
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(reservationService *service.ReservationService, studentService *service.StudentService, media Uploader) *StudentPortalHandler {
	return &StudentPortalHandler{
		reservationService: reservationService,
		studentService:     studentService,
		media:              media,
	}
}

// CreateReservation godoc
// POST /api/v1/reservations/:student_id
func (h *StudentPortalHandler) CreateReservation(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	var req model.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.reservationService.Create(c.Request.Context(), studentID, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

// ListReservations godoc
// GET /api/v1/reservations/:student_id?page=&per_page=
func (h *StudentPortalHandler) ListReservations(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	page, perPage := pageQuery(c)

	list, pg, err := h.reservationService.ListMine(c.Request.Context(), studentID, page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"reservations": list}, pg)
}

// GetReservation godoc
// GET /api/v1/reservations/:student_id/:exam_id
func (h *StudentPortalHandler) GetReservation(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	examID, ok := pathID(c, "exam_id")
	if !ok {
		return
	}

	res, err := h.reservationService.View(c.Request.Context(), studentID, examID)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// UpdateReservation godoc
// PUT /api/v1/reservations/:student_id/:exam_id
// Only non-accepted reservations can be edited.
func (h *StudentPortalHandler) UpdateReservation(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	examID, ok := pathID(c, "exam_id")
	if !ok {
		return
	}
	var req model.UpdateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.reservationService.Update(c.Request.Context(), studentID, examID, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// CancelReservation godoc
// DELETE /api/v1/reservations/:student_id/:exam_id
func (h *StudentPortalHandler) CancelReservation(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	examID, ok := pathID(c, "exam_id")
	if !ok {
		return
	}

	if err := h.reservationService.Cancel(c.Request.Context(), studentID, examID); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// GetProfile godoc
// GET /api/v1/profile/:student_id
func (h *StudentPortalHandler) GetProfile(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}

	p, err := h.studentService.GetProfile(c.Request.Context(), studentID)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": p})
}

// UpdateProfile godoc
// PUT /api/v1/profile/:student_id
func (h *StudentPortalHandler) UpdateProfile(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	var req model.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.studentService.UpdateProfile(c.Request.Context(), studentID, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": p})
}

// UpdatePhoto godoc
// PATCH /api/v1/profile/:student_id/photo
// Replaces the profile photo and removes the previous file.
func (h *StudentPortalHandler) UpdatePhoto(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	current, err := h.studentService.GetProfile(ctx, studentID)
	if err != nil {
		failWithError(c, err)
		return
	}

	ref, ok := requireUpload(c, h.media, fieldPhoto, service.UploadImage)
	if !ok {
		return
	}

	p, err := h.studentService.UpdatePhoto(ctx, studentID, ref)
	if err != nil {
		h.media.Remove(ref)
		failWithError(c, err)
		return
	}
	if current.ImageRef != "" {
		h.media.Remove(current.ImageRef)
	}
	response.Success(c, http.StatusOK, gin.H{"student": p})
}
