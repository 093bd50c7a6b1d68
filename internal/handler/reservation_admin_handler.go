package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// maxExportRows bounds one spreadsheet export.
const maxExportRows = 10000

// ReservationAdminHandler is the staff view of student reservations.
type ReservationAdminHandler struct {
	reservationService *service.ReservationService
	loc                *time.Location
}

// NewReservationAdminHandler creates a new ReservationAdminHandler.
func NewReservationAdminHandler(reservationService *service.ReservationService, loc *time.Location) *ReservationAdminHandler {
	return &ReservationAdminHandler{reservationService: reservationService, loc: loc}
}

// List godoc
// GET /api/v1/admin/reservations?status=&exam_type=&date=&clinic_id=&search=&page=&per_page=
func (h *ReservationAdminHandler) List(c *gin.Context) {
	var filter model.ReservationFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, perPage := pageQuery(c)

	list, pg, err := h.reservationService.AdminList(c.Request.Context(), filter, page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"reservations": list}, pg)
}

// Decide godoc
// PATCH /api/v1/admin/reservations/:id/decision
func (h *ReservationAdminHandler) Decide(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.reservationService.AcceptOrDecline(c.Request.Context(), actor, id, req.Operation); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Operation.Status()})
}

// Export godoc
// GET /api/v1/admin/reservations/export?status=&exam_type=&date=&clinic_id=&search=
// Streams the filtered listing as an XLSX workbook.
func (h *ReservationAdminHandler) Export(c *gin.Context) {
	var filter model.ReservationFilter
	if !bindQuery(c, &filter) {
		return
	}
	ctx := c.Request.Context()

	var rows []model.ReservationDetail
	for page := 1; len(rows) < maxExportRows; page++ {
		list, pg, err := h.reservationService.AdminList(ctx, filter, page, response.MaxPerPage)
		if err != nil {
			failWithError(c, err)
			return
		}
		rows = append(rows, list...)
		if page >= pg.TotalPages {
			break
		}
	}

	filename := fmt.Sprintf("reservations-%s.xlsx", time.Now().In(h.loc).Format("20060102-1504"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := writeReservationsXLSX(c.Writer, rows, h.loc); err != nil {
		_ = c.Error(err)
	}
}
