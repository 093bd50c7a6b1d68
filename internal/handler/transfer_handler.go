package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// TransferHandler sends accepted examinations to external hospitals.
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Create godoc
// POST /api/v1/admin/transfers
// Only accepted, not yet transferred examinations can be transferred.
func (h *TransferHandler) Create(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	var req model.CreateTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.transferService.Transfer(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"transfer": t})
}

// List godoc
// GET /api/v1/admin/transfers?ex_hosp_id=&clinic_id=&search=&page=&per_page=
func (h *TransferHandler) List(c *gin.Context) {
	var filter model.TransferFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, perPage := pageQuery(c)

	list, pg, err := h.transferService.ListTransfers(c.Request.Context(), filter, page, perPage)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"transfers": list}, pg)
}

// Update godoc
// PUT /api/v1/admin/transfers/:id
func (h *TransferHandler) Update(c *gin.Context) {
	_, actor, ok := staffActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.transferService.UpdateTransfer(c.Request.Context(), actor, id, req)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transfer": t})
}
