package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// StatisticsHandler serves the super-admin dashboard figures.
type StatisticsHandler struct {
	statsService *service.StatisticsService
	loc          *time.Location
}

// NewStatisticsHandler creates a new StatisticsHandler. loc decides the
// default year of the monthly histogram.
func NewStatisticsHandler(statsService *service.StatisticsService, loc *time.Location) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService, loc: loc}
}

// Summary godoc
// GET /api/v1/admin/statistics
func (h *StatisticsHandler) Summary(c *gin.Context) {
	stats, err := h.statsService.Summary(c.Request.Context())
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// Monthly godoc
// GET /api/v1/admin/statistics/monthly?year=
func (h *StatisticsHandler) Monthly(c *gin.Context) {
	year := time.Now().In(h.loc).Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 9999 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		year = y
	}

	buckets, err := h.statsService.Monthly(c.Request.Context(), year)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"year": year, "months": buckets})
}
