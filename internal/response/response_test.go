package response

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	page, perPage, offset := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)
	assert.Equal(t, 0, offset)

	page, perPage, offset = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPerPage, perPage)
	assert.Equal(t, 200, offset)

	page, perPage, offset = NormalizePage(math.MaxInt, 100)
	assert.Equal(t, math.MaxInt32/100, page)
	assert.Equal(t, 100, perPage)
	assert.Positive(t, offset)
	assert.LessOrEqual(t, offset, math.MaxInt32)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 21, p.TotalItems)

	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { Fail(c, http.StatusConflict, ErrAlreadyAccepted) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrAlreadyAccepted, body.Error.Code)
	assert.Equal(t, GetMessage(ErrAlreadyAccepted), body.Error.Message)
	assert.Equal(t, "abc", body.Metadata.RequestID)
}

func TestRequestIDRejectsOversizedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("a", 100))
	r.ServeHTTP(w, req)

	assert.Len(t, w.Body.String(), 36)
}
