package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name       string `json:"name" binding:"required,min=3"`
	NationalID string `json:"national_id" binding:"required,national_id"`
}

type query struct {
	Page int `form:"page" binding:"omitempty,gte=1"`
}

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func contextWith(method, target, body, contentType string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	return c
}

func TestBind_NationalID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"29901011234567", true},
		{"2990101123456", false},
		{"299010112345678", false},
		{"2990101123456a", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c := contextWith(http.MethodPost, "/", `{"name":"ahmed","national_id":"`+tt.id+`"}`, "application/json")
			var p payload
			fields := Bind(c, &p)
			if tt.valid {
				assert.Nil(t, fields)
				return
			}
			require.Contains(t, fields, "national_id")
			assert.Equal(t, "national_id must be a 14-digit national ID", fields["national_id"])
		})
	}
}

func TestBind_TranslatesUsingJSONNames(t *testing.T) {
	c := contextWith(http.MethodPost, "/", `{"name":"ab","national_id":"29901011234567"}`, "application/json")
	var p payload
	fields := Bind(c, &p)
	require.Contains(t, fields, "name")
	assert.Contains(t, fields["name"], "at least 3")
}

func TestBind_SyntaxError(t *testing.T) {
	c := contextWith(http.MethodPost, "/", `{"name":`, "application/json")
	var p payload
	fields := Bind(c, &p)
	assert.Contains(t, fields, "detail")
}

func TestBindQuery(t *testing.T) {
	c := contextWith(http.MethodGet, "/?page=-1", "", "")
	var q query
	fields := BindQuery(c, &q)
	assert.Contains(t, fields, "page")

	c = contextWith(http.MethodGet, "/?page=2", "", "")
	assert.Nil(t, BindQuery(c, &q))
	assert.Equal(t, 2, q.Page)
}
