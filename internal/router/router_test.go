package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/handler"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]*service.Identity

func (s stubAuth) Authorize(_ context.Context, token string) (*service.Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return id, nil
}

func staff(role model.Role) *service.Identity {
	class := model.ClassAdmin
	if role == model.RoleSuperAdmin {
		class = model.ClassSuperAdmin
	}
	return &service.Identity{Class: class, ID: 1, Role: role, Type: model.TypeAdmin}
}

func newTestRouter(t *testing.T) *gin.Engine {
	auth := stubAuth{
		"student-4": {Class: model.ClassStudent, ID: 4, Type: model.TypeUser},
		"counter":   staff(model.RoleCounter),
		"observer":  staff(model.RoleObserver),
		"clerk":     staff(model.RoleTransferClerk),
	}
	cfg := &config.Config{GinMode: gin.TestMode, UploadDir: t.TempDir()}
	handlers := &Handlers{References: map[string]*handler.ReferenceHandler{
		model.KindClinic.Slug: handler.NewReferenceHandler(nil, model.KindClinic),
	}}
	return SetupRouter(auth, handlers, cfg, func(c *gin.Context) { c.Next() }, zerolog.Nop())
}

// Every case is rejected before any handler runs.
func TestRouteGuards(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"statistics without token", http.MethodGet, "/api/v1/admin/statistics", "", http.StatusUnauthorized},
		{"statistics with bad token", http.MethodGet, "/api/v1/admin/statistics", "nope", http.StatusUnauthorized},
		{"statistics as counter", http.MethodGet, "/api/v1/admin/statistics", "counter", http.StatusForbidden},
		{"admin area as student", http.MethodGet, "/api/v1/admin/reservations", "student-4", http.StatusForbidden},
		{"logs as observer", http.MethodDelete, "/api/v1/admin/logs", "observer", http.StatusForbidden},
		{"block as observer", http.MethodPatch, "/api/v1/admin/students/1/block", "observer", http.StatusForbidden},
		{"decision as observer", http.MethodPatch, "/api/v1/admin/reservations/1/decision", "observer", http.StatusForbidden},
		{"transfer as counter", http.MethodPost, "/api/v1/admin/transfers", "counter", http.StatusForbidden},
		{"emergency as clerk", http.MethodGet, "/api/v1/admin/emergency", "clerk", http.StatusForbidden},
		{"create admin as counter", http.MethodPost, "/api/v1/admin/admins", "counter", http.StatusForbidden},
		{"other student's reservations", http.MethodGet, "/api/v1/reservations/5", "student-4", http.StatusForbidden},
		{"student routes as staff", http.MethodGet, "/api/v1/profile/4", "counter", http.StatusForbidden},
		{"reference write as counter", http.MethodPost, "/api/v1/sysdata/clinics", "counter", http.StatusForbidden},
		{"audit stream as counter", http.MethodGet, "/ws/v1/admin/audit/stream?token=counter", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if strings.HasPrefix(tt.path, "/api/") {
				assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
