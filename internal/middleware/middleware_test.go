package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthorizer struct {
	id  *service.Identity
	err error
	got string
}

func (s *stubAuthorizer) Authorize(_ context.Context, token string) (*service.Identity, error) {
	s.got = token
	return s.id, s.err
}

func student(id int) *service.Identity {
	return &service.Identity{Class: model.ClassStudent, ID: id, Type: model.TypeUser}
}

func admin(role model.Role) *service.Identity {
	return &service.Identity{Class: model.ClassAdmin, ID: 7, Role: role, Type: model.TypeAdmin}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		err    error
		status int
		code   string
	}{
		{"missing token", "", "", nil, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"bearer header", "Bearer abc", "", nil, http.StatusOK, ""},
		{"query fallback", "", "abc", nil, http.StatusOK, ""},
		{"expired", "Bearer abc", "", service.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"stale", "Bearer abc", "", service.ErrSessionStale, http.StatusUnauthorized, "SESSION_STALE"},
		{"gone", "Bearer abc", "", service.ErrIdentityGone, http.StatusUnauthorized, "IDENTITY_GONE"},
		{"blocked", "Bearer abc", "", service.ErrBlocked, http.StatusForbidden, "ACCOUNT_BLOCKED"},
		{"invalid", "Bearer abc", "", service.ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"storage", "Bearer abc", "", service.ErrStorage, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthorizer{id: student(3), err: tt.err}
			r := gin.New()
			r.GET("/me", Authenticate(auth), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"id": GetIdentity(c).ID})
			})

			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
				return
			}
			assert.Equal(t, "abc", auth.got)
			assert.JSONEq(t, `{"id":3}`, w.Body.String())
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/stats", func(c *gin.Context) {
		if v, ok := c.GetQuery("as"); ok {
			c.Set(ContextKeyIdentity, admin(model.Role(v)))
		}
		c.Next()
	}, RequireRoles(model.RoleSuperAdmin, model.RoleCounter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/stats?as=counter", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/stats?as=observer", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/stats", nil)).Code)
}

func TestRequireTypesAndOwner(t *testing.T) {
	var caller *service.Identity
	r := gin.New()
	r.GET("/students/:student_id/reservations", func(c *gin.Context) {
		c.Set(ContextKeyIdentity, caller)
		c.Next()
	}, RequireTypes(model.TypeUser), RequireOwner("student_id"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	caller = student(4)
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/students/4/reservations", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/students/5/reservations", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, httptest.NewRequest(http.MethodGet, "/students/abc/reservations", nil)).Code)

	caller = admin(model.RoleCounter)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/students/4/reservations", nil)).Code)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	rl := NewRateLimiter(rdb, "login", 2, time.Minute, zerolog.Nop())
	rl.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 30, 0, time.UTC) }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "31", w.Header().Get("Retry-After"))

	rl.now = func() time.Time { return time.Date(2025, 3, 10, 9, 1, 5, 0, time.UTC) }
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)

	mr.Close()
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code, "fails open")
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("clinic ", 400)
	r := gin.New()
	r.Use(Brotli(5))
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := serve(r, req)
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, large, string(body))

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "br")
	req.Header.Set("Upgrade", "websocket")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/x", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, "no-store", serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Header().Get("Cache-Control"))
}
