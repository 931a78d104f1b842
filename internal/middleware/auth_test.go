package middleware

import (
	"class_tracker/internal/model"
	"class_tracker/internal/util"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuth map[string]*util.Claims

func (f fakeAuth) Authenticate(_ context.Context, token string) (*util.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, util.ErrSessionExpired
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := fakeAuth{
		"teacher": {UserID: 1, Username: "teacher", Role: model.Teacher},
		"admin":   {UserID: 2, Username: "admin", Role: model.Admin, Permissions: []string{model.PermAdminPanel}},
		"bare":    {UserID: 3, Username: "bare", Role: model.Admin},
	}

	r := gin.New()
	api := r.Group("/", AuthMiddleware(auth))
	api.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username)
	})
	api.GET("/classes", RequireRole(model.Teacher, model.Admin), func(c *gin.Context) { c.Status(http.StatusOK) })
	api.GET("/admin", RequireRole(model.Admin), RequirePermission(model.PermAdminPanel), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		path   string
		header string
		query  string
		code   int
	}{
		{"no token", "/me", "", "", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", "", http.StatusUnauthorized},
		{"bearer header", "/me", "Bearer teacher", "", http.StatusOK},
		{"query token", "/me", "", "?token=teacher", http.StatusOK},
		{"teacher on teacher route", "/classes", "Bearer teacher", "", http.StatusOK},
		{"admin on teacher route", "/classes", "Bearer admin", "", http.StatusOK},
		{"teacher on admin route", "/admin", "Bearer teacher", "", http.StatusForbidden},
		{"admin without permission", "/admin", "Bearer bare", "", http.StatusForbidden},
		{"admin with permission", "/admin", "Bearer admin", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequireRoleWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRole(model.Admin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
