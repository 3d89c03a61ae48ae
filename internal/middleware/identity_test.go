package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tmkhang/Margays/internal/model"
)

func newTestRouter(handler gin.HandlerFunc, mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", append(mws, handler)...)
	return r
}

func probePrincipal() (gin.HandlerFunc, *model.Principal) {
	captured := &model.Principal{}
	return func(c *gin.Context) {
		*captured = GetPrincipal(c)
		c.Status(http.StatusOK)
	}, captured
}

func TestIdentityParsesHeaders(t *testing.T) {
	handler, captured := probePrincipal()
	r := newTestRouter(handler, Identity())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserRole, model.RoleAdmin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), captured.UserID)
	assert.True(t, captured.Admin)
}

func TestIdentityNonAdminRole(t *testing.T) {
	handler, captured := probePrincipal()
	r := newTestRouter(handler, Identity())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "7")
	req.Header.Set(HeaderUserRole, model.RoleUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), captured.UserID)
	assert.False(t, captured.Admin)
}

func TestIdentityRejectsMissingOrBadHeader(t *testing.T) {
	handler, _ := probePrincipal()
	r := newTestRouter(handler, Identity())

	for _, raw := range []string{"", "abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if raw != "" {
			req.Header.Set(HeaderUserID, raw)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", raw)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler, _ := probePrincipal()
	r := newTestRouter(handler, Identity(), RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "7")
	req.Header.Set(HeaderUserRole, model.RoleUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "7")
	req.Header.Set(HeaderUserRole, model.RoleAdmin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
