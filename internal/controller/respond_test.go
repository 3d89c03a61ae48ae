package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tmkhang/Margays/internal/service"
)

func serveWithError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	WriteServiceError(c, err)
	return w
}

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.ValidationError{Field: "answer", Message: "bad"}, http.StatusUnprocessableEntity},
		{"conflict", &service.ConflictError{Message: "already reviewed"}, http.StatusConflict},
		{"incomplete review", &service.IncompleteReviewError{PendingCount: 3}, http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"wrapped not found", fmt.Errorf("loading: %w", service.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serveWithError(tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWriteServiceErrorIncludesPendingCount(t *testing.T) {
	w := serveWithError(&service.IncompleteReviewError{PendingCount: 2})
	assert.Contains(t, w.Body.String(), "2 answers are still pending")
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		raw string
		ok  bool
	}{
		{"12", true},
		{"0", false},
		{"abc", false},
		{"", false},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}

		id, ok := ParseIDParam(c, "id")
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		if tc.ok {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
