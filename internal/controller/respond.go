package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/service"
)

// ParseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response and reports false.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// WriteServiceError maps the service error taxonomy onto HTTP statuses:
// validation 422, state conflicts 409, incomplete review 400, not found 404,
// forbidden 403, anything else 500.
func WriteServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Message: "Validation failed",
			Details: []string{validationErr.Error()},
		})
		return
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		details := []string{}
		if conflictErr.Suggestion != "" {
			details = append(details, conflictErr.Suggestion)
		}
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: conflictErr.Message, Details: details})
		return
	}

	var incompleteErr *service.IncompleteReviewError
	if errors.As(err, &incompleteErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: incompleteErr.Error()})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Resource not found"})
		return
	}
	if errors.Is(err, service.ErrForbidden) {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Access denied"})
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
}
