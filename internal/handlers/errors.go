package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opengive/donations-backend/internal/apperrors"
)

// statusForError maps an application error to the HTTP status code for the
// transport boundary. The machine-readable code travels in the body next
// to the message, so clients do not need to parse messages.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrSettlement):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the typed error response. Internal errors are not
// echoed back to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg, "code": apperrors.Code(err)})
}
