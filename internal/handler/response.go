package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, &errorResponse{
		Error:   errType,
		Message: message,
	})
}

// respondServiceError maps domain errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		slog.WarnContext(ctx, "reminder validation failed",
			slog.String("field", validationErr.Field),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrReminderNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.ErrorContext(ctx, "request processing failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to process request")
	}
}
