package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"soilviz/internal/domain"
)

// RespondError sends the failure payload. details is omitted when empty.
func RespondError(c *gin.Context, status int, msg, details string) {
	body := gin.H{"error": msg}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

// HandleError maps a pipeline error to its HTTP response, carrying the full
// error text as detail when it adds anything beyond the caller message.
func HandleError(c *gin.Context, err error) {
	status, msg := MapDomainError(err)
	details := ""
	if m := err.Error(); m != msg {
		details = m
	}
	RespondError(c, status, msg, details)
}

// MapDomainError translates domain errors to HTTP status codes and
// caller-facing messages.
func MapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest, "required boundary or sample input missing"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "unsupported file type"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDecode):
		return http.StatusUnprocessableEntity, "plot boundary could not be decoded"
	case errors.Is(err, domain.ErrEmptyGeometry):
		return http.StatusUnprocessableEntity, "plot boundary contains no usable polygon geometry"
	case errors.Is(err, domain.ErrInterpolationTimeout):
		return http.StatusGatewayTimeout, "interpolation timed out"
	case errors.Is(err, domain.ErrInterpolation):
		return http.StatusBadGateway, "interpolation failed"
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}
