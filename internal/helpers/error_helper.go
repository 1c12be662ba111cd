package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ansidorov/bilet/internal/models"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithServiceError maps the service failure taxonomy onto HTTP
// statuses. Every failure kind has its own mapping; only genuinely unknown
// errors fall through to 500.
func RespondWithServiceError(c *gin.Context, err error) {
	switch {
	case models.IsNotFound(err):
		RespondWithError(c, http.StatusNotFound, err.Error())
	case models.IsCallerError(err):
		RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		RespondWithError(c, http.StatusForbidden, "Not enough rights.")
	case errors.Is(err, models.ErrConflict):
		RespondWithError(c, http.StatusConflict, "Cannot delete event because there are related bookings.")
	case errors.Is(err, models.ErrTransientConflict):
		RespondWithError(c, http.StatusServiceUnavailable, "Too much contention, please retry.")
	default:
		RespondWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
