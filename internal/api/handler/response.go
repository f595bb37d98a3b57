package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/apierr"
	"coursegen/internal/models"
	"coursegen/internal/util"
)

var log = util.NewLogger("Handler")

func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, models.APIResponse{
		Success:  true,
		Data:     data,
		Metadata: metadata(c),
	})
}

func respondError(c *gin.Context, statusCode int, code string, message string, details interface{}) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: metadata(c),
	})
}

// respondServiceError writes a service failure. Errors without a status are
// logged and reported as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	if apiErr, ok := apierr.From(err); ok {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error(apiErr.Code, err)
		}
		respondError(c, apiErr.Status, apiErr.Code, apiErr.Message, nil)
		return
	}
	log.Error("unhandled service error", err)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

func metadata(c *gin.Context) models.Metadata {
	return models.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.GetString(middleware.RequestIDKey),
	}
}
