package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentium/rentium-api/internal/ledger"
	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/rights"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps domain errors onto HTTP status codes and reports
// the domain error text verbatim; none are swallowed or rewritten.
func handleServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, rights.ErrInvalidUser),
		errors.Is(err, rights.ErrInvalidAmount),
		errors.Is(err, rights.ErrInvalidExpiry),
		errors.Is(err, ledger.ErrInvalidReceiver),
		errors.Is(err, ledger.ErrLengthMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, rights.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, rights.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rights.ErrRecordLimitExceeded):
		status = http.StatusConflict
	case errors.Is(err, rights.ErrInsufficientBalance),
		errors.Is(err, rights.ErrInsufficientAvailableBalance),
		errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
	}

	logger.Warn("Request rejected",
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage is a helper function that sends a success message
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}
