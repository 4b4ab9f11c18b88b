package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidJSON         = "invalid_json"
	CodeNotFound            = "not_found"
	CodeExpired             = "expired"
	CodeGenerationExhausted = "generation_exhausted"
	CodeStoreFailure        = "store_failure"
	CodeInternal            = "internal_error"
	CodeRouteNotFound       = "route_not_found"
)

const (
	msgLinkNotFound = "Link not found."
	msgLinkExpired  = "This link has expired."
)

// handleError maps a service error onto the HTTP response. failure is the
// message used for 500s so each operation keeps its own wording.
func handleError(c *gin.Context, logger *zap.Logger, err error, failure string) {
	if ve, ok := service.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: ve.Message, Code: ve.Code})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgLinkNotFound, Code: CodeNotFound})
	case errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{Error: msgLinkExpired, Code: CodeExpired})
	case errors.Is(err, service.ErrGenerationExhausted):
		logger.Error("short id generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: failure, Code: CodeGenerationExhausted})
	case errors.Is(err, service.ErrStoreFailure):
		logger.Error("store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: failure, Code: CodeStoreFailure})
	default:
		logger.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: failure, Code: CodeInternal})
	}
	_ = c.Error(err)
}
