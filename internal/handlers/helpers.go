package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/util"
	"go.uber.org/zap"
)

// parseUUIDParam parses a path parameter into a UUID.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps a service error kind to an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindValidation, service.KindMissingIngredients:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal errors are logged
// and replaced with a generic message.
func respondError(c *gin.Context, msg string, err error) {
	status := statusFor(service.KindOf(err))
	log := logger.WithRequestID(util.GetRequestIDFromContext(c))

	if status == http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}

	log.Info(msg, zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
