// Package mission contains the HTTP handlers for mission CRUD, uploads
// and archive downloads
package mission

import (
	"net/http"
	"strconv"

	"dronedeck/mission-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fail maps a service error onto a JSON error response. Anything outside
// the apperr taxonomy is an internal error and gets logged here.
func fail(c *gin.Context, requestID string, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.String("requestID", requestID), zap.Error(err))
	}
}

// missionID parses the :id path param. Responds with 400 itself when the
// value isn't a number.
func missionID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid mission ID",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
