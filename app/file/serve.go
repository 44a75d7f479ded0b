// Package file contains the HTTP handlers for single file records
package file

import (
	"net/http"
	"strconv"

	"dronedeck/mission-api/internal"
	"dronedeck/mission-api/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Serve streams a stored file back with a sniffed content type.
func Serve(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := fileID(c, requestID)
	if !ok {
		return
	}

	f, err := d.Files.Get(id)
	if err != nil {
		fail(c, requestID, err)
		return
	}
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	mt, err := mimetype.DetectFile(f.FilePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "File is missing on disk",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open stored file",
			zap.String("requestID", requestID),
			zap.String("path", f.FilePath),
			zap.Error(err))
		return
	}

	c.Header("Content-Type", mt.String())
	c.File(f.FilePath)
}

// fail maps a service error onto a JSON error response.
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

func fileID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid file ID",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
