package mission

import (
	"os"
	"path/filepath"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Archive builds a zip of the mission's files (optionally one category
// via ?type=) and streams it back. The scratch file is removed once the
// response is written.
func Archive(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := missionID(c, requestID)
	if !ok {
		return
	}

	zipPath, err := d.Files.BuildArchive(id, c.Query("type"))
	if err != nil {
		fail(c, requestID, err)
		return
	}

	defer func() {
		if err := os.Remove(zipPath); err != nil {
			zap.L().Warn("Failed to clean up archive", zap.String("path", zipPath), zap.Error(err))
		}
	}()

	c.FileAttachment(zipPath, filepath.Base(zipPath))
}
