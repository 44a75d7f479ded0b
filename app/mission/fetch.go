package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
)

func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := missionID(c, requestID)
	if !ok {
		return
	}

	m, err := d.Missions.GetByID(id)
	if err != nil {
		fail(c, requestID, err)
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Mission not found",
			"requestID": requestID,
		})
		return
	}

	meta, err := d.Missions.Metadata(id)
	if err != nil {
		fail(c, requestID, err)
		return
	}

	files, err := d.Missions.FilesByMission(id, "")
	if err != nil {
		fail(c, requestID, err)
		return
	}

	types := []string{}
	seen := map[string]bool{}
	for _, f := range files {
		if !seen[f.FileType] {
			seen[f.FileType] = true
			types = append(types, f.FileType)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"mission":    m,
		"metadata":   meta,
		"file_count": len(files),
		"file_types": types,
	})
}
