package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
)

// Files lists a mission's file records, optionally narrowed with ?type=.
func Files(c *gin.Context, d *internal.Deps) {
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

	files, err := d.Missions.FilesByMission(id, c.Query("type"))
	if err != nil {
		fail(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, files)
}
