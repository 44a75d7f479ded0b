package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
)

func Delete(c *gin.Context, d *internal.Deps) {
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

	if !d.Missions.Delete(id) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to delete mission",
			"requestID": requestID,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
