package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"
	"dronedeck/mission-api/internal/service"

	"github.com/gin-gonic/gin"
)

type editOpts struct {
	Name        *string `json:"name,omitempty"`
	FlightDate  *string `json:"flight_date,omitempty"`
	Description *string `json:"description,omitempty"`
}

func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := missionID(c, requestID)
	if !ok {
		return
	}

	var data editOpts
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.Name == nil && data.FlightDate == nil && data.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No edit options provided",
			"requestID": requestID,
		})
		return
	}

	m, err := d.Missions.Update(id, service.MissionUpdate{
		Name:        data.Name,
		FlightDate:  data.FlightDate,
		Description: data.Description,
	})
	if err != nil {
		fail(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
