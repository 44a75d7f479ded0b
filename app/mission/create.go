package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
)

type createOpts struct {
	Name        string `json:"name"`
	FlightDate  string `json:"flight_date"`
	Description string `json:"description"`
}

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data createOpts
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	mission, err := d.Missions.Create(data.Name, data.FlightDate, data.Description)
	if err != nil {
		fail(c, requestID, err)
		return
	}

	c.JSON(http.StatusCreated, mission)
}
