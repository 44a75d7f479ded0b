package mission

import (
	"net/http"

	"dronedeck/mission-api/internal"
	"dronedeck/mission-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Search lists missions, filtered by the optional query, start_date,
// end_date and file_type params. Without any filter it's a plain listing,
// newest first.
func Search(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	filters := service.SearchFilters{
		Query:     c.Query("query"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		FileType:  c.Query("file_type"),
	}

	var err error
	var missions any

	if filters == (service.SearchFilters{}) {
		missions, err = d.Missions.List()
	} else {
		missions, err = d.Missions.Search(filters)
	}
	if err != nil {
		fail(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, missions)
}
