package file

import (
	"net/http"

	"dronedeck/mission-api/internal"

	"github.com/gin-gonic/gin"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := fileID(c, requestID)
	if !ok {
		return
	}

	if err := d.Files.Delete(id); err != nil {
		fail(c, requestID, err)
		return
	}

	c.Status(http.StatusNoContent)
}
