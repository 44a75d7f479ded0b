package mission

import (
	"errors"
	"net/http"

	"dronedeck/mission-api/internal"
	"dronedeck/mission-api/internal/model"
	"dronedeck/mission-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Upload accepts a multipart batch under the "files" field. Files with a
// disallowed extension are counted as rejected without failing the batch,
// a mixed batch is a partial success.
func Upload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := missionID(c, requestID)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed multipart form",
			"requestID": requestID,
		})
		return
	}

	fhs := form.File["files"]
	if len(fhs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No files provided",
			"requestID": requestID,
		})
		return
	}

	accepted := []model.File{}
	rejected := []string{}

	for _, fh := range fhs {
		src, err := fh.Open()
		if err != nil {
			zap.L().Error("Failed to open multipart file",
				zap.String("requestID", requestID),
				zap.String("file", fh.Filename),
				zap.Error(err))
			rejected = append(rejected, fh.Filename)
			continue
		}

		rec, err := d.Files.Register(id, fh.Filename, src)
		src.Close()

		if err != nil {
			if errors.Is(err, service.ErrNotAllowed) {
				rejected = append(rejected, fh.Filename)
				continue
			}

			// A missing mission or a storage failure kills the batch
			fail(c, requestID, err)
			return
		}

		accepted = append(accepted, *rec)
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted":       len(accepted),
		"rejected":       len(rejected),
		"files":          accepted,
		"rejected_names": rejected,
	})
}
