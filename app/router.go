// Package app wires the HTTP layer on top of the mission services
package app

import (
	"fmt"
	"time"

	"dronedeck/mission-api/app/file"
	"dronedeck/mission-api/app/mission"
	"dronedeck/mission-api/app/root"
	"dronedeck/mission-api/db"
	"dronedeck/mission-api/internal"
	"dronedeck/mission-api/internal/classify"
	"dronedeck/mission-api/internal/service"
	"dronedeck/mission-api/internal/storage"
	"dronedeck/mission-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	gdb, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = gdb

	d.Layout = storage.NewLayout(
		viper.GetString("storage.root"),
		viper.GetString("storage.scratch"),
	)
	d.Classifier = classify.New(viper.GetStringMapStringSlice("upload.extensions"))

	droneModel := viper.GetString("metadata.drone_model")
	d.Extractor = service.NewExtractor(gdb, droneModel)
	d.Missions = service.NewMissionRegistry(gdb, d.Layout, droneModel)
	d.Files = service.NewFileRegistry(gdb, d.Layout, d.Classifier, d.Extractor)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	maxUploadSize := viper.GetInt64("upload.max_size")

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat			-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	ms := m.Group("/missions")
	{
		// GET /api/missions			-> Lists or searches missions
		ms.GET("", cacheFor(15), func(c *gin.Context) { mission.Search(c, d) })

		// POST /api/missions			-> Creates a new mission
		ms.POST("", func(c *gin.Context) { mission.Create(c, d) })

		// GET /api/missions/:id		-> Returns a mission with metadata and file summary
		ms.GET("/:id", func(c *gin.Context) { mission.Fetch(c, d) })

		// PUT /api/missions/:id		-> Updates a mission's name, flight date or description
		ms.PUT("/:id", func(c *gin.Context) { mission.Edit(c, d) })

		// DELETE /api/missions/:id		-> Deletes a mission, its files and its directory tree
		ms.DELETE("/:id", func(c *gin.Context) { mission.Delete(c, d) })

		// GET /api/missions/:id/files		-> Lists a mission's files, optionally by category
		ms.GET("/:id/files", func(c *gin.Context) { mission.Files(c, d) })

		// POST /api/missions/:id/files		-> Uploads a batch of files into a mission
		ms.POST("/:id/files", middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { mission.Upload(c, d) })

		// GET /api/missions/:id/archive	-> Builds and streams a zip of the mission's files
		ms.GET("/:id/archive", func(c *gin.Context) { mission.Archive(c, d) })
	}

	fs := m.Group("/files")
	{
		// GET /api/files/:id			-> Serves a stored file
		fs.GET("/:id", func(c *gin.Context) { file.Serve(c, d) })

		// DELETE /api/files/:id		-> Deletes a file and its record
		fs.DELETE("/:id", func(c *gin.Context) { file.Delete(c, d) })
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()

	var lvl zapcore.Level
	if err := lvl.Set(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
