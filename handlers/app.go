package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "github.com/SravanthiSinha/SmartClip/docs" // registers the swagger docs
	"github.com/SravanthiSinha/SmartClip/middleware"
	"github.com/SravanthiSinha/SmartClip/utils"
)

// AppConfig holds the HTTP surface settings.
type AppConfig struct {
	// CORSOrigins is a comma separated list, or "*".
	CORSOrigins string
	BodyLimit   int
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(h *ApplicationHandler, cfg AppConfig) *fiber.App {
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	app := fiber.New(fiber.Config{
		AppName:      "SmartClip",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(h.Logger))

	RegisterRoutes(app, h)

	app.Use(func(c *fiber.Ctx) error {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Endpoint not found")
	})
	return app
}

// RegisterRoutes mounts the API on router.
func RegisterRoutes(router fiber.Router, h *ApplicationHandler) {
	router.Get("/health", h.HealthCheck)
	router.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := router.Group("/api")

	videos := api.Group("/videos")
	videos.Get("", h.ListVideos)
	videos.Post("/upload", h.CreateUpload)
	videos.Get("/:id", h.GetVideo)
	videos.Get("/:id/status", h.GetVideoStatus)
	videos.Post("/:id/analyze", h.AnalyzeVideo)
	videos.Get("/:id/moments", h.ListMoments)

	moments := api.Group("/moments")
	moments.Post("/:id/create-clip", h.CreateClip)
	moments.Post("/:id/refine", h.RefineMoment)

	api.Get("/clips/:id", h.GetClip)
	api.Post("/webhooks/mux", h.MuxWebhook)
}
