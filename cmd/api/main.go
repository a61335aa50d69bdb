package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedrop/docs"
	"filedrop/internal/config"
	handlers "filedrop/internal/http/handler"
	"filedrop/internal/http/middleware"
	"filedrop/internal/otel"
	"filedrop/internal/qr"
	"filedrop/internal/repository/jsonfile"
	"filedrop/internal/service"
	"filedrop/internal/storage"
)

// @title FileDrop API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing (env-driven, degrades to noop)
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize blob storage: flat local-disk directory by default, an
	// S3-compatible object store when STORAGE_BACKEND=s3.
	var blobStore storage.Storage
	switch cfg.Storage.Backend {
	case "s3":
		blobStore, err = storage.NewMinIO(cfg.MinIO)
	default:
		blobStore, err = storage.NewLocal(cfg.Storage.UploadDir)
	}
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Record store: one JSON blob holding the full record map
	recordRepo, err := jsonfile.NewRecordJSONFile(cfg.Storage.StoreFile)
	if err != nil {
		log.Fatalf("failed to initialize record store: %v", err)
	}

	// Prometheus registry with the service collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := service.NewMetrics(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	shareSvc := service.NewShareService(blobStore, recordRepo, qr.NewPNGEncoder(256), metrics, service.Options{
		BaseURL:  "http://" + cfg.AppHost,
		TTL:      cfg.Share.TTL,
		IDLength: cfg.Share.IDLength,
	})

	// Expiry sweeper runs for the lifetime of the process
	sweeper := service.NewSweeper(shareSvc, cfg.Share.SweepInterval)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Share.MaxUploadBytes) + 1<<20, // headroom for multipart framing
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register request metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, shareSvc, cfg.Share.MaxUploadBytes)
	handlers.RegisterPages(app)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
