package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tripdocs/internal/cache"
	"tripdocs/internal/config"
	"tripdocs/internal/database"
	"tripdocs/internal/database/migration"
	handlers "tripdocs/internal/http/handler"
	"tripdocs/internal/http/middleware"
	"tripdocs/internal/logger"
	"tripdocs/internal/otel"
	"tripdocs/internal/repository"
	"tripdocs/internal/repository/postgres"
	"tripdocs/internal/service"
	"tripdocs/internal/storage"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Primary self-hosted file server, optional S3-compatible fallback.
	fileServer := storage.NewFileServer(cfg.FileServer)
	var fallback storage.Backend
	if cfg.S3.Bucket != "" {
		objStore, err := storage.NewObjectStore(cfg.S3)
		if err != nil {
			zlog.Fatal("failed to initialize object storage", zap.Error(err))
		}
		fallback = objStore
	} else {
		zlog.Warn("no fallback object storage configured, uploads fail when the file server is down")
	}
	store := storage.NewService(fileServer, fallback, zlog)

	var blacklist cache.TokenBlacklist
	if cfg.Redis.Addr != "" {
		blacklist, err = cache.NewRedisBlacklist(cfg.Redis)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
	} else {
		blacklist = cache.NewMemoryBlacklist()
	}

	bookingRepo := postgres.NewBookingPostgres(db)
	documentRepo := postgres.NewDocumentPostgres(db)
	shareRepo := postgres.NewShareTokenPostgres(db)

	shareSvc := service.NewShareService(bookingRepo, shareRepo, cfg.Share, zlog)
	documentSvc := service.NewDocumentService(bookingRepo, documentRepo, shareSvc, store, cfg.Upload, zlog)
	bookingSvc := service.NewBookingService(bookingRepo, shareSvc, zlog)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpiredTokens(sweepCtx, shareRepo, zlog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		zlog.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart overhead on top of the per-file limit.
		BodyLimit: int(cfg.Upload.MaxFileSize) + 1<<20,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zlog))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	auth := middleware.RequireAuth(cfg.Auth.JWTSecret, blacklist, zlog)
	handlers.RegisterRoutes(app, db, auth,
		handlers.NewBookingHandler(bookingSvc),
		handlers.NewDocumentHandler(documentSvc),
		handlers.NewShareHandler(shareSvc, documentSvc))

	go func() {
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}

// sweepExpiredTokens periodically removes share tokens past their expiry.
// Expiry checks do not depend on it; it only keeps the table small.
func sweepExpiredTokens(ctx context.Context, tokens repository.ShareTokenRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Warn("expired token sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired share tokens removed", zap.Int64("count", n))
			}
		}
	}
}
