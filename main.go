package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	log "github.com/sirupsen/logrus"

	"volunteerhub_backend/internals/configs"
	database "volunteerhub_backend/internals/databases"
	"volunteerhub_backend/internals/features/events/registrations/scheduler"
	helper "volunteerhub_backend/internals/helpers"
	middlewares "volunteerhub_backend/internals/middlewares"
	routes "volunteerhub_backend/internals/route"
	"volunteerhub_backend/internals/seeds"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	configs.SetupLogger(cfg)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.FiberErrorHandler,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             1 << 20,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg)

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DSN); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	database.TunePool(db)

	services := routes.NewServices(db, cfg)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := services.Auth.SeedOrganizer(seedCtx, cfg.OrganizerEmail, cfg.OrganizerPassword, cfg.OrganizerName); err != nil {
		log.WithError(err).Error("organizer seed failed")
	}
	if cfg.SeedDir != "" {
		if err := seeds.RunAllSeeds(seedCtx, db, services.Events, cfg.SeedDir); err != nil {
			log.WithError(err).Error("demo seed failed")
		}
	}
	cancelSeed()

	// scheduler after DB is ready
	reconciler, err := scheduler.StartReconcileScheduler(services.Ledger, cfg.ReconcileCron, 2*time.Minute)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	routes.SetupRoutes(app, services, cfg)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop accepting, let cron finish, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	select {
	case <-reconciler.Stop().Done():
	case <-ctx.Done():
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
