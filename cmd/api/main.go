package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	_ "github.com/jhoicas/invoice-pdf/docs"
	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
	infrapdf "github.com/jhoicas/invoice-pdf/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/invoice-pdf/internal/interfaces/http"
	"github.com/jhoicas/invoice-pdf/pkg/config"
	"github.com/jhoicas/invoice-pdf/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title        Invoice PDF API
// @version      1.0
// @description  Generates numbered showroom invoices as PDF downloads.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("starting application")

	ctx := context.Background()

	var (
		sequences repository.SequenceStore
		journal   repository.IssuanceRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		sequences = postgres.NewSequenceRepository(pool, cfg.Storage.SequenceName)
		journal = postgres.NewIssuanceRepository(pool)
	default:
		sequences = storage.NewFileSequenceStore(afero.NewOsFs(), cfg.Storage.CounterFile)
		log.Info().Str("counter_file", cfg.Storage.CounterFile).Msg("using file counter, issuance journal disabled")
	}

	var archive billing.Archiver
	if cfg.Storage.ArchiveDir != "" {
		archive = storage.NewArchive(afero.NewOsFs(), cfg.Storage.ArchiveDir)
	}

	invoiceSvc := billing.NewInvoiceService(billing.InvoiceServiceDeps{
		Allocator: billing.NewSequenceAllocator(sequences),
		Renderer:  infrapdf.NewMarotoRenderer(),
		Journal:   journal,
		Archive:   archive,
		Branding: entity.Branding{
			CompanyName: cfg.Branding.CompanyName,
			Slogan:      cfg.Branding.Slogan,
			Address:     cfg.Branding.Address,
			Phone:       cfg.Branding.Phone,
			Email:       cfg.Branding.Email,
			Website:     cfg.Branding.Website,
		},
		Logger: log.Named("billing"),
	})

	if next, err := invoiceSvc.PreviewNumber(ctx); err != nil {
		log.Fatal().Err(err).Msg("invoice counter unusable")
	} else {
		log.Info().Str("next_invoice_number", next).Msg("invoice counter ready")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Invoice PDF API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices: invoiceSvc,
		Logger:   log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
