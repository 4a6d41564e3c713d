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

	_ "github.com/DennisBaerXY/kostenlose-erechnung/docs"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/auth"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	infrapdf "github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/pdf"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/postgres"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/storage"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
	httpRouter "github.com/DennisBaerXY/kostenlose-erechnung/internal/interfaces/http"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/config"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/logger"
)

// @title                       kostenlose-erechnung API
// @version                     1.0
// @description                 XRechnung / ZUGFeRD erzeugen, einlesen und archivieren.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	format, err := invoicing.ParseFormat(cfg.Invoice.DefaultFormat)
	if err != nil {
		log.Fatal().Err(err).Str("format", cfg.Invoice.DefaultFormat).Msg("INVOICE_FORMAT")
	}
	if !infrapdf.HasTemplate(cfg.Invoice.Template) {
		log.Fatal().Str("template", cfg.Invoice.Template).Strs("available", infrapdf.Templates()).Msg("INVOICE_TEMPLATE")
	}

	// Generation and import are stateless and always available.
	generateUC := invoicing.NewGenerateUseCase(
		xrechnung.NewCIIBuilder(),
		xrechnung.NewUBLBuilder(),
		infrapdf.NewMarotoRenderer(),
		infrapdf.NewPDFCPUAttacher(),
		invoicing.Defaults{
			Format:          format,
			Template:        cfg.Invoice.Template,
			CustomizationID: cfg.Invoice.CustomizationID,
			ProfileID:       cfg.Invoice.ProfileID,
		},
		log.WithComponent("generate"),
	)
	importUC := invoicing.NewImportUseCase(xrechnung.NewParser(), log.WithComponent("import"))

	// Archive only with a database.
	var archiveUC *invoicing.ArchiveUseCase
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL connection")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, postgres.NewTxRunner(pool)); err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL schema")
		}
		archiveUC = invoicing.NewArchiveUseCase(postgres.NewInvoiceRepository(pool), generateUC, invoicing.LinkConfig{
			Secret:  cfg.JWT.Secret,
			Issuer:  cfg.JWT.Issuer,
			BaseURL: cfg.Storage.PublicBaseURL,
			TTL:     time.Duration(cfg.Storage.UploadTTLMinutes) * time.Minute,
		}, log.WithComponent("archive"))
	} else {
		log.Warn().Msg("no database configured, invoice archive disabled")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET empty, tokens and upload URLs cannot be issued")
	}

	store, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload directory")
	}
	bodyLimit := cfg.HTTP.BodyLimitMB << 20
	uploadUC := invoicing.NewUploadUseCase(invoicing.UploadConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		BaseURL:  cfg.Storage.PublicBaseURL,
		TTL:      time.Duration(cfg.Storage.UploadTTLMinutes) * time.Minute,
		MaxBytes: int64(bodyLimit),
	}, store, log.WithComponent("upload"))

	authUC := auth.NewAuthUseCase(
		auth.Account{User: cfg.Auth.User, PasswordHash: cfg.Auth.PasswordHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "kostenlose-erechnung API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.App.Name, Database: archiveUC != nil})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Generate:  generateUC,
		Import:    importUC,
		Archive:   archiveUC,
		Upload:    uploadUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.WithComponent("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
