package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/auth"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Generate  *invoicing.GenerateUseCase
	Import    *invoicing.ImportUseCase
	Archive   *invoicing.ArchiveUseCase // nil without database
	Upload    *invoicing.UploadUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// Router registers the API routes. Public routes are registered before the
// protected group so the auth middleware never sees them.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoiceHandler := NewInvoiceHandler(deps.Generate, deps.Import, deps.Archive, deps.Upload, deps.Log)

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Invoices (public, stateless)
	api.Get("/invoices/draft", invoiceHandler.Draft)
	api.Post("/invoices/totals", invoiceHandler.Totals)
	api.Post("/invoices/validate", invoiceHandler.Validate)
	api.Post("/invoices/validate-xml", invoiceHandler.ValidateXML)
	api.Post("/invoices/generate", invoiceHandler.Generate)
	api.Post("/invoices/parse", invoiceHandler.Parse)

	// Uploads (authorised by the token in the URL)
	uploadHandler := NewUploadHandler(deps.Upload, deps.Log)
	api.Put("/uploads/:token", uploadHandler.Put)

	// Downloads (authorised by the token in the URL)
	api.Get("/downloads/:token", RequireModule("archive", deps.Archive != nil), invoiceHandler.DownloadByToken)

	// Protected routes (Bearer token)
	protected := api.Group("/invoices", AuthMiddleware(deps.JWTSecret))
	protected.Post("/upload-url", invoiceHandler.UploadURL)

	archive := protected.Group("", RequireModule("archive", deps.Archive != nil))
	archive.Post("/", invoiceHandler.Create)
	archive.Get("/", invoiceHandler.List)
	archive.Get("/:id", invoiceHandler.GetByID)
	archive.Get("/:id/download", invoiceHandler.Download)
	archive.Get("/:id/download-url", invoiceHandler.DownloadURL)
}
