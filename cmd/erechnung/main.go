package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/cli"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/pdf"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/config"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/logger"
)

func main() {
	// A missing .env is normal for the CLI.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Konfiguration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries documents, so logs go to stderr
	log := logger.NewWithWriter(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}, os.Stderr)

	format, err := invoicing.ParseFormat(cfg.Invoice.DefaultFormat)
	if err != nil {
		log.Fatal().Err(err).Str("format", cfg.Invoice.DefaultFormat).Msg("INVOICE_FORMAT")
	}

	gen := invoicing.NewGenerateUseCase(
		xrechnung.NewCIIBuilder(),
		xrechnung.NewUBLBuilder(),
		pdf.NewMarotoRenderer(),
		pdf.NewPDFCPUAttacher(),
		invoicing.Defaults{
			Format:          format,
			Template:        cfg.Invoice.Template,
			CustomizationID: cfg.Invoice.CustomizationID,
			ProfileID:       cfg.Invoice.ProfileID,
		},
		log.WithComponent("generate"),
	)

	cli.Execute(&cli.App{
		Generate: gen,
		Import:   invoicing.NewImportUseCase(xrechnung.NewParser(), log.WithComponent("import")),
		Log:      log,
	})
}
