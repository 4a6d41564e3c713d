// Package cli implements the erechnung command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/logger"
)

var version = "1.0.0"

// App holds what the commands need.
type App struct {
	Generate *invoicing.GenerateUseCase
	Import   *invoicing.ImportUseCase
	Log      *logger.Logger
	Now      func() time.Time
}

// NewRootCommand wires all subcommands.
func NewRootCommand(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	root := &cobra.Command{
		Use:   "erechnung",
		Short: "XRechnung / ZUGFeRD erzeugen, einlesen und prüfen",
		Long: `erechnung builds EN 16931 e-invoices (XRechnung CII and UBL, ZUGFeRD PDF)
from invoice JSON and reads such documents back into JSON.

Invoice JSON uses the same shape as the HTTP API; older field names
(sender.iban, notes.introText, items[].price) are accepted too.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newGenerateCommand(app),
		newParseCommand(app),
		newValidateCommand(app),
		newTotalsCommand(app),
		newDraftCommand(app),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(app *App) {
	log := app.Log.WithComponent("cmd")
	if err := NewRootCommand(app).Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Fehler: %v\n", err)
		os.Exit(1)
	}
}

// ── Shared helpers ──────────────────────────────────────────────────────────

func readInvoiceFile(path string) (*invoice.Invoice, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	inv, err := invoice.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

// readInput reads a file, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout for "" and "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return writeOutput(cmd, path, append(data, '\n'))
}
