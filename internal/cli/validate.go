package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// errInvalid makes the command exit non-zero after printing the result.
var errInvalid = errors.New("ungültige Rechnung")

func newValidateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [invoice.json|invoice.xml]",
		Short: "Rechnungsdaten oder XML-Struktur prüfen",
		Long: `For JSON input run the business checks of the invoice form (all of them,
or one wizard step with --step 1..4). For XML input check well-formedness and
the CII / UBL root element.`,
		Args: cobra.ExactArgs(1),
	}
	step := cmd.Flags().Int("step", int(invoice.StepComplete), "1 sender, 2 recipient, 3 details, 4 items, 5 all")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log := app.Log.WithComponent("validate")
		path := args[0]

		if strings.EqualFold(filepath.Ext(path), ".xml") {
			data, err := readInput(path)
			if err != nil {
				return err
			}
			res := xrechnung.ValidateStructure(data)
			if err := writeJSON(cmd, "", res); err != nil {
				return err
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		}

		if *step < int(invoice.StepSender) || *step > int(invoice.StepComplete) {
			return fmt.Errorf("--step muss zwischen 1 und 5 liegen, nicht %d", *step)
		}
		inv, err := readInvoiceFile(path)
		if err != nil {
			return err
		}
		res := invoice.ValidateStep(invoice.Step(*step), inv)
		log.Debug().Str("file", path).Int("step", *step).Int("errors", len(res.Errors)).Msg("validated")
		if err := writeJSON(cmd, "", res); err != nil {
			return err
		}
		if !res.Valid {
			return errInvalid
		}
		return nil
	}
	return cmd
}
