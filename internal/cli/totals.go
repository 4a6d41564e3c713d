package cli

import (
	"github.com/spf13/cobra"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

func newTotalsCommand(_ *App) *cobra.Command {
	return &cobra.Command{
		Use:   "totals [invoice.json]",
		Short: "Netto, Steuer und Brutto berechnen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := readInvoiceFile(args[0])
			if err != nil {
				return err
			}
			t := inv.Totals()
			return writeJSON(cmd, "", dto.TotalsResponse{Totals: t, Rounded: t.Rounded()})
		},
	}
}

func newDraftCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Leeren Rechnungsentwurf als JSON ausgeben",
		Args:  cobra.NoArgs,
	}
	output := cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd, *output, invoice.NewDraft(app.Now()))
	}
	return cmd
}
