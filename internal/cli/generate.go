package cli

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [invoice.json]",
		Short: "Rechnungsdokument aus JSON erzeugen",
		Long: `Validate the invoice and render it as XRechnung CII or UBL, as ZUGFeRD PDF
(visual PDF with the CII attached), as plain PDF or as a ZIP bundle of all three.`,
		Example: `  # ZUGFeRD PDF named after the invoice number
  erechnung generate rechnung.json

  # XRechnung UBL to stdout
  erechnung generate rechnung.json --format UBL -o -

  # everything at once
  erechnung generate rechnung.json --format ZIP -o rechnung.zip`,
		Args: cobra.ExactArgs(1),
	}
	format := cmd.Flags().StringP("format", "f", "", "CII, UBL, ZUGFeRD, PDF or ZIP (default from INVOICE_FORMAT)")
	template := cmd.Flags().StringP("template", "t", "", "PDF template (default from INVOICE_TEMPLATE)")
	output := cmd.Flags().StringP("output", "o", "", "output file, - for stdout (default: generated file name)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log := app.Log.WithComponent("generate")

		inv, err := readInvoiceFile(args[0])
		if err != nil {
			return err
		}
		doc, err := app.Generate.Generate(cmd.Context(), inv, *format, *template)
		if err != nil {
			return err
		}

		out := *output
		if out == "" {
			out = doc.Filename
		}
		if err := writeOutput(cmd, out, doc.Content); err != nil {
			return err
		}
		log.Info().
			Str("file", args[0]).
			Str("output", out).
			Str("total", doc.Totals.Rounded().Total.StringFixed(2)).
			Msg("document written")
		return nil
	}
	return cmd
}
