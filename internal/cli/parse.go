package cli

import (
	"github.com/spf13/cobra"
)

func newParseCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [invoice.xml]",
		Short: "XRechnung (CII oder UBL) in JSON umwandeln",
		Example: `  erechnung parse XRechnung_RE-1_CII.xml
  erechnung parse eingang.xml -o eingang.json`,
		Args: cobra.ExactArgs(1),
	}
	output := cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log := app.Log.WithComponent("parse")

		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := app.Import.Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		if !res.Consistent {
			log.Warn().Str("file", args[0]).Msg("stated totals differ from the line items")
		}
		return writeJSON(cmd, *output, res)
	}
	return cmd
}
