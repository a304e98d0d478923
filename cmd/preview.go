package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/app"
	"github.com/abhisek/quizsupply/internal/supply"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Practice a supplied question set in the terminal",
	Long: `Open an interactive screen to request question sets and answer them.

With --grade, --subject and --difficulty all set the first set is supplied
straight away. Questions answered here count as supplied, like any other call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := rawRequestFromFlags(cmd)

		eng, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		opts := app.Options{Supplier: eng.supplier, Initial: raw}
		if raw.Grade != "" && raw.Subject != "" && raw.Difficulty != "" {
			req, err := supply.ParseRequest(raw)
			if err != nil {
				return err
			}
			res, err := eng.supplier.Supply(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", supply.UserMessage(err), err)
			}
			opts.Result = res
		}
		return app.Run(cmd.Context(), opts)
	},
}

func init() {
	addRequestFlags(previewCmd)
}
