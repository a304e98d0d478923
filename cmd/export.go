package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/corpus"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored corpus as a seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.QuestionRepo().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := corpus.Write(w, records); err != nil {
			return fmt.Errorf("write seed file: %w", err)
		}
		if w != cmd.OutOrStdout() {
			fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(records), out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
}
