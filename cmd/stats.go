package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus coverage per grade, subject and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		thinOnly, _ := cmd.Flags().GetBool("thin")
		threshold, _ := cmd.Flags().GetInt("threshold")
		asJSON, _ := cmd.Flags().GetBool("json")
		if threshold <= 0 {
			threshold = cfg.Corpus.ThinThreshold
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		live, err := loadCorpus(ctx, st)
		if err != nil {
			return err
		}
		cov := live.Snapshot().Coverage(threshold)
		sum := corpus.Summarize(cov)

		seen, err := st.SignatureRepo().Count(ctx)
		if err != nil {
			return fmt.Errorf("count signatures: %w", err)
		}

		if thinOnly {
			filtered := cov[:0:0]
			for _, c := range cov {
				if c.Thin {
					filtered = append(filtered, c)
				}
			}
			cov = filtered
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"summary":        sum,
				"coverage":       cov,
				"seenSignatures": seen,
			})
		}

		fmt.Printf("%5s  %-24s  %-10s  %6s\n", "Grade", "Subject", "Difficulty", "Count")
		fmt.Println(strings.Repeat("─", 52))
		for _, c := range cov {
			line := fmt.Sprintf("%5d  %-24s  %-10s  %6d", c.Grade, c.Subject, c.Difficulty, c.Count)
			switch {
			case c.Count == 0:
				line = theme.Incorrect.Render(line + "  empty")
			case c.Thin:
				line = theme.Warning.Render(line + "  thin")
			}
			fmt.Println(line)
		}
		fmt.Println(strings.Repeat("─", 52))
		fmt.Printf("%d questions across %d combinations: %d thin (< %d), %d empty\n",
			sum.Total, sum.Combinations, sum.Thin, threshold, sum.Empty)
		fmt.Printf("%d questions already supplied (dedup index)\n", seen)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("thin", false, "Only list combinations below the thin threshold")
	statsCmd.Flags().Int("threshold", 0, "Thin threshold (default from config)")
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}
