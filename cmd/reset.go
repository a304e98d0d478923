package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/dedup"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget supplied questions so they can be served again",
	Long: `Clear the persisted dedup index. After a reset, questions that were
already supplied become eligible again. With --corpus the stored questions
are deleted too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withCorpus, _ := cmd.Flags().GetBool("corpus")
		if !yes {
			return fmt.Errorf("reset is irreversible; re-run with --yes to confirm")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		journal := st.SignatureRepo()
		n, err := journal.Count(ctx)
		if err != nil {
			return fmt.Errorf("count signatures: %w", err)
		}
		if err := dedup.Reset(ctx, journal, nil); err != nil {
			return err
		}
		fmt.Printf("Cleared %d supplied question signatures\n", n)

		if withCorpus {
			repo := st.QuestionRepo()
			c, err := repo.Count(ctx)
			if err != nil {
				return fmt.Errorf("count corpus: %w", err)
			}
			if err := repo.DeleteAll(ctx); err != nil {
				return fmt.Errorf("clear corpus: %w", err)
			}
			fmt.Printf("Deleted %d corpus questions\n", c)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("corpus", false, "Also delete the stored corpus")
}
