package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/corpus"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file-or-dir>...",
	Short: "Import question seed files into the corpus",
	Long: `Validate and import JSON question files. Directories are scanned for *.json.

Each file is checked against the seed schema. Records that fail validation
are skipped and reported; the rest are upserted by ID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().Bool("replace", false, "Delete the existing corpus before importing")
	seedCmd.Flags().Bool("dry-run", false, "Validate only; do not write to the database")
	seedCmd.Flags().Int("show-skipped", 20, "Number of skipped records to list")
}

func runSeed(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	showSkipped, _ := cmd.Flags().GetInt("show-skipped")

	loaded := &corpus.LoadResult{}
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		var res *corpus.LoadResult
		if info.IsDir() {
			res, err = corpus.LoadDir(path)
		} else {
			res, err = corpus.LoadFile(path)
		}
		if err != nil {
			return err
		}
		loaded.Records = append(loaded.Records, res.Records...)
		loaded.Skipped = append(loaded.Skipped, res.Skipped...)
		loaded.Files += res.Files
	}

	fmt.Printf("Read %d files: %d records valid, %d skipped\n",
		loaded.Files, len(loaded.Records), len(loaded.Skipped))
	for i, s := range loaded.Skipped {
		if i == showSkipped {
			fmt.Printf("  ... and %d more\n", len(loaded.Skipped)-showSkipped)
			break
		}
		fmt.Printf("  %s[%d]: %s\n", s.File, s.Index, s.Reason)
	}
	if dryRun {
		return nil
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	repo := st.QuestionRepo()
	if replace {
		if err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear corpus: %w", err)
		}
	}
	n, err := repo.Upsert(ctx, loaded.Records)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count corpus: %w", err)
	}
	fmt.Printf("Imported %d records; corpus now holds %d\n", n, total)
	return nil
}
