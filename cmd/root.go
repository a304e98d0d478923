package cmd

import (
	"fmt"
	"os"

	"entgo.io/ent/dialect"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/config"
	"github.com/abhisek/quizsupply/internal/store"
)

// cfg is loaded once per invocation by the root command's pre-run hook.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "quizsupply",
	Short: "Question supply engine for grade-school practice",
	Long: `quizsupply serves sets of unique multiple-choice questions for a grade,
subject and difficulty. It draws from a pre-authored corpus first and falls
back to verified template generators, so a request always gets enough
questions without repeats.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite file or postgres:// URL (overrides QUIZSUPPLY_DB and the config file)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")

	rootCmd.AddCommand(supplyCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig applies, in increasing priority: defaults, the config file,
// the env file and QUIZSUPPLY_* variables.
func loadConfig(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	c := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		c = loaded
	}
	if err := c.ApplyEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg = c
	return nil
}

// resolveDSN returns the database to open: the --db flag, then the config
// (including QUIZSUPPLY_DB), then the default XDG path.
func resolveDSN(cmd *cobra.Command) (string, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = cfg.Store.DSN
	}
	if dsn == "" {
		return store.DefaultDBPath()
	}
	if store.DialectFor(dsn) == dialect.Postgres {
		return dsn, nil
	}
	return dsn, store.EnsureDir(dsn)
}
