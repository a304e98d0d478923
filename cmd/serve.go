package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the supply API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		eng, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		content, answerSets := eng.index.Len()
		fmt.Fprintf(os.Stderr, "corpus: %d questions, dedup index: %d prompts / %d answer sets\n",
			eng.corpus.Snapshot().Len(), content, answerSets)
		fmt.Fprintf(os.Stderr, "listening on %s\n", cfg.Server.Addr)

		srv := api.New(eng.supplier, eng.corpus, api.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
			ThinThreshold:  cfg.Corpus.ThinThreshold,
		})
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZSUPPLY_ADDR and the config file)")
}
