package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/store"
	"github.com/abhisek/quizsupply/internal/supply"
)

// engine bundles the store and the supply pipeline built on top of it.
type engine struct {
	store    *store.Store
	corpus   *corpus.Live
	index    *dedup.Index
	supplier supply.Supplier
}

// openStore opens the database selected by flags and config.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn, err := resolveDSN(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.OpenContext(cmd.Context(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openEngine opens the store, loads the corpus snapshot, replays the
// persisted dedup index and builds a recording supplier.
func openEngine(cmd *cobra.Command) (*engine, error) {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	live, err := loadCorpus(ctx, st)
	if err != nil {
		st.Close()
		return nil, err
	}

	index := dedup.NewIndex()
	journal := st.SignatureRepo()
	if _, err := dedup.Restore(ctx, journal, index); err != nil {
		st.Close()
		return nil, fmt.Errorf("restore dedup index: %w", err)
	}

	pc := cfg.Pipeline()
	pc.Journal = journal
	pipeline := supply.New(live, index, pc)

	return &engine{
		store:    st,
		corpus:   live,
		index:    index,
		supplier: supply.WithRecording(pipeline, st.EventRepo()),
	}, nil
}

func loadCorpus(ctx context.Context, st *store.Store) (*corpus.Live, error) {
	records, err := st.QuestionRepo().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return corpus.NewLive(corpus.NewSnapshot(records)), nil
}

func (e *engine) Close() error {
	return e.store.Close()
}
