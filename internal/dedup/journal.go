package dedup

import (
	"context"
	"fmt"
)

// Journal persists claimed signatures so the global index survives restarts.
type Journal interface {
	// AppendSignatures stores newly claimed signatures. Signatures already
	// stored must be ignored.
	AppendSignatures(ctx context.Context, sigs []Signatures) error

	// LoadSignatures returns every stored signature.
	LoadSignatures(ctx context.Context) ([]Signatures, error)

	// ResetSignatures deletes every stored signature.
	ResetSignatures(ctx context.Context) error
}

// Restore replays the journal into idx and returns the number of entries
// loaded.
func Restore(ctx context.Context, j Journal, idx *Index) (int, error) {
	sigs, err := j.LoadSignatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("load signatures: %w", err)
	}
	for _, s := range sigs {
		idx.Insert(s)
	}
	return len(sigs), nil
}

// Reset clears both the in-memory index and the journal.
func Reset(ctx context.Context, j Journal, idx *Index) error {
	if j != nil {
		if err := j.ResetSignatures(ctx); err != nil {
			return fmt.Errorf("reset signatures: %w", err)
		}
	}
	if idx != nil {
		idx.Reset()
	}
	return nil
}
