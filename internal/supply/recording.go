package supply

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/quizsupply/internal/store"
)

// Outcomes recorded with each supply event.
const (
	OutcomeOK       = "ok"
	OutcomePartial  = "partial"
	OutcomeCritical = "critical"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// RecordingSupplier is a decorator that records every supply call as an
// event.
type RecordingSupplier struct {
	inner     Supplier
	eventRepo store.EventRepo
}

// WithRecording wraps a Supplier with event recording.
func WithRecording(s Supplier, repo store.EventRepo) Supplier {
	return &RecordingSupplier{inner: s, eventRepo: repo}
}

func (r *RecordingSupplier) Supply(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := r.inner.Supply(ctx, req)

	data := store.SupplyEventData{
		Grade:        int(req.Grade),
		Subject:      string(req.Subject),
		Difficulty:   string(req.Difficulty),
		DesiredCount: req.DesiredCount,
		Outcome:      Outcome(res, err),
		LatencyMs:    time.Since(start).Milliseconds(),
		Seed:         req.Seed,
	}
	if res != nil {
		data.Delivered = len(res.Questions)
		data.Warnings = res.Warnings
		data.Seed = res.Seed
		data.TierCounts = make(map[string]int, len(res.TierCounts))
		for t, n := range res.TierCounts {
			data.TierCounts[string(t)] = n
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var crit *CriticalSupplyError
		if errors.As(err, &crit) {
			data.Delivered = crit.Accepted
			data.Warnings = crit.Details()
		}
	}

	// Record the event but don't fail the call if recording fails.
	if recErr := r.eventRepo.AppendSupply(ctx, data); recErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record supply event: %v\n", recErr)
	}

	return res, err
}

// Outcome classifies a Supply return for recording and reporting.
func Outcome(res *Result, err error) string {
	var (
		crit   *CriticalSupplyError
		reqErr *RequestError
	)
	switch {
	case errors.As(err, &crit):
		return OutcomeCritical
	case errors.As(err, &reqErr):
		return OutcomeInvalid
	case err != nil:
		return OutcomeError
	case res != nil && res.Partial:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}
