package supply

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizsupply/internal/question"
)

func TestWithRecording_Success(t *testing.T) {
	repo := &memEventRepo{}
	inner := funcSupplier(func(context.Context, Request) (*Result, error) {
		return &Result{
			Questions:  make([]question.Record, 5),
			TierCounts: map[Tier]int{TierExactMatch: 2, TierTemplateGenerate: 3},
			Warnings:   []string{"thin"},
			Seed:       77,
		}, nil
	})

	s := WithRecording(inner, repo)
	res, err := s.Supply(context.Background(), Request{Grade: 2, Subject: question.SubjectEnglish, Difficulty: question.DifficultyEasy, DesiredCount: 5})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, 2, ev.Grade)
	assert.Equal(t, "English", ev.Subject)
	assert.Equal(t, OutcomeOK, ev.Outcome)
	assert.Equal(t, 5, ev.Delivered)
	assert.Equal(t, map[string]int{"EXACT_MATCH": 2, "TEMPLATE_GENERATE": 3}, ev.TierCounts)
	assert.Equal(t, []string{"thin"}, ev.Warnings)
	assert.Equal(t, uint64(77), ev.Seed)
}

func TestWithRecording_Critical(t *testing.T) {
	repo := &memEventRepo{}
	crit := &CriticalSupplyError{
		Combination: Combination{Grade: 1, Subject: question.SubjectReading, Difficulty: question.DifficultyEasy},
		Accepted:    1, Minimum: 3, Desired: 5,
		Exhausted: []TierExhaustion{{Tier: TierTemplateGenerate, Contributed: 1, Attempts: 25, Failures: 0}},
	}
	inner := funcSupplier(func(context.Context, Request) (*Result, error) { return nil, crit })

	_, err := WithRecording(inner, repo).Supply(context.Background(), Request{Grade: 1, Subject: question.SubjectReading, Difficulty: question.DifficultyEasy, DesiredCount: 5})
	assert.Same(t, crit, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, OutcomeCritical, ev.Outcome)
	assert.Equal(t, 1, ev.Delivered)
	assert.Contains(t, ev.ErrorMessage, "grade 1 Reading easy")
	assert.Len(t, ev.Warnings, 1)
}

func TestWithRecording_RepoFailureDoesNotFailCall(t *testing.T) {
	repo := &memEventRepo{err: errors.New("database is locked")}
	want := &Result{Questions: make([]question.Record, 5)}
	inner := funcSupplier(func(context.Context, Request) (*Result, error) { return want, nil })

	got, err := WithRecording(inner, repo).Supply(context.Background(), Request{DesiredCount: 5})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(&Result{}, nil))
	assert.Equal(t, OutcomePartial, Outcome(&Result{Partial: true}, nil))
	assert.Equal(t, OutcomeCritical, Outcome(nil, &CriticalSupplyError{}))
	assert.Equal(t, OutcomeInvalid, Outcome(nil, &RequestError{Field: "grade"}))
	assert.Equal(t, OutcomeError, Outcome(nil, context.Canceled))
}
