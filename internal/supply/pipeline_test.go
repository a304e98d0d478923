package supply

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/templates"
	"github.com/abhisek/quizsupply/internal/validation"
)

// assertWellFormed checks the invariants every result must hold.
func assertWellFormed(t *testing.T, res *Result) {
	t.Helper()
	v := validation.Default()
	content := make(map[string]bool)
	answers := make(map[string]bool)
	for _, q := range res.Questions {
		assert.GreaterOrEqual(t, q.CorrectIndex(), 0, "correct answer missing from options: %q", q.Content)
		assert.Nil(t, v.Validate(&q), "emitted record fails validation: %q", q.Content)
		s := dedup.Of(&q)
		assert.False(t, content[s.Content], "duplicate prompt %q", q.Content)
		assert.False(t, answers[s.AnswerSet], "duplicate answer set %q", s.AnswerSet)
		content[s.Content] = true
		answers[s.AnswerSet] = true
		assert.NotEmpty(t, q.Provenance.Tier)
	}
	total := 0
	for _, n := range res.TierCounts {
		total += n
	}
	assert.Equal(t, len(res.Questions), total, "tier counts must add up")
}

func mathRequest(count int) Request {
	return Request{
		Grade:        9,
		Subject:      question.SubjectMath,
		Difficulty:   question.DifficultyHard,
		DesiredCount: count,
		Seed:         42,
	}
}

func TestSupply_ThinCorpusFallsThroughTiers(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(6, question.SubjectMath, 9, question.DifficultyHard))
	p := New(snap, dedup.NewIndex(), DefaultConfig())

	res, err := p.Supply(context.Background(), mathRequest(25))
	require.NoError(t, err)
	require.Len(t, res.Questions, 25)
	assertWellFormed(t, res)

	assert.Equal(t, 6, res.TierCounts[TierExactMatch])
	assert.Equal(t, 19, 25-res.TierCounts[TierExactMatch])
	assert.False(t, res.Partial)
	assert.NotEmpty(t, res.Warnings, "a thin corpus must be reported")
	assert.Contains(t, res.Warnings[0], "corpus is thin for grade 9 Math hard")
	assert.NotEmpty(t, res.Notice())

	c, a := p.Index().Len()
	assert.Equal(t, 25, c)
	assert.Equal(t, 25, a)
}

func TestSupply_ExactMatchOnly(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(30, question.SubjectMath, 9, question.DifficultyHard))
	p := New(snap, dedup.NewIndex(), DefaultConfig())

	res, err := p.Supply(context.Background(), mathRequest(10))
	require.NoError(t, err)
	require.Len(t, res.Questions, 10)
	assert.Equal(t, map[Tier]int{TierExactMatch: 10}, res.TierCounts)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Notice())
	for _, q := range res.Questions {
		assert.Equal(t, question.SourceCorpus, q.Provenance.Source)
		assert.Equal(t, string(TierExactMatch), q.Provenance.Tier)
	}
}

func TestSupply_ConcurrentCallsNeverShareSignatures(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(30, question.SubjectMath, 9, question.DifficultyHard))
	idx := dedup.NewIndex()
	p := New(snap, idx, DefaultConfig())

	const calls = 8
	var (
		wg      sync.WaitGroup
		results = make([]*Result, calls)
		errs    = make([]error, calls)
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := mathRequest(10)
			req.Seed = uint64(i + 1)
			results[i], errs[i] = p.Supply(context.Background(), req)
		}(i)
	}
	wg.Wait()

	content := make(map[string]int)
	answers := make(map[string]int)
	emitted := 0
	for i := range results {
		require.NoError(t, errs[i])
		assertWellFormed(t, results[i])
		for _, q := range results[i].Questions {
			s := dedup.Of(&q)
			content[s.Content]++
			answers[s.AnswerSet]++
			emitted++
		}
	}
	for sig, n := range content {
		assert.Equal(t, 1, n, "prompt %q emitted by %d calls", sig, n)
	}
	for sig, n := range answers {
		assert.Equal(t, 1, n, "answer set %q emitted by %d calls", sig, n)
	}

	c, a := idx.Len()
	assert.Equal(t, emitted, c)
	assert.Equal(t, emitted, a)
}

func TestSupply_CriticalWhenBelowMinimum(t *testing.T) {
	only := question.Record{
		ID:            "reading-1",
		Content:       "Tom has a red hat. What colour is Tom's hat?",
		Type:          question.TypeMultipleChoice,
		Options:       []string{"red", "blue", "green"},
		CorrectAnswer: "red",
		Subject:       question.SubjectReading,
		Grade:         1,
		Difficulty:    question.DifficultyEasy,
	}
	reading := &stubGenerator{subject: question.SubjectReading, recs: []question.Record{only}}
	emergency := &stubGenerator{subject: question.SubjectMathematicalReasoning}
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(emergency, reading)
	journal := &memJournal{}
	cfg.Journal = journal

	idx := dedup.NewIndex()
	p := New(corpus.NewSnapshot(nil), idx, cfg)

	res, err := p.Supply(context.Background(), Request{
		Grade:        1,
		Subject:      question.SubjectReading,
		Difficulty:   question.DifficultyEasy,
		DesiredCount: 5,
	})
	require.Nil(t, res)
	var crit *CriticalSupplyError
	require.ErrorAs(t, err, &crit)
	assert.Equal(t, Combination{Grade: 1, Subject: question.SubjectReading, Difficulty: question.DifficultyEasy}, crit.Combination)
	assert.Equal(t, 1, crit.Accepted)
	assert.Equal(t, 3, crit.Minimum)
	assert.Contains(t, err.Error(), "grade 1 Reading easy")
	assert.NotEmpty(t, crit.Details())

	// Budgets bound every generator tier: 5×5 template calls, then two
	// emergency passes of 5×5.
	assert.Equal(t, 25, reading.Calls())
	assert.Equal(t, 50, emergency.Calls())

	// Nothing from a failed call stays claimed.
	c, a := idx.Len()
	assert.Zero(t, c)
	assert.Zero(t, a)
	assert.Empty(t, journal.sigs)
	assert.Contains(t, UserMessage(err), "Grade 1 Reading")
}

func TestSupply_CriticalReportsAcceptedCount(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(2, question.SubjectMath, 4, question.DifficultyMedium))
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(nil)
	idx := dedup.NewIndex()

	_, err := New(snap, idx, cfg).Supply(context.Background(), Request{
		Grade:        4,
		Subject:      question.SubjectMath,
		Difficulty:   question.DifficultyMedium,
		DesiredCount: 10,
	})
	var crit *CriticalSupplyError
	require.ErrorAs(t, err, &crit)
	assert.Equal(t, 2, crit.Accepted)
	assert.Equal(t, 5, crit.Minimum)
	assert.Contains(t, err.Error(), "2 of 10 questions available, minimum 5")
	assert.Contains(t, crit.Details(), "tier EXACT_MATCH exhausted, contributed 2")

	c, a := idx.Len()
	assert.Zero(t, c, "claims must be released after the count is taken")
	assert.Zero(t, a)
}

func TestSupply_PartialBetweenMinimumAndDesired(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(3, question.SubjectMath, 4, question.DifficultyMedium))
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(nil)
	p := New(snap, dedup.NewIndex(), cfg)

	res, err := p.Supply(context.Background(), Request{
		Grade:        4,
		Subject:      question.SubjectMathematicalReasoning,
		Difficulty:   question.DifficultyMedium,
		DesiredCount: 5,
	})
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Len(t, res.Questions, 3)
	assert.Equal(t, 3, res.TierCounts[TierCrossSubject])
	assertWellFormed(t, res)
	assert.Contains(t, res.Warnings[0], "partial result for grade 4 Mathematical Reasoning medium")
	assert.Contains(t, res.Notice(), "related subject")
	assert.Equal(t, OutcomePartial, Outcome(res, nil))
}

func TestSupply_RelaxedMatchOrder(t *testing.T) {
	var fx fixture
	var recs []question.Record
	recs = append(recs, fx.records(2, question.SubjectEnglish, 5, question.DifficultyMedium)...)
	recs = append(recs, fx.records(2, question.SubjectEnglish, 5, question.DifficultyHard)...)
	recs = append(recs, fx.records(2, question.SubjectEnglish, 5, question.DifficultyEasy)...)
	recs = append(recs, fx.records(2, question.SubjectEnglish, 4, question.DifficultyMedium)...)
	recs = append(recs, fx.records(2, question.SubjectEnglish, 3, question.DifficultyMedium)...)
	snap := corpus.NewSnapshot(recs)

	req := Request{Grade: 5, Subject: question.SubjectEnglish, Difficulty: question.DifficultyMedium, DesiredCount: 8}

	t.Run("with grades", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Registry = templates.NewRegistry(nil)
		cfg.RelaxGrades = true
		res, err := New(snap, nil, cfg).Supply(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, res.Questions, 8)
		assert.Equal(t, 2, res.TierCounts[TierExactMatch])
		assert.Equal(t, 6, res.TierCounts[TierRelaxedMatch])
		for _, q := range res.Questions {
			assert.NotEqual(t, question.Grade(3), q.Grade, "grade 3 is not adjacent to 5")
		}
	})

	t.Run("default keeps the requested grade", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Registry = templates.NewRegistry(nil)
		res, err := New(snap, nil, cfg).Supply(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, res.Partial)
		assert.Equal(t, 4, res.TierCounts[TierRelaxedMatch])
		for _, q := range res.Questions {
			assert.Equal(t, question.Grade(5), q.Grade)
		}
		assert.Contains(t, res.Notice(), "medium questions")
	})
}

func TestSupply_ExcludedSignatures(t *testing.T) {
	var fx fixture
	recs := fx.records(8, question.SubjectMath, 9, question.DifficultyHard)
	snap := corpus.NewSnapshot(recs)
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(nil)
	p := New(snap, nil, cfg)

	req := mathRequest(6)
	req.ExcludedContentSignatures = []string{
		recs[0].ContentSignature(),
		recs[1].Content, // raw prompts are normalized too
	}
	res, err := p.Supply(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Questions, 6)
	for _, q := range res.Questions {
		assert.NotEqual(t, recs[0].ID, q.ID)
		assert.NotEqual(t, recs[1].ID, q.ID)
	}
}

func TestSupply_GlobalIndexExcludesEarlierResults(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(10, question.SubjectMath, 9, question.DifficultyHard))
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(nil)
	p := New(snap, nil, cfg)

	first, err := p.Supply(context.Background(), mathRequest(5))
	require.NoError(t, err)
	second, err := p.Supply(context.Background(), mathRequest(5))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, q := range first.Questions {
		seen[q.ID] = true
	}
	for _, q := range second.Questions {
		assert.False(t, seen[q.ID], "record %s returned twice", q.ID)
	}

	_, err = p.Supply(context.Background(), mathRequest(5))
	var crit *CriticalSupplyError
	assert.ErrorAs(t, err, &crit, "corpus is spent and no generators are registered")
}

func TestSupply_IdenticalRequestsSameShape(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(4, question.SubjectMath, 9, question.DifficultyHard))

	for i := 0; i < 2; i++ {
		p := New(snap, dedup.NewIndex(), DefaultConfig())
		req := mathRequest(20)
		req.Seed = 0
		res, err := p.Supply(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, res.Questions, 20)
		assert.NotZero(t, res.Seed)
		assertWellFormed(t, res)
	}
}

func TestSupply_SeedIsReproducible(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(12, question.SubjectMath, 9, question.DifficultyHard))

	ids := func() []string {
		p := New(snap, dedup.NewIndex(), DefaultConfig())
		res, err := p.Supply(context.Background(), mathRequest(20))
		require.NoError(t, err)
		out := make([]string, len(res.Questions))
		for i, q := range res.Questions {
			out[i] = q.ID
		}
		return out
	}
	assert.Equal(t, ids(), ids())
}

func TestSupply_EveryCombinationFromGeneratorsAlone(t *testing.T) {
	for _, subject := range question.AllSubjects {
		for _, grade := range []question.Grade{1, 6, 12} {
			for _, diff := range question.AllDifficulties {
				p := New(corpus.NewSnapshot(nil), nil, DefaultConfig())
				res, err := p.Supply(context.Background(), Request{
					Grade: grade, Subject: subject, Difficulty: diff, DesiredCount: 5, Seed: 7,
				})
				require.NoError(t, err, "grade %d %s %s", grade, subject, diff)
				assert.NotEmpty(t, res.Questions)
				assertWellFormed(t, res)
			}
		}
	}
}

func TestSupply_InvalidRequest(t *testing.T) {
	p := New(nil, nil, DefaultConfig())
	_, err := p.Supply(context.Background(), Request{Grade: 3, Subject: question.SubjectMath, Difficulty: question.DifficultyEasy, DesiredCount: 4})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "desiredCount", reqErr.Field)
	assert.Equal(t, OutcomeInvalid, Outcome(nil, err))
}

func TestSupply_CanceledContextRollsBack(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(5, question.SubjectMath, 9, question.DifficultyHard))
	idx := dedup.NewIndex()
	p := New(snap, idx, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Supply(ctx, mathRequest(5))
	assert.ErrorIs(t, err, context.Canceled)
	c, _ := idx.Len()
	assert.Zero(t, c)
}

func TestSupply_JournalReceivesClaims(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(10, question.SubjectMath, 9, question.DifficultyHard))
	journal := &memJournal{}
	cfg := DefaultConfig()
	cfg.Journal = journal
	p := New(snap, nil, cfg)

	res, err := p.Supply(context.Background(), mathRequest(7))
	require.NoError(t, err)
	require.Len(t, journal.sigs, 7)

	restored := dedup.NewIndex()
	n, err := dedup.Restore(context.Background(), journal, restored)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	for _, q := range res.Questions {
		assert.True(t, restored.Contains(dedup.Of(&q)))
	}
}

func TestSupply_JournalFailureIsAWarning(t *testing.T) {
	var fx fixture
	snap := corpus.NewSnapshot(fx.records(10, question.SubjectMath, 9, question.DifficultyHard))
	cfg := DefaultConfig()
	cfg.Journal = &memJournal{err: errors.New("disk full")}
	p := New(snap, nil, cfg)

	res, err := p.Supply(context.Background(), mathRequest(5))
	require.NoError(t, err)
	assert.Len(t, res.Questions, 5)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "disk full")
}

func TestSupply_InvalidCorpusRecordsAreSkipped(t *testing.T) {
	var fx fixture
	recs := fx.records(6, question.SubjectMath, 9, question.DifficultyHard)
	bad := fx.record(question.SubjectMath, 9, question.DifficultyHard)
	bad.Options = []string{"Wrong Answer 1", "Wrong Answer 2", "5", "Wrong Answer 3"}
	bad.CorrectAnswer = "5"
	recs = append(recs, bad)
	cfg := DefaultConfig()
	cfg.Registry = templates.NewRegistry(nil)

	res, err := New(corpus.NewSnapshot(recs), nil, cfg).Supply(context.Background(), mathRequest(6))
	require.NoError(t, err)
	for _, q := range res.Questions {
		assert.NotEqual(t, bad.ID, q.ID)
	}
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "filtered candidates: placeholder=1", res.Warnings[len(res.Warnings)-1])
}
