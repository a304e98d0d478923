//go:build cucumber

package supply

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/templates"
	"github.com/abhisek/quizsupply/internal/validation"
)

// TestSupplyScenarios runs the supply feature scenarios.
func TestSupplyScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "supply",
		ScenarioInitializer: InitializeSupplyScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSupplyScenario wires steps for the supply feature scenarios.
func InitializeSupplyScenario(ctx *godog.ScenarioContext) {
	state := &supplyScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a corpus with (\d+) "([^"]+)" questions for grade (\d+) at "([^"]+)" difficulty$`, state.givenCorpus)
	ctx.Step(`^an empty corpus$`, state.givenEmptyCorpus)
	ctx.Step(`^the default generators$`, state.givenDefaultGenerators)
	ctx.Step(`^a "([^"]+)" generator that can only produce 1 question$`, state.givenSingleQuestionGenerator)
	ctx.Step(`^no emergency questions$`, state.givenNoEmergency)
	ctx.Step(`^I request (\d+) "([^"]+)" questions for grade (\d+) at "([^"]+)" difficulty$`, state.whenIRequest)
	ctx.Step(`^I receive (\d+) questions$`, state.thenReceive)
	ctx.Step(`^(\d+) questions come from tier "([^"]+)"$`, state.thenTierCount)
	ctx.Step(`^(\d+) questions come from tiers beyond "([^"]+)"$`, state.thenBeyondTier)
	ctx.Step(`^no two questions share a prompt or an answer set$`, state.thenUnique)
	ctx.Step(`^every question contains its correct answer$`, state.thenCorrectInOptions)
	ctx.Step(`^the result warns that the corpus is thin$`, state.thenThinWarning)
	ctx.Step(`^a question "([^"]+)" with options "([^"]+)" and answer "([^"]+)"$`, state.givenQuestion)
	ctx.Step(`^the question is validated$`, state.whenValidated)
	ctx.Step(`^it is rejected by "([^"]+)"$`, state.thenRejectedBy)
	ctx.Step(`^the request fails with a critical supply error for grade (\d+) "([^"]+)" "([^"]+)"$`, state.thenCritical)
	ctx.Step(`^no signatures remain claimed$`, state.thenIndexEmpty)
}

// supplyScenarioState holds scenario state for supply feature tests.
type supplyScenarioState struct {
	fx        fixture
	records   []question.Record
	registry  *templates.Registry
	index     *dedup.Index
	result    *Result
	err       error
	candidate question.Record
	verr      *validation.ValidationError
}

// reset clears scenario state.
func (s *supplyScenarioState) reset() {
	*s = supplyScenarioState{
		registry: templates.NewRegistry(nil),
		index:    dedup.NewIndex(),
	}
}

func parseCombo(subject string, grade int, diff string) (question.Subject, question.Grade, question.Difficulty, error) {
	sub, err := question.ParseSubject(subject)
	if err != nil {
		return "", 0, "", err
	}
	d, err := question.ParseDifficulty(diff)
	if err != nil {
		return "", 0, "", err
	}
	return sub, question.Grade(grade), d, nil
}

func (s *supplyScenarioState) givenCorpus(count int, subject string, grade int, diff string) error {
	sub, g, d, err := parseCombo(subject, grade, diff)
	if err != nil {
		return err
	}
	s.records = append(s.records, s.fx.records(count, sub, g, d)...)
	return nil
}

func (s *supplyScenarioState) givenEmptyCorpus() error {
	s.records = nil
	return nil
}

func (s *supplyScenarioState) givenDefaultGenerators() error {
	s.registry = templates.DefaultRegistry()
	return nil
}

func (s *supplyScenarioState) givenSingleQuestionGenerator(subject string) error {
	sub, err := question.ParseSubject(subject)
	if err != nil {
		return err
	}
	rec := s.fx.record(sub, 1, question.DifficultyEasy)
	return s.registry.Register(&stubGenerator{subject: sub, recs: []question.Record{rec}})
}

func (s *supplyScenarioState) givenNoEmergency() error {
	s.registry.SetEmergency(&stubGenerator{subject: question.SubjectMathematicalReasoning})
	return nil
}

func (s *supplyScenarioState) whenIRequest(count int, subject string, grade int, diff string) error {
	sub, g, d, err := parseCombo(subject, grade, diff)
	if err != nil {
		return err
	}
	cfg := DefaultConfig()
	cfg.Registry = s.registry
	p := New(corpus.NewSnapshot(s.records), s.index, cfg)
	s.result, s.err = p.Supply(context.Background(), Request{
		Grade: g, Subject: sub, Difficulty: d, DesiredCount: count, Seed: 2024,
	})
	return nil
}

func (s *supplyScenarioState) requireResult() error {
	if s.err != nil {
		return fmt.Errorf("supply failed: %w", s.err)
	}
	if s.result == nil {
		return errors.New("no result")
	}
	return nil
}

func (s *supplyScenarioState) thenReceive(count int) error {
	if err := s.requireResult(); err != nil {
		return err
	}
	if got := len(s.result.Questions); got != count {
		return fmt.Errorf("got %d questions, want %d", got, count)
	}
	return nil
}

func (s *supplyScenarioState) thenTierCount(count int, tier string) error {
	if err := s.requireResult(); err != nil {
		return err
	}
	if got := s.result.TierCounts[Tier(tier)]; got != count {
		return fmt.Errorf("tier %s contributed %d, want %d", tier, got, count)
	}
	return nil
}

func (s *supplyScenarioState) thenBeyondTier(count int, tier string) error {
	if err := s.requireResult(); err != nil {
		return err
	}
	beyond := 0
	for t, n := range s.result.TierCounts {
		if t.Rank() > Tier(tier).Rank() {
			beyond += n
		}
	}
	if beyond != count {
		return fmt.Errorf("tiers beyond %s contributed %d, want %d", tier, beyond, count)
	}
	return nil
}

func (s *supplyScenarioState) thenUnique() error {
	if err := s.requireResult(); err != nil {
		return err
	}
	batch := dedup.NewBatch()
	for _, q := range s.result.Questions {
		sig := dedup.Of(&q)
		if batch.Contains(sig) {
			return fmt.Errorf("duplicate question %q", q.Content)
		}
		batch.Add(sig)
	}
	return nil
}

func (s *supplyScenarioState) thenCorrectInOptions() error {
	if err := s.requireResult(); err != nil {
		return err
	}
	for _, q := range s.result.Questions {
		if q.CorrectIndex() < 0 {
			return fmt.Errorf("question %q: answer %q not in %v", q.Content, q.CorrectAnswer, q.Options)
		}
	}
	return nil
}

func (s *supplyScenarioState) thenThinWarning() error {
	if err := s.requireResult(); err != nil {
		return err
	}
	for _, w := range s.result.Warnings {
		if strings.Contains(w, "corpus is thin") {
			return nil
		}
	}
	return fmt.Errorf("no thin-corpus warning in %v", s.result.Warnings)
}

func (s *supplyScenarioState) givenQuestion(content, options, answer string) error {
	s.candidate = question.Record{
		ID:            "scenario",
		Content:       content,
		Type:          question.TypeMultipleChoice,
		Options:       strings.Split(options, ","),
		CorrectAnswer: answer,
		Subject:       question.SubjectMath,
		Grade:         3,
		Difficulty:    question.DifficultyEasy,
	}
	return nil
}

func (s *supplyScenarioState) whenValidated() error {
	s.verr = validation.Default().Validate(&s.candidate)
	return nil
}

func (s *supplyScenarioState) thenRejectedBy(name string) error {
	if s.verr == nil {
		return errors.New("question was accepted")
	}
	if s.verr.Validator != name {
		return fmt.Errorf("rejected by %q (%s), want %q", s.verr.Validator, s.verr.Message, name)
	}
	return nil
}

func (s *supplyScenarioState) thenCritical(grade int, subject, diff string) error {
	var crit *CriticalSupplyError
	if !errors.As(s.err, &crit) {
		return fmt.Errorf("got error %v, want CriticalSupplyError", s.err)
	}
	sub, g, d, err := parseCombo(subject, grade, diff)
	if err != nil {
		return err
	}
	want := Combination{Grade: g, Subject: sub, Difficulty: d}
	if crit.Combination != want {
		return fmt.Errorf("combination = %v, want %v", crit.Combination, want)
	}
	if s.result != nil {
		return errors.New("a failed call must not return a result")
	}
	return nil
}

func (s *supplyScenarioState) thenIndexEmpty() error {
	if c, a := s.index.Len(); c != 0 || a != 0 {
		return fmt.Errorf("index holds %d prompts and %d answer sets", c, a)
	}
	return nil
}
