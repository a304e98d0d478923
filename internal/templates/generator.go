// Package templates synthesizes multiple-choice questions from parameterized
// templates. Every generator computes the answer first, builds the prompt and
// distractors around it, and re-verifies the result before returning it.
package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizsupply/internal/question"
)

// Generator produces one question for a grade and difficulty. The same seed
// always yields the same record.
//
// Generate returns a *VerificationError when the synthesized record fails its
// own checks. Callers treat that as a spent attempt, never as a fatal error.
type Generator interface {
	// Name identifies the generator in provenance and recorded events,
	// e.g. "math-template".
	Name() string

	// Subject is the subject of the records this generator produces.
	Subject() question.Subject

	Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error)
}

// VerificationError reports a synthesized record that failed recomputation
// or structural checks.
type VerificationError struct {
	Generator string
	Reason    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("generator %q: verification failed: %s", e.Generator, e.Reason)
}

// idNamespace scopes deterministic record IDs.
var idNamespace = uuid.MustParse("6f1c54a4-1d0e-4d35-9a63-5c7d1b3c2e10")

// problem is a template instance before it is turned into a record.
type problem struct {
	topic       string
	content     string
	answer      string
	distractors []string
	explanation string

	// verify recomputes the answer independently of how content was built.
	// Nil means the template has nothing to recompute.
	verify func() bool
}

// templateFunc instantiates one template.
type templateFunc func(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem

// newRand returns a deterministic source for seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// wantDistractors is the number of wrong options per record.
const wantDistractors = 3

// build verifies p and assembles the record. Options are the answer plus up
// to three distinct distractors, shuffled.
func build(gen string, subject question.Subject, grade question.Grade, difficulty question.Difficulty, seed uint64, rng *rand.Rand, p problem) (*question.Record, error) {
	fail := func(format string, args ...any) (*question.Record, error) {
		return nil, &VerificationError{Generator: gen, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(p.content) == "" {
		return fail("empty content")
	}
	answer := strings.TrimSpace(p.answer)
	if answer == "" {
		return fail("empty answer")
	}
	if p.verify != nil && !p.verify() {
		return fail("recomputed answer does not match %q", answer)
	}

	seen := map[string]bool{strings.ToLower(answer): true}
	options := []string{answer}
	for _, d := range p.distractors {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if d == "" || seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, d)
		if len(options) == wantDistractors+1 {
			break
		}
	}
	if len(options) < 2 {
		return fail("no distinct distractors for %q", answer)
	}
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	r := &question.Record{
		ID:            uuid.NewSHA1(idNamespace, []byte(gen+":"+strconv.FormatUint(seed, 10)+":"+p.content)).String(),
		Content:       p.content,
		Type:          question.TypeMultipleChoice,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   p.explanation,
		Subject:       subject,
		Topic:         p.topic,
		Grade:         grade,
		Difficulty:    difficulty,
		Tags:          []string{"generated", "verified"},
		Provenance:    question.Provenance{Source: gen},
	}

	if r.CorrectIndex() < 0 {
		return fail("correct answer %q missing from options", answer)
	}
	return r, nil
}

// generate picks one template from the list and builds it.
func generate(gen string, subject question.Subject, grade question.Grade, difficulty question.Difficulty, seed uint64, pick func(question.Grade, question.Difficulty) []templateFunc) (*question.Record, error) {
	if !grade.Valid() {
		return nil, &VerificationError{Generator: gen, Reason: fmt.Sprintf("grade %d out of range", grade)}
	}
	if !difficulty.Valid() {
		return nil, &VerificationError{Generator: gen, Reason: fmt.Sprintf("unknown difficulty %q", difficulty)}
	}
	tmpls := pick(grade, difficulty)
	if len(tmpls) == 0 {
		return nil, &VerificationError{Generator: gen, Reason: "no templates for grade and difficulty"}
	}
	rng := newRand(seed)
	p := tmpls[rng.IntN(len(tmpls))](rng, grade, difficulty)
	return build(gen, subject, grade, difficulty, seed, rng, p)
}

// between returns a uniform int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// choose returns a random element of xs.
func choose[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}

// chooseN returns n distinct elements of xs in random order.
func chooseN[T any](rng *rand.Rand, xs []T, n int) []T {
	idx := rng.Perm(len(xs))
	if n > len(xs) {
		n = len(xs)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = xs[idx[i]]
	}
	return out
}

// numericDistractors returns wrong integer answers near answer, in random
// order. Offsets that would produce the answer itself, or a negative value
// when allowNegative is false, are dropped. Extra candidates (typical
// mistakes) come first.
func numericDistractors(rng *rand.Rand, answer int, allowNegative bool, extra ...int) []string {
	offsets := []int{1, -1, 2, -2, 5, -5, 10, -10, 3, -3}
	rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })

	var out []string
	add := func(v int) {
		if v == answer || (!allowNegative && v < 0) {
			return
		}
		out = append(out, strconv.Itoa(v))
	}
	for _, e := range extra {
		add(e)
	}
	for _, o := range offsets {
		add(answer + o)
	}
	return out
}

// gcd returns the greatest common divisor of two non-negative integers.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// fraction formats n/d in lowest terms, or as an integer when d divides n.
func fraction(n, d int) string {
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	if g > 1 {
		n /= g
		d /= g
	}
	if d == 1 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d/%d", n, d)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// scale widens numeric ranges with grade and difficulty.
func scale(grade question.Grade, difficulty question.Difficulty) int {
	return int(grade) + 2*difficulty.Rank()
}
