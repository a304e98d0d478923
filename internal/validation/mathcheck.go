package validation

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// MathCheckValidator recomputes the answer of Math prompts that consist of a
// single binary operation, such as "What is 345 + 278?" or "3/4 + 1/8 = ?".
// Other prompts (word problems, comparisons) pass through silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(r *question.Record) *ValidationError {
	if r.Subject != question.SubjectMath {
		return nil
	}
	computed, ok := computeAnswer(r.Content)
	if !ok {
		return nil
	}
	if !answersEqual(computed, r.CorrectAnswer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %s but correct answer is %q", formatRat(computed), r.CorrectAnswer),
			Retryable: true,
		}
	}
	return nil
}

// Both patterns must match the whole prompt. Partial matches inside longer
// expressions ("2 + 3 × 4") would recompute the wrong thing.
var (
	promptLead = `(?i)^\s*(?:what is|what's|calculate|compute|evaluate|work out|find)?\s*`
	promptTail = `\s*(?:=\s*\?|=\s*_+)?\s*\??\s*$`

	fractionArithRe = regexp.MustCompile(promptLead +
		`(-?\d+)\s*/\s*(\d+)\s*([+\-*×÷])\s*(-?\d+)\s*/\s*(\d+)` + promptTail)

	// Division needs spaces around "/" to tell it apart from a fraction.
	numberArithRe = regexp.MustCompile(promptLead +
		`(-?\d+(?:\.\d+)?)\s*([+\-*×÷]|\s/\s)\s*(-?\d+(?:\.\d+)?)` + promptTail)
)

// computeAnswer evaluates a single-operation prompt exactly.
func computeAnswer(text string) (*big.Rat, bool) {
	if m := fractionArithRe.FindStringSubmatch(text); m != nil {
		a, ok1 := new(big.Rat).SetString(m[1] + "/" + m[2])
		b, ok2 := new(big.Rat).SetString(m[4] + "/" + m[5])
		if !ok1 || !ok2 {
			return nil, false
		}
		return applyOp(a, normalizeOp(m[3]), b)
	}
	if m := numberArithRe.FindStringSubmatch(text); m != nil {
		a, ok1 := new(big.Rat).SetString(m[1])
		b, ok2 := new(big.Rat).SetString(m[3])
		if !ok1 || !ok2 {
			return nil, false
		}
		return applyOp(a, normalizeOp(m[2]), b)
	}
	return nil, false
}

func applyOp(a *big.Rat, op string, b *big.Rat) (*big.Rat, bool) {
	switch op {
	case "+":
		return new(big.Rat).Add(a, b), true
	case "-":
		return new(big.Rat).Sub(a, b), true
	case "*":
		return new(big.Rat).Mul(a, b), true
	case "/":
		if b.Sign() == 0 {
			return nil, false
		}
		return new(big.Rat).Quo(a, b), true
	}
	return nil, false
}

// normalizeOp normalizes multiplication and division symbols.
func normalizeOp(op string) string {
	switch strings.TrimSpace(op) {
	case "×":
		return "*"
	case "÷", "/":
		return "/"
	default:
		return strings.TrimSpace(op)
	}
}

// answersEqual compares a computed value with an answer such as "623",
// "0.75", "3/4" or "1,200". Answers that are not numbers never match.
func answersEqual(computed *big.Rat, answer string) bool {
	s := strings.ReplaceAll(strings.TrimSpace(answer), ",", "")
	got, ok := new(big.Rat).SetString(s)
	if !ok {
		return false
	}
	return computed.Cmp(got) == 0
}

func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}
