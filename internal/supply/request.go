package supply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhisek/quizsupply/internal/question"
)

// Bounds on Request.DesiredCount.
const (
	MinDesiredCount = 5
	MaxDesiredCount = 50
)

// Combination names one grade, subject and difficulty.
type Combination struct {
	Grade      question.Grade      `json:"grade"`
	Subject    question.Subject    `json:"subject"`
	Difficulty question.Difficulty `json:"difficulty"`
}

func (c Combination) String() string {
	return fmt.Sprintf("grade %d %s %s", c.Grade, c.Subject, c.Difficulty)
}

// Request asks for DesiredCount unique questions for one combination.
type Request struct {
	Grade        question.Grade
	Subject      question.Subject
	Difficulty   question.Difficulty
	DesiredCount int

	// ExcludedContentSignatures lists prompts the caller has already shown,
	// typically a learner's answered history. Raw prompts are accepted too;
	// each entry is normalized with question.ContentSignature.
	ExcludedContentSignatures []string

	// Seed makes a call reproducible against the same index state.
	// Zero picks a random seed.
	Seed uint64
}

// Combination returns the request's grade, subject and difficulty.
func (r Request) Combination() Combination {
	return Combination{Grade: r.Grade, Subject: r.Subject, Difficulty: r.Difficulty}
}

// Validate checks a typed request. Supply calls it before any tier runs.
func (r Request) Validate() error {
	if !r.Grade.Valid() {
		return &RequestError{Field: "grade", Message: fmt.Sprintf("must be between %d and %d, got %d", question.MinGrade, question.MaxGrade, r.Grade)}
	}
	if !r.Subject.Valid() {
		return &RequestError{Field: "subject", Message: fmt.Sprintf("unknown subject %q", r.Subject)}
	}
	if !r.Difficulty.Valid() {
		return &RequestError{Field: "difficulty", Message: fmt.Sprintf("must be easy, medium or hard, got %q", r.Difficulty)}
	}
	if r.DesiredCount < MinDesiredCount || r.DesiredCount > MaxDesiredCount {
		return &RequestError{Field: "desiredCount", Message: fmt.Sprintf("must be between %d and %d, got %d", MinDesiredCount, MaxDesiredCount, r.DesiredCount)}
	}
	return nil
}

// RequestError reports a malformed request. It is returned before any tier
// runs.
type RequestError struct {
	Field   string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// RawRequest is a request as received from HTTP or the command line.
type RawRequest struct {
	Grade                     string   `json:"grade"`
	Subject                   string   `json:"subject"`
	Difficulty                string   `json:"difficulty"`
	DesiredCount              int      `json:"desiredCount"`
	ExcludedContentSignatures []string `json:"excludedContentSignatures,omitempty"`
	Seed                      uint64   `json:"seed,omitempty"`
}

// UnmarshalJSON accepts grade as either a string or a number.
func (r *RawRequest) UnmarshalJSON(b []byte) error {
	type plain RawRequest
	var aux struct {
		plain
		Grade json.RawMessage `json:"grade"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = RawRequest(aux.plain)
	raw := bytes.TrimSpace(aux.Grade)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		r.Grade = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &r.Grade)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("grade: %w", err)
		}
		r.Grade = n.String()
	}
	return nil
}

// ParseRequest converts loosely typed input into a validated Request.
func ParseRequest(raw RawRequest) (Request, error) {
	grade, err := question.ParseGrade(raw.Grade)
	if err != nil {
		return Request{}, &RequestError{Field: "grade", Message: strconv.Quote(raw.Grade) + " is not a grade between 1 and 12", Err: err}
	}
	subject, err := question.ParseSubject(raw.Subject)
	if err != nil {
		return Request{}, &RequestError{Field: "subject", Message: fmt.Sprintf("unknown subject %q", raw.Subject), Err: err}
	}
	difficulty, err := question.ParseDifficulty(raw.Difficulty)
	if err != nil {
		return Request{}, &RequestError{Field: "difficulty", Message: fmt.Sprintf("must be easy, medium or hard, got %q", raw.Difficulty), Err: err}
	}

	req := Request{
		Grade:                     grade,
		Subject:                   subject,
		Difficulty:                difficulty,
		DesiredCount:              raw.DesiredCount,
		ExcludedContentSignatures: raw.ExcludedContentSignatures,
		Seed:                      raw.Seed,
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}
