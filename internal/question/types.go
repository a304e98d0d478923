package question

// Record is a single multiple-choice question as stored in the corpus or
// produced by a generator.
type Record struct {
	// ID is an opaque identifier. It plays no part in duplicate detection.
	ID string `json:"id"`

	// Content is the prompt shown to the learner. Never empty after trim.
	Content string `json:"content"`

	// Type is the answer format. Only multiple choice is supported.
	Type Type `json:"type"`

	// Options holds 2-6 distinct choices in display order.
	Options []string `json:"options"`

	// CorrectAnswer is the text of the correct option and must be one of Options.
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation is a short worked solution shown after answering.
	Explanation string `json:"explanation"`

	Subject    Subject    `json:"subject"`
	Topic      string     `json:"topic"`
	Grade      Grade      `json:"grade"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags,omitempty"`

	// Provenance records which tier and source produced the record.
	Provenance Provenance `json:"provenance"`
}

// Type describes how the learner answers a question.
type Type string

const (
	// TypeMultipleChoice means the learner picks one of Options.
	TypeMultipleChoice Type = "multiple_choice"
)

// Provenance identifies where a record came from.
type Provenance struct {
	// Tier is the supply tier that surfaced the record, e.g. "EXACT_MATCH".
	// Empty for records that have not been through a supply call.
	Tier string `json:"tier,omitempty"`

	// Source is "corpus" for pre-authored records or the generator name
	// for synthesized ones, e.g. "math-template".
	Source string `json:"source"`
}

// SourceCorpus marks records loaded from the pre-authored corpus.
const SourceCorpus = "corpus"

// Clone returns a deep copy of r so callers can mutate slices freely.
func (r Record) Clone() Record {
	c := r
	if r.Options != nil {
		c.Options = append([]string(nil), r.Options...)
	}
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	return c
}

// HasTag reports whether the record carries tag (case-sensitive).
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CorrectIndex returns the index of CorrectAnswer in Options, or -1.
func (r Record) CorrectIndex() int {
	for i, o := range r.Options {
		if o == r.CorrectAnswer {
			return i
		}
	}
	return -1
}
