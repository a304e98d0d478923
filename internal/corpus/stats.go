package corpus

import "github.com/abhisek/quizsupply/internal/question"

// DefaultThinThreshold is the largest count a single request may ask for.
// A combination with fewer records cannot serve such a request from its
// exact tier alone.
const DefaultThinThreshold = 50

// Coverage is the record count for one grade, subject and difficulty.
type Coverage struct {
	Grade      question.Grade      `json:"grade"`
	Subject    question.Subject    `json:"subject"`
	Difficulty question.Difficulty `json:"difficulty"`
	Count      int                 `json:"count"`
	Thin       bool                `json:"thin"`
}

// Coverage reports counts for every combination, ordered by grade, subject
// and difficulty. Combinations below threshold are marked thin; a threshold
// of zero or less uses DefaultThinThreshold.
func (s *Snapshot) Coverage(threshold int) []Coverage {
	if threshold <= 0 {
		threshold = DefaultThinThreshold
	}
	diffs := []question.Difficulty{question.DifficultyEasy, question.DifficultyMedium, question.DifficultyHard}

	out := make([]Coverage, 0, int(question.MaxGrade)*len(question.AllSubjects)*len(diffs))
	for g := question.MinGrade; g <= question.MaxGrade; g++ {
		for _, subj := range question.AllSubjects {
			for _, d := range diffs {
				n := s.Count(g, subj, d)
				out = append(out, Coverage{
					Grade:      g,
					Subject:    subj,
					Difficulty: d,
					Count:      n,
					Thin:       n < threshold,
				})
			}
		}
	}
	return out
}

// Summary aggregates coverage.
type Summary struct {
	Total        int `json:"total"`
	Combinations int `json:"combinations"`
	Empty        int `json:"empty"`
	Thin         int `json:"thin"`
}

// Summarize totals a coverage report.
func Summarize(cov []Coverage) Summary {
	var s Summary
	s.Combinations = len(cov)
	for _, c := range cov {
		s.Total += c.Count
		if c.Count == 0 {
			s.Empty++
		}
		if c.Thin {
			s.Thin++
		}
	}
	return s
}
