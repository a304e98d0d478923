package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/abhisek/quizsupply/internal/question"
)

// EmergencyGenerator is the last-resort source. Its templates have no word
// banks and a very large parameter space, so it keeps producing fresh valid
// records after every other source is exhausted.
type EmergencyGenerator struct{}

func (g *EmergencyGenerator) Name() string              { return "emergency-synthesis" }
func (g *EmergencyGenerator) Subject() question.Subject { return question.SubjectMathematicalReasoning }

func (g *EmergencyGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	rec, err := generate(g.Name(), g.Subject(), grade, difficulty, seed, func(question.Grade, question.Difficulty) []templateFunc {
		return []templateFunc{emergencySum, emergencyDifference, emergencyNextNumber, emergencyCompare}
	})
	if rec != nil {
		rec.Tags = append(rec.Tags, "emergency")
	}
	return rec, err
}

// emergencyRange grows with grade so older learners see larger numbers.
func emergencyRange(grade question.Grade, difficulty question.Difficulty) int {
	return 20 + 40*scale(grade, difficulty)
}

func emergencySum(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	hi := emergencyRange(grade, difficulty)
	a, b := between(rng, 1, hi), between(rng, 1, hi)
	sum := a + b
	return problem{
		topic:       "addition",
		content:     fmt.Sprintf("What is %d + %d?", a, b),
		answer:      strconv.Itoa(sum),
		distractors: numericDistractors(rng, sum, false),
		explanation: fmt.Sprintf("%d + %d = %d", a, b, sum),
		verify:      func() bool { return sum-a == b },
	}
}

func emergencyDifference(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	hi := emergencyRange(grade, difficulty)
	a, b := between(rng, 1, hi), between(rng, 1, hi)
	if a < b {
		a, b = b, a
	}
	diff := a - b
	return problem{
		topic:       "subtraction",
		content:     fmt.Sprintf("What is %d - %d?", a, b),
		answer:      strconv.Itoa(diff),
		distractors: numericDistractors(rng, diff, false, a+b),
		explanation: fmt.Sprintf("%d - %d = %d", a, b, diff),
		verify:      func() bool { return diff+b == a },
	}
}

func emergencyNextNumber(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	start := between(rng, 1, emergencyRange(grade, difficulty))
	step := between(rng, 1, 9)
	next := start + 3*step
	return problem{
		topic:   "sequences",
		content: fmt.Sprintf("Which number comes next: %d, %d, %d, ?", start, start+step, start+2*step),
		answer:  strconv.Itoa(next),
		distractors: numericDistractors(rng, next, false,
			start+2*step+1, start+4*step),
		explanation: fmt.Sprintf("The numbers go up by %d each time.", step),
		verify:      func() bool { return next-(start+2*step) == step },
	}
}

func emergencyCompare(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	hi := emergencyRange(grade, difficulty) * 5
	nums := make([]int, 0, 4)
	seen := map[int]bool{}
	for len(nums) < 4 {
		n := between(rng, 1, hi)
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}
	largest := nums[0]
	for _, n := range nums[1:] {
		largest = max(largest, n)
	}
	opts := make([]string, 0, 3)
	for _, n := range nums {
		if n != largest {
			opts = append(opts, strconv.Itoa(n))
		}
	}
	return problem{
		topic:       "comparing numbers",
		content:     fmt.Sprintf("Which is the largest of these numbers: %d, %d, %d, %d?", nums[0], nums[1], nums[2], nums[3]),
		answer:      strconv.Itoa(largest),
		distractors: opts,
		explanation: fmt.Sprintf("%d is greater than each of the other numbers.", largest),
		verify: func() bool {
			for _, n := range nums {
				if n > largest {
					return false
				}
			}
			return true
		},
	}
}
