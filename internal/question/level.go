package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Difficulty is the coarse difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties lists difficulties from easiest to hardest.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q: must be easy, medium or hard", s)
	}
	return d, nil
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Rank returns 0, 1 or 2 for easy, medium and hard.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	default:
		return 0
	}
}

// Adjacent returns the neighbouring difficulties, harder first.
func (d Difficulty) Adjacent() []Difficulty {
	switch d {
	case DifficultyEasy:
		return []Difficulty{DifficultyMedium}
	case DifficultyMedium:
		return []Difficulty{DifficultyHard, DifficultyEasy}
	case DifficultyHard:
		return []Difficulty{DifficultyMedium}
	default:
		return nil
	}
}

// Grade is a school year from 1 to 12.
type Grade int

const (
	MinGrade Grade = 1
	MaxGrade Grade = 12
)

// ParseGrade accepts "9", "grade 9", "Year 9" and similar forms.
func ParseGrade(s string) (Grade, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.TrimPrefix(t, "grade")
	t = strings.TrimPrefix(t, "year")
	n, err := strconv.Atoi(strings.TrimSpace(t))
	if err != nil {
		return 0, fmt.Errorf("invalid grade %q", s)
	}
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("grade %d out of range %d-%d", n, MinGrade, MaxGrade)
	}
	return g, nil
}

// Valid reports whether g is within MinGrade..MaxGrade.
func (g Grade) Valid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Adjacent returns the valid neighbouring grades, lower first.
func (g Grade) Adjacent() []Grade {
	var out []Grade
	if (g - 1).Valid() {
		out = append(out, g-1)
	}
	if (g + 1).Valid() {
		out = append(out, g+1)
	}
	return out
}

func (g Grade) String() string {
	return strconv.Itoa(int(g))
}

// MarshalJSON encodes the grade as a decimal string, matching seed files.
func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON accepts both "9" and 9.
func (g *Grade) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid grade %s", b)
		}
		s = strconv.Itoa(n)
	}
	parsed, err := ParseGrade(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
