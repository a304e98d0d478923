package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// ThinkingGenerator produces Thinking Skills questions: letter patterns,
// deductions, relative directions, orderings and proportional reasoning.
type ThinkingGenerator struct{}

func (g *ThinkingGenerator) Name() string              { return "thinking-template" }
func (g *ThinkingGenerator) Subject() question.Subject { return question.SubjectThinkingSkills }

func (g *ThinkingGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	return generate(g.Name(), g.Subject(), grade, difficulty, seed, thinkingTemplates)
}

func thinkingTemplates(grade question.Grade, difficulty question.Difficulty) []templateFunc {
	tmpls := []templateFunc{letterPattern, ordering, deduction}
	if grade >= 3 || difficulty != question.DifficultyEasy {
		tmpls = append(tmpls, directions)
	}
	if grade >= 4 {
		tmpls = append(tmpls, workRate)
	}
	return tmpls
}

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func letterPattern(rng *rand.Rand, _ question.Grade, difficulty question.Difficulty) problem {
	step := between(rng, 1, 2+difficulty.Rank())
	n := 4
	start := between(rng, 0, len(alphabet)-1-n*step)
	shown := make([]string, n)
	for i := range shown {
		shown[i] = string(alphabet[start+i*step])
	}
	ans := start + n*step
	answer := string(alphabet[ans])

	var distractors []string
	for _, off := range []int{1, -1, 2, step + 1, -step} {
		if i := ans + off; i >= 0 && i < len(alphabet) {
			distractors = append(distractors, string(alphabet[i]))
		}
	}
	rng.Shuffle(len(distractors), func(i, j int) { distractors[i], distractors[j] = distractors[j], distractors[i] })

	return problem{
		topic:       "patterns",
		content:     fmt.Sprintf("Look at this pattern: %s, ?\n\nWhich letter comes next?", strings.Join(shown, ", ")),
		answer:      answer,
		distractors: distractors,
		explanation: fmt.Sprintf("Each letter moves %d place(s) forward in the alphabet, so %s comes after %s.", step, answer, shown[n-1]),
		verify: func() bool {
			last := strings.IndexByte(alphabet, shown[n-1][0])
			prev := strings.IndexByte(alphabet, shown[n-2][0])
			return strings.IndexByte(alphabet, answer[0]) == last+(last-prev)
		},
	}
}

var peopleNames = []string{"Amy", "Ben", "Cara", "Dev", "Eli", "Fay", "Gus", "Hana", "Ivan", "Jade", "Kofi", "Lena"}

var comparisons = []struct{ more, less, most, least string }{
	{"taller", "shorter", "tallest", "shortest"},
	{"older", "younger", "oldest", "youngest"},
	{"faster", "slower", "fastest", "slowest"},
	{"heavier", "lighter", "heaviest", "lightest"},
}

func ordering(rng *rand.Rand, _ question.Grade, difficulty question.Difficulty) problem {
	n := 3 + difficulty.Rank()
	names := chooseN(rng, peopleNames, n)
	cmp := choose(rng, comparisons)

	// names is ordered from most to least. State each adjacent pair as a
	// clue, phrased either way round, and present the clues shuffled.
	clues := make([]string, 0, n-1)
	for i := 0; i < n-1; i++ {
		if rng.IntN(2) == 0 {
			clues = append(clues, fmt.Sprintf("%s is %s than %s.", names[i], cmp.more, names[i+1]))
		} else {
			clues = append(clues, fmt.Sprintf("%s is %s than %s.", names[i+1], cmp.less, names[i]))
		}
	}
	rng.Shuffle(len(clues), func(i, j int) { clues[i], clues[j] = clues[j], clues[i] })

	askMost := rng.IntN(2) == 0
	superlative, answer := cmp.least, names[n-1]
	if askMost {
		superlative, answer = cmp.most, names[0]
	}

	return problem{
		topic:       "ordering",
		content:     fmt.Sprintf("%s\n\nWho is the %s?", strings.Join(clues, " "), superlative),
		answer:      answer,
		distractors: without(names, answer),
		explanation: fmt.Sprintf("Putting the clues in order from %s to %s gives %s.", cmp.most, cmp.least, strings.Join(names, ", ")),
		verify: func() bool {
			// Rebuild the order from the clues alone.
			beats := map[string]string{}
			for _, c := range clues {
				var a, rel, b string
				if _, err := fmt.Sscanf(strings.TrimSuffix(c, "."), "%s is %s than %s", &a, &rel, &b); err != nil {
					return false
				}
				if rel == cmp.more {
					beats[a] = b
				} else {
					beats[b] = a
				}
			}
			top := ""
			for a := range beats {
				isBeaten := false
				for _, b := range beats {
					if b == a {
						isBeaten = true
					}
				}
				if !isBeaten {
					top = a
				}
			}
			order := []string{top}
			for cur := top; beats[cur] != ""; cur = beats[cur] {
				order = append(order, beats[cur])
			}
			if len(order) != n {
				return false
			}
			if askMost {
				return order[0] == answer
			}
			return order[n-1] == answer
		},
	}
}

func without(xs []string, drop string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != drop {
			out = append(out, x)
		}
	}
	return out
}

var deductionSets = []struct{ category, member, property, other string }{
	{"birds", "A robin", "have feathers", "can swim underwater"},
	{"mammals", "A whale", "breathe air", "lay eggs"},
	{"squares", "This shape", "have four equal sides", "has three corners"},
	{"metals", "Copper", "conduct electricity", "is a liquid"},
	{"insects", "An ant", "have six legs", "has eight legs"},
	{"planets", "Mars", "orbit a star", "gives off its own light"},
	{"reptiles", "A lizard", "are cold-blooded", "has fur"},
	{"fruits", "A mango", "contain seeds", "grows underground"},
	{"triangles", "This shape", "have three sides", "has four angles"},
	{"even numbers", "The number 14", "can be divided by 2", "is a prime number"},
}

func deduction(rng *rand.Rand, _ question.Grade, _ question.Difficulty) problem {
	s := choose(rng, deductionSets)
	// "have" becomes "has" for a single member.
	prop := s.property
	if strings.HasPrefix(prop, "have ") {
		prop = "has " + strings.TrimPrefix(prop, "have ")
	} else if strings.HasPrefix(prop, "are ") {
		prop = "is " + strings.TrimPrefix(prop, "are ")
	} else if !strings.HasPrefix(prop, "can ") {
		fields := strings.SplitN(prop, " ", 2)
		fields[0] += "s"
		prop = strings.Join(fields, " ")
	}
	answer := fmt.Sprintf("%s %s.", s.member, prop)
	return problem{
		topic: "deduction",
		content: fmt.Sprintf("All %s %s. %s is one of the %s.\n\nWhich statement must be true?",
			s.category, s.property, s.member, s.category),
		answer: answer,
		distractors: []string{
			fmt.Sprintf("%s %s.", s.member, s.other),
			fmt.Sprintf("%s is not one of the %s.", s.member, s.category),
			fmt.Sprintf("Nothing can be said about %s.", strings.ToLower(s.member)),
		},
		explanation: fmt.Sprintf("Everything in the group %s shares the property, and %s belongs to that group.", s.category, strings.ToLower(s.member)),
		verify:      func() bool { return strings.HasPrefix(answer, s.member) },
	}
}

var landmarks = []string{"library", "bakery", "park", "school", "post office", "museum", "station", "pool", "market", "bank"}

type compass struct {
	name   string
	dx, dy int
}

var compassPoints = []compass{
	{"north", 0, 1}, {"south", 0, -1}, {"east", 1, 0}, {"west", -1, 0},
}

func directions(rng *rand.Rand, _ question.Grade, _ question.Difficulty) problem {
	places := chooseN(rng, landmarks, 3)
	d1 := choose(rng, compassPoints)
	var d2 compass
	for {
		d2 = choose(rng, compassPoints)
		// Opposite moves would cancel out.
		if d1.dx+d2.dx != 0 || d1.dy+d2.dy != 0 {
			break
		}
	}
	dx, dy := d1.dx+d2.dx, d1.dy+d2.dy
	answer := direction(dx, dy)

	return problem{
		topic: "spatial reasoning",
		content: fmt.Sprintf("The %s is %s of the %s. The %s is %s of the %s.\n\nIn which direction is the %s from the %s?",
			places[0], d1.name, places[1], places[1], d2.name, places[2], places[0], places[2]),
		answer:      capitalize(answer),
		distractors: []string{capitalize(direction(-dx, -dy)), capitalize(direction(dy, -dx)), capitalize(direction(-dy, dx)), capitalize(d1.name)},
		explanation: fmt.Sprintf("Going %s then %s from the %s leads %s.", d2.name, d1.name, places[2], answer),
		verify:      func() bool { return direction(d1.dx+d2.dx, d1.dy+d2.dy) == answer },
	}
}

// direction names the compass direction of a displacement.
func direction(dx, dy int) string {
	ns, ew := "", ""
	switch {
	case dy > 0:
		ns = "north"
	case dy < 0:
		ns = "south"
	}
	switch {
	case dx > 0:
		ew = "east"
	case dx < 0:
		ew = "west"
	}
	switch {
	case ns != "" && ew != "":
		return ns + "-" + ew
	case ns != "":
		return ns
	default:
		return ew
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var workTasks = []struct{ worker, verb, unit string }{
	{"painter", "paint", "rooms"},
	{"baker", "bake", "cakes"},
	{"gardener", "plant", "trees"},
	{"builder", "build", "walls"},
	{"printer", "print", "posters"},
}

func workRate(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	t := choose(rng, workTasks)
	w1 := between(rng, 2, 4)
	per := between(rng, 1, 3+difficulty.Rank())
	days := between(rng, 2, 5)
	made := w1 * per
	w2 := w1 * between(rng, 2, 3+int(grade)/4)
	answer := w2 * per

	return problem{
		topic: "proportional reasoning",
		content: fmt.Sprintf("%d %ss can %s %d %s in %d days. Working at the same rate, how many %s can %d %ss %s in %d days?",
			w1, t.worker, t.verb, made, t.unit, days, t.unit, w2, t.worker, t.verb, days),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, made+w2-w1, made*days, w2),
		explanation: fmt.Sprintf("Each %s makes %d in %d days, so %d %ss make %d × %d = %d.", t.worker, per, days, w2, t.worker, w2, per, answer),
		verify:      func() bool { return answer*w1 == made*w2 },
	}
}
