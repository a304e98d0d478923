package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/abhisek/quizsupply/internal/question"
)

// ReasoningGenerator produces Mathematical Reasoning questions: number
// sequences, inverse operations, ratio sharing, money and elapsed time.
type ReasoningGenerator struct{}

func (g *ReasoningGenerator) Name() string              { return "reasoning-template" }
func (g *ReasoningGenerator) Subject() question.Subject { return question.SubjectMathematicalReasoning }

func (g *ReasoningGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	return generate(g.Name(), g.Subject(), grade, difficulty, seed, reasoningTemplates)
}

func reasoningTemplates(grade question.Grade, difficulty question.Difficulty) []templateFunc {
	tmpls := []templateFunc{numberSequence, moneyChange}
	if grade >= 3 || difficulty != question.DifficultyEasy {
		tmpls = append(tmpls, elapsedTime, inverseOperations)
	}
	if grade >= 5 {
		tmpls = append(tmpls, ratioShare)
	}
	return tmpls
}

func numberSequence(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	start := between(rng, 1, 5*scale(grade, difficulty))
	terms := make([]int, 5)

	geometric := difficulty == question.DifficultyHard && rng.IntN(2) == 0
	var step int
	if geometric {
		step = between(rng, 2, 3)
		start = between(rng, 1, 6)
		terms[0] = start
		for i := 1; i < len(terms); i++ {
			terms[i] = terms[i-1] * step
		}
	} else {
		step = between(rng, 2, 3+scale(grade, difficulty))
		terms[0] = start
		for i := 1; i < len(terms); i++ {
			terms[i] = terms[i-1] + step
		}
	}
	shown, answer := terms[:4], terms[4]

	rule := fmt.Sprintf("add %d each time", step)
	if geometric {
		rule = fmt.Sprintf("multiply by %d each time", step)
	}
	return problem{
		topic: "number patterns",
		content: fmt.Sprintf("What number comes next in the sequence %d, %d, %d, %d, ...?",
			shown[0], shown[1], shown[2], shown[3]),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, shown[3]+step+1, shown[3]+shown[1]-shown[0]+step),
		explanation: fmt.Sprintf("The rule is %s, so the next number is %d.", rule, answer),
		verify: func() bool {
			if geometric {
				return shown[3]*(shown[1]/shown[0]) == answer
			}
			return shown[3]+(shown[1]-shown[0]) == answer && shown[2]-shown[1] == shown[1]-shown[0]
		},
	}
}

func inverseOperations(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	x := between(rng, 2, 3*scale(grade, difficulty))
	m := between(rng, 2, 6)
	a := between(rng, 1, 20)
	result := x*m + a
	return problem{
		topic: "inverse operations",
		content: fmt.Sprintf("I think of a number, multiply it by %d and then add %d. The result is %d. What was my number?",
			m, a, result),
		answer:      strconv.Itoa(x),
		distractors: numericDistractors(rng, x, false, result/m, (result+a)/m, result-a),
		explanation: fmt.Sprintf("Work backwards: %d - %d = %d, then %d ÷ %d = %d.", result, a, result-a, result-a, m, x),
		verify:      func() bool { return (result-a)%m == 0 && (result-a)/m == x },
	}
}

func ratioShare(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	p := between(rng, 1, 4)
	q := between(rng, p+1, p+4)
	unit := between(rng, 2, 2*scale(grade, difficulty))
	total := (p + q) * unit
	answer := q * unit
	thing := choose(rng, []string{"ribbon", "rope", "plank", "pipe", "strip of paper"})
	return problem{
		topic: "ratio",
		content: fmt.Sprintf("A %s %d cm long is cut into two pieces in the ratio %d:%d. How long is the longer piece in cm?",
			thing, total, p, q),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, p*unit, total/2, total-unit),
		explanation: fmt.Sprintf("There are %d + %d = %d equal parts of %d cm. The longer piece is %d × %d = %d cm.",
			p, q, p+q, unit, q, unit, answer),
		verify: func() bool { return total%(p+q) == 0 && total/(p+q)*q == answer },
	}
}

var shopItems = []struct {
	name  string
	price int
}{
	{"pen", 2}, {"notebook", 4}, {"ruler", 1}, {"sandwich", 6}, {"juice", 3},
	{"comic", 5}, {"ball", 7}, {"cap", 9}, {"puzzle", 11}, {"kite", 8},
}

func moneyChange(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	items := chooseN(rng, shopItems, 2)
	n1 := between(rng, 1, 1+difficulty.Rank())
	n2 := between(rng, 1, 1+difficulty.Rank())
	cost := n1*items[0].price + n2*items[1].price
	paid := 20
	for paid <= cost {
		paid += 10
	}
	if grade >= 6 && paid < 50 {
		paid = 50
	}
	answer := paid - cost
	name := choose(rng, []string{"Ava", "Leo", "Zara", "Sam", "Ivy", "Ben", "Nia", "Max"})

	dollars := func(vs []string) []string {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = "$" + v
		}
		return out
	}
	return problem{
		topic: "money",
		content: fmt.Sprintf("%s buys %d %s at $%d each and %d %s at $%d each, and pays with a $%d note. How much change should %s get?",
			name, n1, plural(items[0].name, n1), items[0].price, n2, plural(items[1].name, n2), items[1].price, paid, name),
		answer:      "$" + strconv.Itoa(answer),
		distractors: dollars(numericDistractors(rng, answer, false, cost, paid-items[0].price-items[1].price)),
		explanation: fmt.Sprintf("Cost: %d × $%d + %d × $%d = $%d. Change: $%d - $%d = $%d.",
			n1, items[0].price, n2, items[1].price, cost, paid, cost, answer),
		verify: func() bool { return answer+n1*items[0].price+n2*items[1].price == paid },
	}
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	switch noun {
	case "sandwich":
		return "sandwiches"
	case "juice":
		return "juices"
	}
	return noun + "s"
}

func elapsedTime(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	startMin := 60*between(rng, 8, 16) + 5*between(rng, 0, 11)
	dur := 5 * between(rng, 4, 6+3*difficulty.Rank()+int(grade)/2)
	end := startMin + dur
	event := choose(rng, []string{"film", "swimming lesson", "concert", "football match", "school trip", "piano recital"})

	var distractors []string
	for _, off := range chooseN(rng, []int{-60, 60, -15, 15, -10, 10, -5, 5, 30, -30}, 6) {
		distractors = append(distractors, clock(end+off))
	}
	distractors = append(distractors, clock(startMin+dur%60))

	return problem{
		topic:       "time",
		content:     fmt.Sprintf("A %s starts at %s and lasts %d minutes. What time does it finish?", event, clock(startMin), dur),
		answer:      clock(end),
		distractors: distractors,
		explanation: fmt.Sprintf("%s plus %d minutes is %s.", clock(startMin), dur, clock(end)),
		verify: func() bool {
			return end-startMin == dur && clock(end) != clock(startMin)
		},
	}
}

// clock formats minutes after midnight as a 12-hour time, e.g. "2:05 pm".
func clock(mins int) string {
	mins = ((mins % 1440) + 1440) % 1440
	h, m := mins/60, mins%60
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
