package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/abhisek/quizsupply/internal/question"
)

// MathGenerator produces arithmetic and algebra questions. Grades 1-5 get
// arithmetic, word problems and like-denominator fractions; grades 6-8 get
// equations and percentages; grades 9-12 get quadratics, powers and functions.
type MathGenerator struct{}

func (g *MathGenerator) Name() string              { return "math-template" }
func (g *MathGenerator) Subject() question.Subject { return question.SubjectMath }

func (g *MathGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	return generate(g.Name(), g.Subject(), grade, difficulty, seed, mathTemplates)
}

func mathTemplates(grade question.Grade, difficulty question.Difficulty) []templateFunc {
	switch {
	case grade <= 5:
		switch difficulty {
		case question.DifficultyEasy:
			return []templateFunc{basicArithmetic}
		case question.DifficultyMedium:
			return []templateFunc{arithmeticWordProblem, basicArithmetic}
		default:
			if grade <= 2 {
				return []templateFunc{missingAddend, arithmeticWordProblem}
			}
			return []templateFunc{fractionAddition, arithmeticWordProblem}
		}
	case grade <= 8:
		switch difficulty {
		case question.DifficultyEasy:
			return []templateFunc{simpleAlgebra, percentOf}
		case question.DifficultyMedium:
			return []templateFunc{linearEquation, percentOf}
		default:
			return []templateFunc{systemOfEquations, linearEquation}
		}
	default:
		switch difficulty {
		case question.DifficultyEasy:
			return []templateFunc{linearEquation, power}
		case question.DifficultyMedium:
			return []templateFunc{quadraticRoots, power}
		default:
			return []templateFunc{quadraticRoots, functionValue}
		}
	}
}

func basicArithmetic(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	hi := 10 * scale(grade, difficulty)
	a := between(rng, 2, hi)
	b := between(rng, 2, hi)

	ops := []string{"+", "-"}
	if grade >= 3 {
		ops = append(ops, "×")
	}
	op := choose(rng, ops)

	var answer int
	switch op {
	case "+":
		answer = a + b
	case "-":
		if a < b {
			a, b = b, a
		}
		answer = a - b
	case "×":
		a = between(rng, 2, 4+int(grade))
		b = between(rng, 2, 12)
		answer = a * b
	}

	return problem{
		topic:       "arithmetic",
		content:     fmt.Sprintf("What is %d %s %d?", a, op, b),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false),
		explanation: fmt.Sprintf("%d %s %d = %d", a, op, b, answer),
		verify: func() bool {
			switch op {
			case "+":
				return answer-b == a
			case "-":
				return answer+b == a
			default:
				return b != 0 && answer%b == 0 && answer/b == a
			}
		},
	}
}

var wordProblemItems = []struct{ person, thing, place string }{
	{"Sarah", "stickers", "album"},
	{"Liam", "marbles", "jar"},
	{"Priya", "books", "shelf"},
	{"Noah", "apples", "basket"},
	{"Mia", "shells", "bucket"},
	{"Omar", "cards", "box"},
	{"Chloe", "pencils", "case"},
	{"Ethan", "stamps", "folder"},
}

func arithmeticWordProblem(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	it := choose(rng, wordProblemItems)
	hi := 10 * scale(grade, difficulty)
	n1 := between(rng, 10, hi+10)
	n2 := between(rng, 2, n1-1)

	if rng.IntN(2) == 0 {
		answer := n1 - n2
		return problem{
			topic: "word problems",
			content: fmt.Sprintf("%s has %d %s in a %s. %s gives away %d of them. How many %s are left?",
				it.person, n1, it.thing, it.place, it.person, n2, it.thing),
			answer:      strconv.Itoa(answer),
			distractors: numericDistractors(rng, answer, false, n1+n2),
			explanation: fmt.Sprintf("%d - %d = %d %s left.", n1, n2, answer, it.thing),
			verify:      func() bool { return answer+n2 == n1 && answer > 0 },
		}
	}
	answer := n1 + n2
	return problem{
		topic: "word problems",
		content: fmt.Sprintf("%s has %d %s and finds %d more. How many %s does %s have now?",
			it.person, n1, it.thing, n2, it.thing, it.person),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, n1-n2),
		explanation: fmt.Sprintf("%d + %d = %d %s.", n1, n2, answer, it.thing),
		verify:      func() bool { return answer-n2 == n1 },
	}
}

func missingAddend(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	total := between(rng, 8, 10*scale(grade, difficulty))
	known := between(rng, 1, total-1)
	answer := total - known
	return problem{
		topic:       "number facts",
		content:     fmt.Sprintf("Which number makes this true? ? + %d = %d", known, total),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, total+known),
		explanation: fmt.Sprintf("%d - %d = %d, so %d + %d = %d.", total, known, answer, answer, known, total),
		verify:      func() bool { return answer+known == total },
	}
}

func fractionAddition(rng *rand.Rand, grade question.Grade, _ question.Difficulty) problem {
	den := between(rng, 3, 4+int(grade))
	n1 := between(rng, 1, den-1)
	n2 := between(rng, 1, den-1)
	answer := fraction(n1+n2, den)

	return problem{
		topic:   "fractions",
		content: fmt.Sprintf("What is %d/%d + %d/%d?", n1, den, n2, den),
		answer:  answer,
		distractors: []string{
			fraction(n1+n2, den+den),
			fraction(n1+n2+1, den),
			fraction(n1+n2-1, den),
			fraction(n1*n2, den),
			fraction(n1+n2, den+1),
		},
		explanation: fmt.Sprintf("The denominators match, so add the numerators: %d/%d + %d/%d = %d/%d = %s.",
			n1, den, n2, den, n1+n2, den, answer),
		verify: func() bool {
			// Cross-multiply against the reduced answer.
			var an, ad int
			if _, err := fmt.Sscanf(answer, "%d/%d", &an, &ad); err != nil {
				ad = 1
				an, _ = strconv.Atoi(answer)
			}
			return an*den == (n1+n2)*ad
		},
	}
}

func simpleAlgebra(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	x := between(rng, 2, 2*scale(grade, difficulty))
	m := between(rng, 2, 9)
	product := m * x
	return problem{
		topic:       "algebra",
		content:     fmt.Sprintf("If %dx = %d, what is x?", m, product),
		answer:      strconv.Itoa(x),
		distractors: numericDistractors(rng, x, false, product-m, x*2),
		explanation: fmt.Sprintf("Divide both sides by %d: x = %d ÷ %d = %d.", m, product, m, x),
		verify:      func() bool { return product%m == 0 && product/m == x },
	}
}

func linearEquation(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	x := between(rng, 1, 2*scale(grade, difficulty))
	a := between(rng, 2, 9)
	b := between(rng, 1, 30)
	c := a*x + b
	return problem{
		topic:       "linear equations",
		content:     fmt.Sprintf("Solve for x: %dx + %d = %d", a, b, c),
		answer:      strconv.Itoa(x),
		distractors: numericDistractors(rng, x, false, (c+b)/a, c-b),
		explanation: fmt.Sprintf("Subtract %d: %dx = %d. Divide by %d: x = %d.", b, a, c-b, a, x),
		verify:      func() bool { return (c-b)%a == 0 && (c-b)/a == x },
	}
}

func percentOf(rng *rand.Rand, _ question.Grade, difficulty question.Difficulty) problem {
	pcts := []int{10, 20, 25, 50, 75}
	if difficulty != question.DifficultyEasy {
		pcts = append(pcts, 5, 15, 30, 40, 60)
	}
	pct := choose(rng, pcts)
	// Whole multiples of 20 keep every listed percentage an integer result.
	base := 20 * between(rng, 1, 10+5*difficulty.Rank())
	answer := base * pct / 100
	return problem{
		topic:       "percentages",
		content:     fmt.Sprintf("What is %d%% of %d?", pct, base),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, base-answer, pct),
		explanation: fmt.Sprintf("%d%% of %d = %d × %d ÷ 100 = %d.", pct, base, pct, base, answer),
		verify:      func() bool { return answer*100 == base*pct },
	}
}

func systemOfEquations(rng *rand.Rand, grade question.Grade, _ question.Difficulty) problem {
	hi := 4 + int(grade)/2
	x := between(rng, 1, hi)
	y := between(rng, 1, hi)

	var a1, b1, a2, b2 int
	for {
		a1, b1 = between(rng, 1, 5), between(rng, 1, 5)
		a2, b2 = between(rng, 1, 5), between(rng, 1, 5)
		if a1*b2-a2*b1 != 0 {
			break
		}
	}
	c1 := a1*x + b1*y
	c2 := a2*x + b2*y

	pair := func(x, y int) string { return fmt.Sprintf("x = %d, y = %d", x, y) }
	return problem{
		topic:   "simultaneous equations",
		content: fmt.Sprintf("Solve the system of equations:\n%dx + %dy = %d\n%dx + %dy = %d", a1, b1, c1, a2, b2, c2),
		answer:  pair(x, y),
		distractors: []string{
			pair(y, x),
			pair(x+1, y),
			pair(x, y+1),
			pair(x-1, y+1),
			pair(x+1, y-1),
		},
		explanation: fmt.Sprintf("Check: %d(%d) + %d(%d) = %d and %d(%d) + %d(%d) = %d.",
			a1, x, b1, y, c1, a2, x, b2, y, c2),
		verify: func() bool {
			// Cramer's rule.
			det := a1*b2 - a2*b1
			return det != 0 &&
				(c1*b2-c2*b1) == x*det &&
				(a1*c2-a2*c1) == y*det
		},
	}
}

func power(rng *rand.Rand, _ question.Grade, difficulty question.Difficulty) problem {
	base := between(rng, 2, 6+2*difficulty.Rank())
	exp := between(rng, 2, 4)
	if base > 9 {
		exp = 2
	}
	answer := 1
	for i := 0; i < exp; i++ {
		answer *= base
	}
	return problem{
		topic:       "powers",
		content:     fmt.Sprintf("What is %d^%d?", base, exp),
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, base*exp, answer*base, answer/base),
		explanation: fmt.Sprintf("%d^%d means %d multiplied by itself %d times, which is %d.", base, exp, base, exp, answer),
		verify: func() bool {
			v := answer
			for i := 0; i < exp; i++ {
				if v%base != 0 {
					return false
				}
				v /= base
			}
			return v == 1
		},
	}
}

func quadraticRoots(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	hi := 3 + int(grade)/2 + difficulty.Rank()
	r1 := between(rng, 1, hi)
	r2 := between(rng, 1, hi)
	for r2 == r1 {
		r2 = between(rng, 1, hi+1)
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	b := -(r1 + r2)
	c := r1 * r2

	roots := func(p, q int) string {
		if p > q {
			p, q = q, p
		}
		return fmt.Sprintf("x = %d or x = %d", p, q)
	}
	var distractors []string
	for _, d := range [][2]int{{-r1, -r2}, {r1 + 1, r2}, {r1, r2 + 1}, {1, c}, {r1 - 1, r2 + 1}} {
		if d[0] != d[1] {
			distractors = append(distractors, roots(d[0], d[1]))
		}
	}

	return problem{
		topic:       "quadratic equations",
		content:     fmt.Sprintf("Solve: x² - %dx + %d = 0", -b, c),
		answer:      roots(r1, r2),
		distractors: distractors,
		explanation: fmt.Sprintf("Factor: (x - %d)(x - %d) = 0, so x = %d or x = %d.", r1, r2, r1, r2),
		verify: func() bool {
			return r1*r1+b*r1+c == 0 && r2*r2+b*r2+c == 0
		},
	}
}

func functionValue(rng *rand.Rand, grade question.Grade, _ question.Difficulty) problem {
	a := between(rng, 1, 4)
	b := between(rng, 1, 9)
	c := between(rng, 1, 10+int(grade))
	x := between(rng, 2, 6)
	f := func(x int) int { return a*x*x + b*x + c }
	answer := f(x)

	content := fmt.Sprintf("If f(x) = %dx² + %dx + %d, what is f(%d)?", a, b, c, x)
	if a == 1 {
		content = fmt.Sprintf("If f(x) = x² + %dx + %d, what is f(%d)?", b, c, x)
	}
	return problem{
		topic:       "functions",
		content:     content,
		answer:      strconv.Itoa(answer),
		distractors: numericDistractors(rng, answer, false, f(x+1), f(x-1), a*2*x+b*x+c),
		explanation: fmt.Sprintf("f(%d) = %d(%d²) + %d(%d) + %d = %d + %d + %d = %d.", x, a, x, b, x, c, a*x*x, b*x, c, answer),
		verify: func() bool {
			// Horner form as an independent evaluation.
			return (a*x+b)*x+c == answer
		},
	}
}
