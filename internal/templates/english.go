package templates

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// EnglishGenerator produces vocabulary and grammar questions from fixed word
// banks: synonyms, antonyms, irregular plurals, irregular past tenses and
// spelling.
type EnglishGenerator struct{}

func (g *EnglishGenerator) Name() string              { return "english-template" }
func (g *EnglishGenerator) Subject() question.Subject { return question.SubjectEnglish }

func (g *EnglishGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	return generate(g.Name(), g.Subject(), grade, difficulty, seed, englishTemplates)
}

func englishTemplates(grade question.Grade, _ question.Difficulty) []templateFunc {
	tmpls := []templateFunc{synonym, antonym, pluralForm, pastTense}
	if grade >= 3 {
		tmpls = append(tmpls, spelling)
	}
	return tmpls
}

// wordPair is a bank entry. level is 0 for early grades up to 2 for senior.
type wordPair struct {
	word, match string
	level       int
}

var synonymBank = []wordPair{
	{"happy", "glad", 0}, {"big", "large", 0}, {"small", "little", 0}, {"fast", "quick", 0},
	{"start", "begin", 0}, {"shut", "close", 0}, {"sad", "unhappy", 0}, {"easy", "simple", 0},
	{"brave", "courageous", 1}, {"angry", "furious", 1}, {"tired", "exhausted", 1}, {"quiet", "silent", 1},
	{"rich", "wealthy", 1}, {"strange", "peculiar", 1}, {"help", "assist", 1}, {"clever", "intelligent", 1},
	{"abundant", "plentiful", 2}, {"candid", "frank", 2}, {"diligent", "industrious", 2}, {"obscure", "unclear", 2},
	{"benevolent", "kind", 2}, {"meticulous", "careful", 2}, {"reluctant", "unwilling", 2}, {"ephemeral", "fleeting", 2},
}

var antonymBank = []wordPair{
	{"hot", "cold", 0}, {"up", "down", 0}, {"open", "closed", 0}, {"full", "empty", 0},
	{"day", "night", 0}, {"wet", "dry", 0}, {"old", "new", 0}, {"light", "dark", 0},
	{"ancient", "modern", 1}, {"generous", "selfish", 1}, {"victory", "defeat", 1}, {"expand", "shrink", 1},
	{"accept", "refuse", 1}, {"rare", "common", 1}, {"shallow", "deep", 1}, {"arrive", "depart", 1},
	{"scarce", "plentiful", 2}, {"humble", "arrogant", 2}, {"transparent", "opaque", 2}, {"temporary", "permanent", 2},
	{"conceal", "reveal", 2}, {"optimistic", "pessimistic", 2}, {"novice", "expert", 2}, {"frugal", "extravagant", 2},
}

var pluralBank = []wordPair{
	{"child", "children", 0}, {"mouse", "mice", 0}, {"foot", "feet", 0}, {"tooth", "teeth", 0},
	{"man", "men", 0}, {"sheep", "sheep", 0}, {"goose", "geese", 1}, {"leaf", "leaves", 1},
	{"knife", "knives", 1}, {"wolf", "wolves", 1}, {"potato", "potatoes", 1}, {"ox", "oxen", 1},
	{"cactus", "cacti", 2}, {"crisis", "crises", 2}, {"phenomenon", "phenomena", 2}, {"criterion", "criteria", 2},
	{"analysis", "analyses", 2}, {"fungus", "fungi", 2},
}

var pastTenseBank = []wordPair{
	{"run", "ran", 0}, {"eat", "ate", 0}, {"go", "went", 0}, {"see", "saw", 0},
	{"sit", "sat", 0}, {"swim", "swam", 0}, {"catch", "caught", 1}, {"teach", "taught", 1},
	{"bring", "brought", 1}, {"freeze", "froze", 1}, {"write", "wrote", 1}, {"choose", "chose", 1},
	{"seek", "sought", 2}, {"forbid", "forbade", 2}, {"weave", "wove", 2}, {"cling", "clung", 2},
	{"stride", "strode", 2}, {"forsake", "forsook", 2},
}

var spellingBank = []struct {
	word   string
	wrongs []string
	level  int
}{
	{"because", []string{"becuase", "becase", "beacause"}, 0},
	{"friend", []string{"freind", "frend", "frined"}, 0},
	{"people", []string{"poeple", "peple", "peopel"}, 0},
	{"which", []string{"wich", "whitch", "whihc"}, 0},
	{"believe", []string{"beleive", "belive", "beleeve"}, 1},
	{"separate", []string{"seperate", "separete", "seprate"}, 1},
	{"necessary", []string{"neccessary", "necessery", "neccesary"}, 1},
	{"definitely", []string{"definately", "definitly", "defanitely"}, 1},
	{"accommodate", []string{"accomodate", "acommodate", "accommadate"}, 2},
	{"conscientious", []string{"conscientous", "consciencious", "conscentious"}, 2},
	{"embarrass", []string{"embarass", "embarras", "embaress"}, 2},
	{"rhythm", []string{"rythm", "rhythem", "rhytm"}, 2},
}

// level maps grade and difficulty to a bank level.
func level(grade question.Grade, difficulty question.Difficulty) int {
	l := (int(grade)-1)/4 + difficulty.Rank() - 1
	if l < 0 {
		return 0
	}
	if l > 2 {
		return 2
	}
	return l
}

// pickPair chooses an entry at the target level and distractors from the
// rest of the bank.
func pickPair(rng *rand.Rand, bank []wordPair, lvl int) (wordPair, []string) {
	var pool []wordPair
	for _, p := range bank {
		if p.level == lvl {
			pool = append(pool, p)
		}
	}
	target := choose(rng, pool)

	var others []string
	for _, i := range rng.Perm(len(bank)) {
		p := bank[i]
		if p.word != target.word && p.match != target.match {
			others = append(others, p.match)
		}
	}
	return target, others
}

func lookup(bank []wordPair, word string) string {
	for _, p := range bank {
		if p.word == word {
			return p.match
		}
	}
	return ""
}

func synonym(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	p, others := pickPair(rng, synonymBank, level(grade, difficulty))
	return problem{
		topic:       "vocabulary",
		content:     fmt.Sprintf("Which word means the same as %q?", p.word),
		answer:      p.match,
		distractors: append(antonymsOf(p.word), others...),
		explanation: fmt.Sprintf("%q and %q have the same meaning.", p.word, p.match),
		verify:      func() bool { return lookup(synonymBank, p.word) == p.match },
	}
}

// antonymsOf returns the opposite of word if the antonym bank knows it, as a
// tempting wrong answer for a synonym question.
func antonymsOf(word string) []string {
	if a := lookup(antonymBank, word); a != "" {
		return []string{a}
	}
	return nil
}

func antonym(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	p, others := pickPair(rng, antonymBank, level(grade, difficulty))
	var tempting []string
	if s := lookup(synonymBank, p.word); s != "" {
		tempting = append(tempting, s)
	}
	return problem{
		topic:       "vocabulary",
		content:     fmt.Sprintf("Which word is the opposite of %q?", p.word),
		answer:      p.match,
		distractors: append(tempting, others...),
		explanation: fmt.Sprintf("%q is the opposite of %q.", p.match, p.word),
		verify:      func() bool { return lookup(antonymBank, p.word) == p.match },
	}
}

func pluralForm(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	p, _ := pickPair(rng, pluralBank, level(grade, difficulty))
	return problem{
		topic:       "grammar",
		content:     fmt.Sprintf("What is the plural of %q?", p.word),
		answer:      p.match,
		distractors: wrongPlurals(p.word),
		explanation: fmt.Sprintf("The plural of %q is %q.", p.word, p.match),
		verify:      func() bool { return lookup(pluralBank, p.word) == p.match },
	}
}

// wrongPlurals applies regular pluralization rules to an irregular noun.
func wrongPlurals(w string) []string {
	out := []string{w + "s", w + "es"}
	switch {
	case strings.HasSuffix(w, "f"):
		out = append(out, strings.TrimSuffix(w, "f")+"fs")
	case strings.HasSuffix(w, "fe"):
		out = append(out, strings.TrimSuffix(w, "fe")+"fes")
	case strings.HasSuffix(w, "us"):
		out = append(out, strings.TrimSuffix(w, "us")+"uses", strings.TrimSuffix(w, "us")+"a")
	case strings.HasSuffix(w, "is"):
		out = append(out, w+"es", strings.TrimSuffix(w, "is")+"ises")
	case strings.HasSuffix(w, "on"):
		out = append(out, strings.TrimSuffix(w, "on")+"ons", strings.TrimSuffix(w, "on")+"as")
	}
	return append(out, w+"en", w+"ies")
}

func pastTense(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	p, _ := pickPair(rng, pastTenseBank, level(grade, difficulty))
	wrongs := []string{p.word + "ed", p.word + "d", p.word + "s"}
	if strings.HasSuffix(p.word, "e") {
		wrongs = append(wrongs, strings.TrimSuffix(p.word, "e")+"ed")
	}
	wrongs = append(wrongs, p.word+"ing")
	name := choose(rng, peopleNames)
	return problem{
		topic:       "grammar",
		content:     fmt.Sprintf("Choose the correct word to complete the sentence: Yesterday, %s ___ (%s).", name, p.word),
		answer:      p.match,
		distractors: wrongs,
		explanation: fmt.Sprintf("%q is irregular; its past tense is %q.", p.word, p.match),
		verify:      func() bool { return lookup(pastTenseBank, p.word) == p.match },
	}
}

func spelling(rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) problem {
	lvl := level(grade, difficulty)
	var pool []int
	for i, s := range spellingBank {
		if s.level == lvl {
			pool = append(pool, i)
		}
	}
	s := spellingBank[choose(rng, pool)]
	return problem{
		topic:       "spelling",
		content:     fmt.Sprintf("Which is the correct spelling of the %d-letter word that starts with %q?", len(s.word), s.word[:2]),
		answer:      s.word,
		distractors: s.wrongs,
		explanation: fmt.Sprintf("The correct spelling is %q.", s.word),
		verify: func() bool {
			for _, w := range s.wrongs {
				if w == s.word {
					return false
				}
			}
			return true
		},
	}
}
