package templates

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// ReadingGenerator builds a short passage from a story template and asks a
// literal comprehension question about it. The answer is always stated in
// the passage and no distractor is.
type ReadingGenerator struct{}

func (g *ReadingGenerator) Name() string              { return "reading-template" }
func (g *ReadingGenerator) Subject() question.Subject { return question.SubjectReading }

func (g *ReadingGenerator) Generate(grade question.Grade, difficulty question.Difficulty, seed uint64) (*question.Record, error) {
	return generate(g.Name(), g.Subject(), grade, difficulty, seed, func(question.Grade, question.Difficulty) []templateFunc {
		return []templateFunc{storyQuestion}
	})
}

var (
	storyPlaces   = []string{"library", "beach", "farm", "zoo", "museum", "market", "park", "river", "forest", "bakery", "aquarium", "harbour"}
	storyDays     = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	storyItems    = []string{"a red kite", "a map", "a sandwich", "a camera", "a notebook", "a blue umbrella", "a torch", "a water bottle", "a jar of honey", "a pair of boots"}
	storyFeelings = []string{"proud", "tired", "excited", "nervous", "relieved", "curious", "cheerful", "surprised"}
	storyWeather  = []string{"sunny", "windy", "rainy", "foggy", "cloudy", "snowy"}
	storyPartners = []string{"grandmother", "cousin", "best friend", "uncle", "older sister", "neighbour", "teacher"}
)

type story struct {
	name, place, day, item, feeling, weather, partner string
}

func (s story) passage(difficulty question.Difficulty) string {
	sentences := []string{
		fmt.Sprintf("On %s, %s went to the %s with %s %s.", s.day, s.name, s.place, pronoun(s.name), s.partner),
		fmt.Sprintf("It was a %s day, so they packed %s.", s.weather, s.item),
	}
	if difficulty != question.DifficultyEasy {
		sentences = append(sentences,
			fmt.Sprintf("When they arrived, the %s was busier than %s had expected.", s.place, s.name),
			fmt.Sprintf("They stayed until late in the afternoon and talked about everything they had seen."))
	}
	sentences = append(sentences, fmt.Sprintf("By the end of the day, %s felt %s.", s.name, s.feeling))
	return strings.Join(sentences, " ")
}

// pronoun is fixed per name so passages read consistently.
func pronoun(name string) string {
	switch name {
	case "Amy", "Cara", "Fay", "Hana", "Jade", "Lena":
		return "her"
	default:
		return "his"
	}
}

func storyQuestion(rng *rand.Rand, _ question.Grade, difficulty question.Difficulty) problem {
	s := story{
		name:    choose(rng, peopleNames),
		place:   choose(rng, storyPlaces),
		day:     choose(rng, storyDays),
		item:    choose(rng, storyItems),
		feeling: choose(rng, storyFeelings),
		weather: choose(rng, storyWeather),
		partner: choose(rng, storyPartners),
	}
	text := s.passage(difficulty)

	type ask struct {
		prompt, answer string
		pool           []string
		topic          string
	}
	asks := []ask{
		{fmt.Sprintf("Where did %s go?", s.name), "To the " + s.place, prefixAll("To the ", storyPlaces), "finding details"},
		{fmt.Sprintf("On which day did %s go out?", s.name), s.day, storyDays, "finding details"},
		{fmt.Sprintf("What did %s and %s %s pack?", s.name, pronoun(s.name), s.partner), capitalize(s.item), capitalizeAll(storyItems), "finding details"},
		{fmt.Sprintf("How did %s feel at the end of the day?", s.name), capitalize(s.feeling), capitalizeAll(storyFeelings), "characters"},
		{fmt.Sprintf("Who went with %s?", s.name), capitalize(pronoun(s.name) + " " + s.partner), prefixAll(capitalize(pronoun(s.name))+" ", storyPartners), "characters"},
	}
	if difficulty == question.DifficultyHard {
		asks = append(asks, ask{"What was the weather like?", capitalize(s.weather), capitalizeAll(storyWeather), "inference"})
	}
	a := choose(rng, asks)

	var distractors []string
	for _, d := range chooseN(rng, a.pool, len(a.pool)) {
		if d != a.answer && !mentions(text, d) {
			distractors = append(distractors, d)
		}
	}

	return problem{
		topic:       a.topic,
		content:     "Read the passage and answer the question.\n\n" + text + "\n\n" + a.prompt,
		answer:      a.answer,
		distractors: distractors,
		explanation: fmt.Sprintf("The passage says so directly: %q.", sentenceWith(text, a.answer)),
		verify: func() bool {
			if !mentions(text, a.answer) {
				return false
			}
			for _, d := range distractors {
				if mentions(text, d) {
					return false
				}
			}
			return true
		},
	}
}

// mentions reports whether the passage states option, ignoring case and a
// leading "To the".
func mentions(text, option string) bool {
	o := strings.ToLower(strings.TrimPrefix(option, "To the "))
	return strings.Contains(strings.ToLower(text), o)
}

func sentenceWith(text, option string) string {
	o := strings.ToLower(strings.TrimPrefix(option, "To the "))
	for _, s := range strings.SplitAfter(text, ".") {
		if strings.Contains(strings.ToLower(s), o) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func prefixAll(prefix string, xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = prefix + x
	}
	return out
}

func capitalizeAll(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = capitalize(x)
	}
	return out
}
