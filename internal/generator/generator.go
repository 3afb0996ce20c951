// Package generator builds practice prompts from dictionary words.
package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/keypad"
)

// Prompt is one target word and the digits that type it.
type Prompt struct {
	Word   string
	Digits string
}

// Options controls prompt decoration.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []string
}

// Generator produces randomized practice lines.
type Generator struct {
	rnd     *rand.Rand
	layout  keypad.Layout
	words   []string
	weights []float64
	total   float64
}

// New returns a Generator over the top n dictionary words, seeded with the current time.
func New(dict *dictionary.Dictionary, layout keypad.Layout, n int) *Generator {
	return NewWithSeed(dict, layout, n, time.Now().UnixNano())
}

// NewWithSeed is New with a fixed seed.
func NewWithSeed(dict *dictionary.Dictionary, layout keypad.Layout, n int, seed int64) *Generator {
	g := &Generator{
		rnd:    rand.New(rand.NewSource(seed)),
		layout: layout,
	}
	for _, e := range dict.Top(n) {
		if _, ok := layout.Encode(e.Word); !ok {
			continue
		}
		// Raw frequencies span orders of magnitude; log keeps rarer words in play.
		w := 1.0 + math.Log1p(e.Score)
		g.words = append(g.words, e.Word)
		g.weights = append(g.weights, w)
		g.total += w
	}
	return g
}

// Empty reports whether the generator has no words to draw from.
func (g *Generator) Empty() bool {
	return len(g.words) == 0
}

// Generate draws count prompts weighted by dictionary score.
func (g *Generator) Generate(count int, opts Options) []Prompt {
	if g.Empty() {
		return nil
	}
	result := make([]Prompt, 0, count)
	for i := 0; i < count; i++ {
		word := g.words[g.pick()]
		digits, _ := g.layout.Encode(word)
		word = applyCaps(g.rnd, word, opts.CapsPct)
		word = applyPunct(g.rnd, word, opts.PunctPct, opts.PunctSet)
		result = append(result, Prompt{Word: word, Digits: digits})
	}
	return result
}

// Line joins prompt words with single spaces.
func Line(prompts []Prompt) string {
	words := make([]string, len(prompts))
	for i, p := range prompts {
		words[i] = p.Word
	}
	return strings.Join(words, " ")
}

func (g *Generator) pick() int {
	r := g.rnd.Float64() * g.total
	acc := 0.0
	for j, w := range g.weights {
		acc += w
		if r <= acc {
			return j
		}
	}
	return len(g.weights) - 1
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []string) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + punctSet[rnd.Intn(len(punctSet))]
}
