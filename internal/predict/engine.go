// Package predict ranks dictionary words against an ambiguous digit sequence.
package predict

import (
	"sort"
	"strings"
	"unicode"

	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/keypad"
)

// DefaultLimit is the maximum number of candidates returned by Rank.
const DefaultLimit = 20

// Engine maps digit sequences to ranked candidate words. It holds no mutable
// state and may be shared between sessions.
type Engine struct {
	dict   *dictionary.Dictionary
	layout keypad.Layout
	limit  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit caps the candidate list length. Non-positive values keep the default.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// New returns an Engine over dict using layout.
func New(dict *dictionary.Dictionary, layout keypad.Layout, opts ...Option) *Engine {
	e := &Engine{dict: dict, layout: layout, limit: DefaultLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	word  string
	exact bool
	score float64
}

// Rank returns up to the configured limit of dictionary words whose leading letters
// match sequence. Words of exactly len(sequence) letters come first; each group is
// ordered by descending score, ties in dictionary order.
func (e *Engine) Rank(sequence string) []string {
	if sequence == "" || e.dict == nil {
		return nil
	}
	classes := e.classes(sequence)

	var matches []candidate
	for _, word := range e.dict.Words() {
		exact, ok := matchPrefix(classes, word)
		if !ok {
			continue
		}
		matches = append(matches, candidate{word: word, exact: exact, score: e.dict.Score(word)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].exact != matches[j].exact {
			return matches[i].exact
		}
		return matches[i].score > matches[j].score
	})
	if len(matches) > e.limit {
		matches = matches[:e.limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.word
	}
	return out
}

// classes returns the accepted letters per position; "" accepts any character.
func (e *Engine) classes(sequence string) []string {
	classes := make([]string, 0, len(sequence))
	for _, r := range sequence {
		classes = append(classes, e.layout.Letters(string(r)))
	}
	return classes
}

// matchPrefix reports whether word's leading characters fall in classes, and
// whether word has exactly len(classes) characters.
func matchPrefix(classes []string, word string) (exact, ok bool) {
	runes := []rune(word)
	if len(runes) < len(classes) {
		return false, false
	}
	for i, class := range classes {
		if class == "" {
			continue
		}
		if !strings.ContainsRune(class, unicode.ToLower(runes[i])) {
			return false, false
		}
	}
	return len(runes) == len(classes), true
}
