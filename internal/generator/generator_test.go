package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/keypad"
)

func testDict() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		{Word: "the", Score: 1000},
		{Word: "cat", Score: 50},
		{Word: "dog", Score: 10},
		{Word: "rare", Score: 1},
	})
}

func TestGenerateUsesTopWordsWithDigits(t *testing.T) {
	g := NewWithSeed(testDict(), keypad.Default(), 3, 1)
	prompts := g.Generate(50, Options{})
	require.Len(t, prompts, 50)
	for _, p := range prompts {
		assert.NotEqual(t, "rare", p.Word)
		digits, ok := keypad.Default().Encode(p.Word)
		require.True(t, ok)
		assert.Equal(t, digits, p.Digits)
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a := NewWithSeed(testDict(), keypad.Default(), 0, 42).Generate(10, Options{})
	b := NewWithSeed(testDict(), keypad.Default(), 0, 42).Generate(10, Options{})
	assert.Equal(t, a, b)
}

func TestGenerateFavorsHigherScores(t *testing.T) {
	g := NewWithSeed(testDict(), keypad.Default(), 0, 7)
	counts := map[string]int{}
	for _, p := range g.Generate(4000, Options{}) {
		counts[p.Word]++
	}
	assert.Greater(t, counts["the"], counts["rare"])
}

func TestGenerateDecorations(t *testing.T) {
	g := NewWithSeed(testDict(), keypad.Default(), 0, 3)
	prompts := g.Generate(20, Options{CapsPct: 1, PunctPct: 1, PunctSet: []string{"!"}})
	for _, p := range prompts {
		assert.True(t, strings.HasSuffix(p.Word, "!"), p.Word)
		assert.Equal(t, strings.ToUpper(p.Word[:1]), p.Word[:1])
	}
}

func TestEmptyDictionary(t *testing.T) {
	g := NewWithSeed(dictionary.New(nil), keypad.Default(), 10, 1)
	assert.True(t, g.Empty())
	assert.Nil(t, g.Generate(5, Options{}))
}

func TestLine(t *testing.T) {
	assert.Equal(t, "a b", Line([]Prompt{{Word: "a"}, {Word: "b"}}))
}
