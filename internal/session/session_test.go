package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/keypad"
	"github.com/verte-zerg/tenkey/internal/predict"
)

type stubRanker map[string][]string

func (r stubRanker) Rank(seq string) []string {
	return append([]string(nil), r[seq]...)
}

var t0 = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

// driver feeds events with a monotonically advancing clock.
type driver struct {
	s   *Session
	now int
}

func newDriver(r Ranker) *driver {
	return &driver{s: New(r, keypad.Default(), DefaultConfig())}
}

func (d *driver) down(key string) Gesture {
	d.now += 10
	return d.s.OnKeyDown(key, at(d.now))
}

func (d *driver) up(key string) {
	d.now += 10
	d.s.OnKeyUp(key, at(d.now))
}

func (d *driver) wait(ms int) {
	d.now += ms
}

func (d *driver) tap(keys ...string) {
	for _, k := range keys {
		d.down(k)
		d.up(k)
		d.wait(300)
	}
}

func (d *driver) chord(first, second string) Gesture {
	d.down(first)
	g := d.down(second)
	d.up(first)
	d.up(second)
	d.wait(300)
	return g
}

func catRanker() stubRanker {
	return stubRanker{
		"1":   {"a", "b", "c"},
		"11":  {"cat", "bat", "act"},
		"117": {"cat", "bat", "act"},
		"3":   {"i", "hi"},
		"32":  {"he"},
		"325": {"hello"},
	}
}

func TestLetterAppendsOnKeyUpOnly(t *testing.T) {
	d := newDriver(catRanker())
	d.down("1")
	assert.Equal(t, "", d.s.Sequence())
	d.up("1")
	assert.Equal(t, "1", d.s.Sequence())
	assert.Equal(t, []string{"a", "b", "c"}, d.s.Candidates())
	assert.Equal(t, 1, d.s.Counters().Keystrokes)
}

func TestNonDigitKeysIgnored(t *testing.T) {
	d := newDriver(catRanker())
	assert.Equal(t, GestureNone, d.down("a"))
	d.up("a")
	d.down("Enter")
	d.up("Enter")
	assert.Equal(t, "", d.s.Sequence())
	assert.False(t, d.s.isHeld("a"))
}

func TestSelectWithSpaceBothOrders(t *testing.T) {
	for _, order := range [][2]string{{"9", "0"}, {"0", "9"}} {
		d := newDriver(catRanker())
		d.tap("1", "1", "7")
		require.Equal(t, "117", d.s.Sequence())

		assert.Equal(t, GestureSelect, d.chord(order[0], order[1]))
		assert.Equal(t, "cat", d.s.Committed(), "first word has no leading space")
		assert.Empty(t, d.s.Sequence())
		assert.Empty(t, d.s.Candidates())
		assert.False(t, d.s.isHeld(order[0]))

		d.tap("1", "1")
		d.chord(order[0], order[1])
		assert.Equal(t, "cat cat", d.s.Committed())
		assert.Equal(t, 2, d.s.Counters().WordsCommitted)
	}
}

func TestSelectWithoutSpaceBothOrders(t *testing.T) {
	for _, order := range [][2]string{{"8", "0"}, {"0", "8"}} {
		d := newDriver(catRanker())
		d.tap("1", "1", "7")
		d.chord("9", "0")
		d.tap("1", "1", "7")
		assert.Equal(t, GestureSelectNoSpace, d.chord(order[0], order[1]))
		assert.Equal(t, "catcat", d.s.Committed())
		assert.Empty(t, d.s.Sequence())
	}
}

func TestSelectHighlightedCandidate(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("1", "1", "7", "0")
	require.Equal(t, 1, d.s.Highlight())
	d.chord("9", "0")
	assert.Equal(t, "bat", d.s.Committed())
}

func TestSelectWithoutCandidatesIsNoop(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("5", "5")
	require.Equal(t, "55", d.s.Sequence())
	require.Empty(t, d.s.Candidates())

	d.chord("9", "0")
	assert.Equal(t, "", d.s.Committed())
	assert.Equal(t, "55", d.s.Sequence())
	assert.Equal(t, 0, d.s.Counters().WordsCommitted)
}

func TestDeleteCharBothOrders(t *testing.T) {
	for _, order := range [][2]string{{"1", "2"}, {"2", "1"}} {
		d := newDriver(catRanker())
		d.tap("1", "1", "7")
		assert.Equal(t, GestureDeleteChar, d.chord(order[0], order[1]))
		assert.Equal(t, "11", d.s.Sequence(), "chord keys must not be typed as letters")
		assert.Equal(t, []string{"cat", "bat", "act"}, d.s.Candidates())
	}
}

func TestDeleteCharOnEmptySequence(t *testing.T) {
	d := newDriver(catRanker())
	d.chord("1", "2")
	assert.Equal(t, "", d.s.Sequence())
	assert.Empty(t, d.s.Candidates())
}

func TestDeleteWordBothOrders(t *testing.T) {
	for _, order := range [][2]string{{"8", "9"}, {"9", "8"}} {
		d := newDriver(catRanker())
		d.s.committed = "hello world"
		assert.Equal(t, GestureDeleteWord, d.chord(order[0], order[1]))
		assert.Equal(t, "hello", d.s.Committed())
		d.chord(order[0], order[1])
		assert.Equal(t, "", d.s.Committed())
		d.chord(order[0], order[1])
		assert.Equal(t, "", d.s.Committed())
	}
}

func TestPunctuationBothOrders(t *testing.T) {
	for _, order := range [][2]string{{"1", "3"}, {"3", "1"}} {
		d := newDriver(catRanker())
		d.tap("1", "1", "7")
		d.chord("9", "0")
		assert.Equal(t, GesturePunctuation, d.chord(order[0], order[1]))
		assert.Equal(t, Punctuation, d.s.Candidates())
		assert.Equal(t, 0, d.s.Highlight())
		assert.Equal(t, "", d.s.Sequence())

		d.tap("0", "0")
		d.chord("8", "0")
		assert.Equal(t, "cat!", d.s.Committed())
	}
}

func TestPunctuationResetByTyping(t *testing.T) {
	d := newDriver(catRanker())
	d.chord("1", "3")
	require.Equal(t, Punctuation, d.s.Candidates())
	d.tap("3")
	assert.Equal(t, []string{"i", "hi"}, d.s.Candidates())
}

func TestReleaseWithinDuplicateWindowDoesNotType(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("4", at(0))
	s.OnKeyDown("5", at(20))
	s.OnKeyUp("4", at(100))
	s.OnKeyUp("5", at(150))
	assert.Equal(t, "", s.Sequence())

	s.OnKeyDown("3", at(1000))
	s.OnKeyUp("3", at(1100))
	assert.Equal(t, "3", s.Sequence())
}

func TestLateChordReleaseTypes(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("4", at(0))
	s.OnKeyDown("5", at(20))
	s.OnKeyUp("4", at(500))
	s.OnKeyUp("5", at(550))
	assert.Equal(t, "45", s.Sequence())
	assert.Empty(t, s.CapMarks())
}

func TestChordReleaseSplitByDuplicateWindow(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("4", at(0))
	s.OnKeyDown("5", at(20))
	s.OnKeyUp("4", at(150))
	s.OnKeyUp("5", at(260))
	assert.Equal(t, "5", s.Sequence())
}

func TestHoldCapitalizes(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("1", at(0))
	s.OnKeyUp("1", at(600))
	s.OnKeyDown("1", at(1000))
	s.OnKeyUp("1", at(1400))
	s.OnKeyDown("7", at(2000))
	s.OnKeyUp("7", at(2500))

	assert.Equal(t, []int{0}, s.CapMarks())
	assert.Equal(t, "Cat", s.Current())
	snap := s.Snapshot()
	assert.Equal(t, []string{"Cat", "Bat", "Act"}, snap.Display)
	assert.Equal(t, []string{"cat", "bat", "act"}, snap.Candidates)
}

func TestCapitalizationCommitted(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("1", at(0))
	s.OnKeyUp("1", at(700))
	s.OnKeyDown("1", at(1000))
	s.OnKeyUp("1", at(1050))
	s.OnKeyDown("9", at(2000))
	s.OnKeyDown("0", at(2010))
	assert.Equal(t, "Cat", s.Committed())
	assert.Empty(t, s.CapMarks())
}

func TestCapMarksPrunedOnDelete(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("1", at(0))
	s.OnKeyUp("1", at(50))
	s.OnKeyDown("1", at(1000))
	s.OnKeyUp("1", at(1600))
	require.Equal(t, []int{1}, s.CapMarks())

	s.OnKeyDown("1", at(2000))
	s.OnKeyDown("2", at(2010))
	assert.Equal(t, "1", s.Sequence())
	assert.Empty(t, s.CapMarks())
}

func TestNavigationWraps(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("1", "1")
	require.Len(t, d.s.Candidates(), 3)

	var seen []int
	for i := 0; i < 4; i++ {
		d.tap("0")
		seen = append(seen, d.s.Highlight())
	}
	assert.Equal(t, []int{1, 2, 0, 1}, seen)

	d.tap("9")
	assert.Equal(t, 0, d.s.Highlight())
	d.tap("9")
	assert.Equal(t, 2, d.s.Highlight())
}

func TestNavigationWithoutCandidates(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("0")
	assert.Equal(t, 0, d.s.Highlight())
	d.tap("9")
	assert.Equal(t, 0, d.s.Highlight())
	assert.Equal(t, "", d.s.Sequence(), "navigation keys are never typed")
}

func TestHighlightClampedWhenListShrinks(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("3", "0")
	require.Equal(t, 1, d.s.Highlight())
	d.tap("2")
	assert.Equal(t, []string{"he"}, d.s.Candidates())
	assert.Equal(t, 0, d.s.Highlight())
}

func TestThreeKeysHeld(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("1", "1", "7")
	d.down("5")
	d.down("9")
	assert.Equal(t, GestureSelect, d.down("0"))
	assert.Equal(t, "cat", d.s.Committed())
}

func TestReleaseDeferredWhileChordHeld(t *testing.T) {
	s := New(catRanker(), keypad.Default(), DefaultConfig())
	s.OnKeyDown("4", at(0))
	s.OnKeyDown("5", at(5))
	s.OnKeyDown("6", at(10))
	s.OnKeyUp("4", at(1000))
	assert.True(t, s.isHeld("5"))
	assert.True(t, s.isHeld("6"))
	assert.Equal(t, "", s.Sequence())
}

func TestCustomThresholds(t *testing.T) {
	s := New(catRanker(), keypad.Default(), Config{DuplicateWindow: 0, HoldThreshold: time.Second})
	s.OnKeyDown("1", at(0))
	s.OnKeyUp("1", at(700))
	assert.Empty(t, s.CapMarks())
	assert.Equal(t, "1", s.Sequence())
}

func TestGestureCounters(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("1", "1", "7")
	d.chord("1", "2")
	d.chord("9", "0")
	counters := d.s.Counters()
	assert.Equal(t, 1, counters.Gestures[GestureDeleteChar])
	assert.Equal(t, 1, counters.Gestures[GestureSelect])
	assert.Equal(t, 3, counters.CharsCommitted)
}

func TestSessionWithEngine(t *testing.T) {
	dict := dictionary.New([]dictionary.Entry{
		{Word: "hello", Score: 100},
		{Word: "world", Score: 90},
		{Word: "help", Score: 50},
	})
	d := newDriver(predict.New(dict, keypad.Default()))
	d.tap("3", "2", "4", "4", "5")
	d.chord("9", "0")
	d.tap("8", "5", "6", "4", "2")
	d.chord("0", "9")
	assert.Equal(t, "hello world", d.s.Committed())

	d.chord("9", "8")
	assert.Equal(t, "hello", d.s.Committed())
}

func TestReset(t *testing.T) {
	d := newDriver(catRanker())
	d.tap("1", "1", "7")
	d.chord("9", "0")
	d.tap("1")
	d.s.Reset()
	assert.Equal(t, Snapshot{Candidates: nil, Display: []string{}, CapMarks: []int{}}, d.s.Snapshot())
}
