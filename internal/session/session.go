// Package session interprets raw keypad events into text edits.
//
// A Session owns the digit sequence being typed, its capitalization marks, the
// candidate list and highlight, the set of held keys and the committed text.
// Events must be delivered from a single goroutine; the Ranker it uses may be
// shared.
package session

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/tenkey/internal/keypad"
)

// Default timing thresholds.
const (
	DefaultDuplicateWindow = 200 * time.Millisecond
	DefaultHoldThreshold   = 500 * time.Millisecond
)

// Ranker turns a digit sequence into ranked candidate words.
type Ranker interface {
	Rank(sequence string) []string
}

// Config holds the timing thresholds used to classify key releases.
type Config struct {
	// DuplicateWindow suppresses letter input for releases this soon after a chord.
	DuplicateWindow time.Duration
	// HoldThreshold is the press duration after which a letter is capitalized.
	HoldThreshold time.Duration
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DuplicateWindow: DefaultDuplicateWindow,
		HoldThreshold:   DefaultHoldThreshold,
	}
}

// Counters tallies session activity for metrics.
type Counters struct {
	Keystrokes     int
	WordsCommitted int
	CharsCommitted int
	Gestures       map[Gesture]int
}

// Snapshot is the render state exposed after each event.
type Snapshot struct {
	Committed  string
	Sequence   string
	Candidates []string
	Display    []string
	Highlight  int
	CapMarks   []int
}

// Session is the keypad input state machine.
type Session struct {
	ranker Ranker
	layout keypad.Layout
	cfg    Config

	sequence   string
	caps       map[int]struct{}
	candidates []string
	highlight  int
	pressed    map[string]struct{}
	committed  string

	pressStart time.Time
	lastChord  time.Time

	counters Counters
}

// New returns an empty Session.
func New(ranker Ranker, layout keypad.Layout, cfg Config) *Session {
	return &Session{
		ranker:   ranker,
		layout:   layout,
		cfg:      cfg,
		caps:     map[int]struct{}{},
		pressed:  map[string]struct{}{},
		counters: Counters{Gestures: map[Gesture]int{}},
	}
}

// OnKeyDown records a key press and fires the chord it completes, if any.
// Non-digit keys are ignored.
func (s *Session) OnKeyDown(key string, now time.Time) Gesture {
	if !keypad.IsDigit(key) {
		return GestureNone
	}
	if s.pressStart.IsZero() {
		s.pressStart = now
	}
	s.pressed[key] = struct{}{}
	if len(s.pressed) > 1 {
		s.lastChord = now
	}

	gesture := matchChord(s.isHeld, key)
	switch gesture {
	case GestureSelect:
		s.selectWord(true)
	case GestureSelectNoSpace:
		s.selectWord(false)
	case GestureDeleteChar:
		s.deleteChar()
	case GestureDeleteWord:
		s.deleteWord()
	case GesturePunctuation:
		s.candidates = append([]string(nil), Punctuation...)
		s.highlight = 0
	}
	if gesture != GestureNone {
		s.counters.Gestures[gesture]++
	}
	return gesture
}

// OnKeyUp records a key release. Letter keys append to the sequence unless the
// release comes within the duplicate window of the last chord key-down; 0 and 9
// move the highlight.
func (s *Session) OnKeyUp(key string, now time.Time) {
	if !keypad.IsDigit(key) {
		return
	}
	delete(s.pressed, key)
	if len(s.pressed) > 1 {
		return
	}

	duplicate := !s.lastChord.IsZero() && now.Sub(s.lastChord) < s.cfg.DuplicateWindow
	hold := !s.pressStart.IsZero() && now.Sub(s.pressStart) > s.cfg.HoldThreshold
	if s.layout.IsLetterKey(key) && !duplicate {
		pos := len(s.sequence)
		s.setSequence(s.sequence + key)
		if hold {
			s.caps[pos] = struct{}{}
		}
		s.counters.Keystrokes++
	}
	s.pressStart = time.Time{}

	switch key {
	case "0":
		s.moveHighlight(1)
	case "9":
		s.moveHighlight(-1)
	}
}

// Reset clears the committed text and any word in progress.
func (s *Session) Reset() {
	s.committed = ""
	s.pressed = map[string]struct{}{}
	s.pressStart = time.Time{}
	s.lastChord = time.Time{}
	s.setSequence("")
}

// Committed returns the accepted text.
func (s *Session) Committed() string {
	return s.committed
}

// Sequence returns the digits typed for the current word.
func (s *Session) Sequence() string {
	return s.sequence
}

// Candidates returns the current candidate list.
func (s *Session) Candidates() []string {
	return append([]string(nil), s.candidates...)
}

// Highlight returns the highlighted candidate index.
func (s *Session) Highlight() int {
	return s.highlight
}

// CapMarks returns the capitalized sequence positions in ascending order.
func (s *Session) CapMarks() []int {
	marks := make([]int, 0, len(s.caps))
	for pos := range s.caps {
		marks = append(marks, pos)
	}
	sort.Ints(marks)
	return marks
}

// Capitalize uppercases the letters of word at marked positions.
func (s *Session) Capitalize(word string) string {
	if len(s.caps) == 0 || word == "" {
		return word
	}
	runes := []rune(word)
	for pos := range s.caps {
		if pos < len(runes) {
			runes[pos] = unicode.ToUpper(runes[pos])
		}
	}
	return string(runes)
}

// Current returns the highlighted candidate with capitalization applied, or "".
func (s *Session) Current() string {
	if len(s.candidates) == 0 {
		return ""
	}
	return s.Capitalize(s.candidates[s.highlight])
}

// Counters returns a copy of the activity counters.
func (s *Session) Counters() Counters {
	out := s.counters
	out.Gestures = make(map[Gesture]int, len(s.counters.Gestures))
	for g, n := range s.counters.Gestures {
		out.Gestures[g] = n
	}
	return out
}

// Snapshot returns the current render state.
func (s *Session) Snapshot() Snapshot {
	display := make([]string, len(s.candidates))
	for i, c := range s.candidates {
		display[i] = s.Capitalize(c)
	}
	return Snapshot{
		Committed:  s.committed,
		Sequence:   s.sequence,
		Candidates: s.Candidates(),
		Display:    display,
		Highlight:  s.highlight,
		CapMarks:   s.CapMarks(),
	}
}

func (s *Session) isHeld(key string) bool {
	_, ok := s.pressed[key]
	return ok
}

func (s *Session) selectWord(withSpace bool) {
	word := s.Current()
	if word == "" {
		return
	}
	if withSpace && s.committed != "" {
		s.committed += " "
	}
	s.committed += word
	s.counters.WordsCommitted++
	s.counters.CharsCommitted += len([]rune(word))

	s.pressed = map[string]struct{}{}
	s.setSequence("")
}

func (s *Session) deleteChar() {
	if s.sequence == "" {
		return
	}
	s.setSequence(s.sequence[:len(s.sequence)-1])
}

func (s *Session) deleteWord() {
	text := strings.TrimRightFunc(s.committed, unicode.IsSpace)
	idx := strings.LastIndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		s.committed = ""
		return
	}
	s.committed = strings.TrimRightFunc(text[:idx], unicode.IsSpace)
}

// setSequence replaces the sequence and restores the derived state: candidates
// are re-ranked, marks past the end are dropped and the highlight is clamped.
func (s *Session) setSequence(seq string) {
	s.sequence = seq
	if seq == "" {
		s.candidates = nil
	} else {
		s.candidates = s.ranker.Rank(seq)
	}
	for pos := range s.caps {
		if pos >= len(seq) {
			delete(s.caps, pos)
		}
	}
	s.clampHighlight()
}

func (s *Session) moveHighlight(delta int) {
	n := len(s.candidates)
	if n == 0 {
		s.highlight = 0
		return
	}
	s.highlight = ((s.highlight+delta)%n + n) % n
}

func (s *Session) clampHighlight() {
	switch {
	case len(s.candidates) == 0, s.highlight < 0:
		s.highlight = 0
	case s.highlight > len(s.candidates)-1:
		s.highlight = len(s.candidates) - 1
	}
}
