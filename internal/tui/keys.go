package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminals report key presses but not releases. A digit counts as held until
// releaseDelay passes without the terminal repeating it.

// shiftedDigits maps the US shifted digit row to its digit. A shifted digit
// is treated as a long press.
var shiftedDigits = map[rune]string{
	'!': "1", '@': "2", '#': "3", '$': "4", '%': "5",
	'^': "6", '&': "7", '*': "8", '(': "9", ')': "0",
}

type heldKey struct {
	gen     int
	downAt  time.Time
	shifted bool
	chord   bool
}

type releaseMsg struct {
	key string
	gen int
}

func digitForRune(r rune) (key string, shifted, ok bool) {
	if r >= '0' && r <= '9' {
		return string(r), false, true
	}
	if key, ok := shiftedDigits[r]; ok {
		return key, true, true
	}
	return "", false, false
}

// now is the session clock. It runs ahead of m.clock by the time added to make
// shifted digits read as holds.
func (m *Model) now() time.Time {
	return m.clock().Add(m.skew)
}

func (m *Model) releaseAfter(key string, gen int) tea.Cmd {
	return tea.Tick(m.config.ReleaseDelay, func(time.Time) tea.Msg {
		return releaseMsg{key: key, gen: gen}
	})
}

// pressDigit forwards a new press to the session, or extends the hold of a key
// the terminal is auto-repeating.
func (m *Model) pressDigit(key string, shifted bool) tea.Cmd {
	m.nextGen++
	if h, ok := m.held[key]; ok {
		h.gen = m.nextGen
		h.shifted = h.shifted || shifted
		return m.releaseAfter(key, h.gen)
	}
	now := m.now()
	m.markStarted(m.clock())
	h := &heldKey{gen: m.nextGen, downAt: now, shifted: shifted}
	if len(m.held) > 0 {
		h.chord = true
		for _, other := range m.held {
			other.chord = true
		}
	}
	m.held[key] = h
	m.noteGesture(m.sess.OnKeyDown(key, now))
	return m.releaseAfter(key, m.nextGen)
}

// releaseDigit releases key once its hold has lapsed. Keys that were held
// together go up at the same instant, since the terminal cannot tell which of
// them the user let go first.
func (m *Model) releaseDigit(msg releaseMsg) {
	h, ok := m.held[msg.key]
	if !ok || h.gen != msg.gen {
		return
	}
	delete(m.held, msg.key)
	if h.shifted {
		// Advance the session clock so the press reads as a hold.
		if d := m.now().Sub(h.downAt); d <= m.config.HoldThreshold {
			m.skew += m.config.HoldThreshold - d + time.Millisecond
		}
	}
	now := m.now()
	m.sess.OnKeyUp(msg.key, now)
	if h.chord {
		for _, key := range heldChordKeys(m.held) {
			delete(m.held, key)
			m.sess.OnKeyUp(key, now)
		}
	}
	m.afterEdit()
}

func heldChordKeys(held map[string]*heldKey) []string {
	keys := make([]string, 0, len(held))
	for key, h := range held {
		if h.chord {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// tapChord presses and releases a and b at once. It does nothing while
// any digit is held.
func (m *Model) tapChord(a, b string) {
	if len(m.held) > 0 {
		return
	}
	now := m.now()
	m.markStarted(m.clock())
	m.sess.OnKeyDown(a, now)
	m.noteGesture(m.sess.OnKeyDown(b, now))
	m.sess.OnKeyUp(a, now)
	m.sess.OnKeyUp(b, now)
	m.afterEdit()
}
