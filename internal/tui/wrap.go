package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tenkey/internal/session"
)

type cell struct {
	s       string
	width   int
	isSpace bool
}

func newCell(r rune, style lipgloss.Style) cell {
	return cell{s: style.Render(string(r)), width: runewidth.RuneWidth(r), isSpace: r == ' '}
}

func appendCells(out []cell, text string, style lipgloss.Style) []cell {
	for _, r := range text {
		out = append(out, newCell(r, style))
	}
	return out
}

// targetCells colors the practice line against the committed text. Letters typed
// with the wrong case are marked apart from wrong letters.
func (m *Model) targetCells() []cell {
	return compareCells([]rune(m.targetLine), []rune(m.sess.Committed()))
}

func compareCells(target, input []rune) []cell {
	out := make([]cell, 0, len(target))
	for i, want := range target {
		if i >= len(input) {
			style := pendingStyle
			if i == len(input) {
				style = cursorStyle
			}
			out = append(out, newCell(want, style))
			continue
		}
		got := input[i]
		switch {
		case got == want:
			out = append(out, newCell(want, correctStyle))
		case want == ' ':
			out = append(out, newCell('•', incorrectStyle))
		case unicode.ToLower(got) == unicode.ToLower(want):
			out = append(out, newCell(want, caseStyle))
		default:
			out = append(out, newCell(want, incorrectStyle))
		}
	}
	return out
}

// composeCells renders the committed text followed by the word in progress.
// A sequence with no candidates is shown as its digits.
func (m *Model) composeCells() []cell {
	committed := m.sess.Committed()
	out := appendCells(nil, committed, committedStyle)
	if seq := m.sess.Sequence(); seq != "" {
		if committed != "" {
			out = append(out, newCell(' ', committedStyle))
		}
		if word := m.sess.Current(); word != "" {
			out = appendCells(out, word, currentWordStyle)
		} else {
			out = appendCells(out, seq, digitsStyle)
		}
	}
	return append(out, newCell(' ', cursorStyle))
}

// renderCandidates lists candidates with the highlighted one marked, dropping
// the tail that does not fit in width.
func (m *Model) renderCandidates(width int) string {
	snap := m.sess.Snapshot()
	if len(snap.Display) == 0 {
		if snap.Sequence != "" {
			return candidateStyle.Render("(no match)")
		}
		return ""
	}
	parts := make([]string, 0, len(snap.Display))
	used := 0
	for i, word := range snap.Display {
		w := runewidth.StringWidth(word) + 2
		if width > 0 && used+w > width && i > snap.Highlight {
			break
		}
		used += w
		style := candidateStyle
		if i == snap.Highlight {
			style = highlightStyle
		}
		parts = append(parts, style.Render(" "+word+" "))
	}
	return strings.Join(parts, "")
}

func renderLegend() string {
	labels := map[session.Gesture]string{
		session.GestureSelect:        "select",
		session.GestureSelectNoSpace: "join",
		session.GestureDeleteChar:    "del",
		session.GestureDeleteWord:    "del word",
		session.GesturePunctuation:   "punct",
	}
	parts := make([]string, 0, len(session.Gestures)+1)
	for _, g := range session.Gestures {
		a, b := g.Keys()
		parts = append(parts, a+"+"+b+" "+labels[g])
	}
	parts = append(parts, "9/0 prev/next")
	return footerStyle.Render(strings.Join(parts, "  "))
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks lines at the last space that fits, or mid-word when a word
// is wider than width.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return renderCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(renderCells(line[:lastSpace]))
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(renderCells(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderCells(line))
	return out.String()
}

func measure(line []cell) (width, lastSpace int) {
	lastSpace = -1
	for i, c := range line {
		width += c.width
		if c.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
