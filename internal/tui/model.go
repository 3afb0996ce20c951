// Package tui provides the Bubble Tea keypad interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/tenkey/internal/generator"
	"github.com/verte-zerg/tenkey/internal/model"
	"github.com/verte-zerg/tenkey/internal/session"
	statsPkg "github.com/verte-zerg/tenkey/internal/stats"
	"github.com/verte-zerg/tenkey/internal/store"
)

// Model implements the Bubble Tea keypad UI.
type Model struct {
	config         model.Config
	sess           *session.Session
	store          *store.Store
	gen            *generator.Generator
	dictionaryPath string

	clock   func() time.Time
	skew    time.Duration
	held    map[string]*heldKey
	nextGen int

	width  int
	height int

	started   bool
	startedAt time.Time
	saved     bool

	target     []generator.Prompt
	targetLine string
	linesDone  int

	lastGesture session.Gesture

	lastWPM float64
	hasLast bool

	allWPM      float64
	allChars    int
	allDuration int64
}

var (
	committedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle     = committedStyle
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	caseStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6C35C"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	digitsStyle      = incorrectStyle.Italic(true)
	cursorStyle      = pendingStyle.Underline(true)
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#C89A3A"))
	candidateStyle   = pendingStyle
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a keypad TUI model. gen may be nil when practice mode is off.
func NewModel(cfg model.Config, sess *session.Session, st *store.Store, gen *generator.Generator, dictionaryPath string) *Model {
	m := &Model{
		config:         cfg,
		sess:           sess,
		store:          st,
		gen:            gen,
		dictionaryPath: dictionaryPath,
		clock:          time.Now,
		held:           map[string]*heldKey{},
	}
	m.newTarget()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case releaseMsg:
		m.releaseDigit(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.finishSession()
		return tea.Quit
	case tea.KeyEnter:
		m.tapChord(session.GestureSelect.Keys())
		return nil
	case tea.KeyBackspace, tea.KeyDelete:
		m.tapChord(session.GestureDeleteChar.Keys())
		return nil
	case tea.KeyCtrlW:
		m.tapChord(session.GestureDeleteWord.Keys())
		return nil
	case tea.KeyRunes:
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			key, shifted, ok := digitForRune(r)
			if !ok {
				continue
			}
			cmds = append(cmds, m.pressDigit(key, shifted))
		}
		return tea.Batch(cmds...)
	default:
		return nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := make([]string, 0, 4)
	contentWidth := m.width * 7 / 10
	if m.targetLine != "" {
		sections = append(sections, wrapCells(m.targetCells(), contentWidth))
	}
	sections = append(sections, wrapCells(m.composeCells(), contentWidth), m.renderCandidates(contentWidth), renderLegend())
	content := strings.Join(sections, "\n\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(max(contentWidth, 1)).Render(content)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) markStarted(now time.Time) {
	if m.started {
		return
	}
	m.started = true
	m.startedAt = now
}

func (m *Model) noteGesture(g session.Gesture) {
	if g == session.GestureNone {
		return
	}
	m.lastGesture = g
	a, b := g.Keys()
	log.Debug().Str("gesture", g.String()).Str("keys", a+"+"+b).Msg("chord")
}

// afterEdit advances practice mode once the committed text covers the target.
func (m *Model) afterEdit() {
	if m.targetLine == "" || m.sess.Sequence() != "" {
		return
	}
	if len([]rune(m.sess.Committed())) < len([]rune(m.targetLine)) {
		return
	}
	m.linesDone++
	log.Debug().Int("lines", m.linesDone).Bool("exact", m.sess.Committed() == m.targetLine).Msg("practice line done")
	m.sess.Reset()
	m.newTarget()
}

func (m *Model) newTarget() {
	if !m.config.Practice || m.gen == nil || m.gen.Empty() {
		m.target = nil
		m.targetLine = ""
		return
	}
	m.target = m.gen.Generate(m.config.PracticeWords, generator.Options{})
	m.targetLine = generator.Line(m.target)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		log.Error().Err(err).Msg("failed to load session stats")
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _ = statsPkg.SessionMetrics(last.CharsCommitted, last.Keystrokes, last.DurationMs)
	m.hasLast = true
	for _, s := range sessions {
		m.allChars += s.CharsCommitted
		m.allDuration += s.DurationMs
	}
	m.allWPM, _ = statsPkg.SessionMetrics(m.allChars, 0, m.allDuration)
}

func (m *Model) renderFooter() string {
	counters := m.sess.Counters()
	segments := []string{fmt.Sprintf("Words %d", counters.WordsCommitted)}
	if m.started {
		elapsed := m.clock().Sub(m.startedAt).Milliseconds()
		wpm, _ := statsPkg.SessionMetrics(counters.CharsCommitted, counters.Keystrokes, elapsed)
		segments = append(segments, fmt.Sprintf("Now %.1f WPM", wpm))
	}
	if m.targetLine != "" {
		segments = append(segments, fmt.Sprintf("Lines %d", m.linesDone))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM", m.lastWPM))
	}
	if m.allDuration > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM", m.allWPM))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// finishSession stores the session metrics once. Sessions without input are skipped.
func (m *Model) finishSession() {
	if !m.started || m.saved || m.store == nil {
		return
	}
	m.saved = true
	endedAt := m.clock()
	counters := m.sess.Counters()
	stats := model.SessionStats{
		StartedAt:      m.startedAt,
		EndedAt:        endedAt,
		DictionaryPath: m.dictionaryPath,
		Keystrokes:     counters.Keystrokes,
		WordsCommitted: counters.WordsCommitted,
		CharsCommitted: counters.CharsCommitted,
		DurationMs:     endedAt.Sub(m.startedAt).Milliseconds(),
	}
	gestures := make([]model.GestureStats, 0, len(session.Gestures))
	for _, g := range session.Gestures {
		gestures = append(gestures, model.GestureStats{Gesture: g.String(), Count: counters.Gestures[g]})
	}
	id, err := m.store.InsertSession(context.Background(), stats, gestures)
	if err != nil {
		log.Error().Err(err).Msg("failed to save session")
		return
	}
	log.Info().Int64("session", id).Int("words", stats.WordsCommitted).Int64("duration_ms", stats.DurationMs).Msg("session saved")
}
