// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tenkey/internal/model"
	"github.com/verte-zerg/tenkey/internal/session"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes words per minute and keystrokes per committed character.
func SessionMetrics(chars, keystrokes int, durationMs int64) (wpm, kspc float64) {
	if chars > 0 {
		kspc = float64(keystrokes) / float64(chars)
	}
	if durationMs <= 0 {
		return 0, kspc
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(chars) / 5.0) / minutes
	return wpm, kspc
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[(len(sparkChars)-1)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// WPMSeries returns per-session words per minute smoothed over window sessions.
func WPMSeries(sessions []model.SessionAggregate, window int) []float64 {
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i], _ = SessionMetrics(s.CharsCommitted, s.Keystrokes, s.DurationMs)
	}
	return MovingAverage(wpms, window)
}

// RenderSummary prints aggregate numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, bestWPM float64
	var words, chars, keystrokes int
	var durationMs int64
	for _, s := range sessions {
		wpm, _ := SessionMetrics(s.CharsCommitted, s.Keystrokes, s.DurationMs)
		totalWPM += wpm
		bestWPM = math.Max(bestWPM, wpm)
		words += s.WordsCommitted
		chars += s.CharsCommitted
		keystrokes += s.Keystrokes
		durationMs += s.DurationMs
	}
	_, kspc := SessionMetrics(chars, keystrokes, durationMs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Words: %d", words),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/float64(len(sessions))),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Keystrokes/char: %.2f", kspc),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints the smoothed WPM sparkline, squeezed into width columns when width > 0.
func RenderCurve(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	series := WPMSeries(sessions, window)
	minVal, maxVal := series[0], series[0]
	for _, v := range series {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if _, err := fmt.Fprintf(w, "WPM curve (%.1f..%.1f)\n", minVal, maxVal); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n\n", Sparkline(Downsample(series, width)))
	return err
}

// RenderSessionTable prints one row per session, newest last.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Ended", "Words", "Keys", "WPM", "KSPC"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		wpm, kspc := SessionMetrics(s.CharsCommitted, s.Keystrokes, s.DurationMs)
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WordsCommitted),
			fmt.Sprintf("%d", s.Keystrokes),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.2f", kspc),
		})
	}
	return writeTable(w, "Sessions", headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderGestureTable prints gesture totals with their chord keys.
func RenderGestureTable(w io.Writer, gestures []model.GestureStats) error {
	if len(gestures) == 0 {
		_, err := fmt.Fprintln(w, "No gestures recorded.")
		return err
	}
	total := 0
	for _, g := range gestures {
		total += g.Count
	}
	headers := []string{"Gesture", "Keys", "Count", "Share"}
	rows := make([][]string, 0, len(gestures))
	for _, g := range gestures {
		rows = append(rows, []string{
			g.Gesture,
			GestureKeys(g.Gesture),
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1f%%", float64(g.Count)/float64(total)*100),
		})
	}
	return writeTable(w, "Gestures", headers, rows, map[int]bool{2: true, 3: true})
}

// GestureKeys returns the "a+b" chord label for a stored gesture name.
func GestureKeys(name string) string {
	g, ok := session.ParseGesture(name)
	if !ok {
		return "?"
	}
	a, b := g.Keys()
	return a + "+" + b
}
