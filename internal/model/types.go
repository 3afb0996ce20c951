// Package model defines shared data structures.
package model

import "time"

// Config defines keypad session settings.
type Config struct {
	DictionaryPath  string
	DuplicateWindow time.Duration
	HoldThreshold   time.Duration
	ReleaseDelay    time.Duration
	MaxCandidates   int
	Practice        bool
	PracticeWords   int
	PracticeTop     int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed keypad session. The typed text is not kept.
type SessionStats struct {
	StartedAt      time.Time
	EndedAt        time.Time
	DictionaryPath string
	Keystrokes     int
	WordsCommitted int
	CharsCommitted int
	DurationMs     int64
}

// GestureStats stores how often a chord gesture fired in a session.
type GestureStats struct {
	Gesture string
	Count   int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID      int64
	EndedAt        time.Time
	Keystrokes     int
	WordsCommitted int
	CharsCommitted int
	DurationMs     int64
}
