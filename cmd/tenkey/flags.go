package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tenkey/internal/config"
	"github.com/verte-zerg/tenkey/internal/keypad"
	"github.com/verte-zerg/tenkey/internal/predict"
	"github.com/verte-zerg/tenkey/internal/session"
)

// applyKeypadConfig copies config file values into keypad flags the user did not set.
func applyKeypadConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyIntConfig(cmd, "duplicate-ms", &keypadDuplicateMs, fileCfg.Keypad.DuplicateMs)
	applyIntConfig(cmd, "hold-ms", &keypadHoldMs, fileCfg.Keypad.HoldMs)
	applyIntConfig(cmd, "release-ms", &keypadReleaseMs, fileCfg.Keypad.ReleaseMs)
	applyIntConfig(cmd, "max-candidates", &keypadMaxCandidates, fileCfg.Keypad.MaxCandidates)
	applyBoolConfig(cmd, "practice", &practiceEnabled, fileCfg.Practice.Enabled)
	applyIntConfig(cmd, "practice-words", &practiceWords, fileCfg.Practice.Words)
	applyIntConfig(cmd, "practice-top", &practiceTop, fileCfg.Practice.Top)
}

// layoutFromConfig builds the keypad layout from the [keypad.layout] table, or
// returns the default layout when the table is empty.
func layoutFromConfig(table map[string]string) (keypad.Layout, error) {
	if len(table) == 0 {
		return keypad.Default(), nil
	}
	for key := range table {
		if !keypad.IsDigit(key) {
			return keypad.Layout{}, fmt.Errorf("keypad layout key %q is not a digit", key)
		}
	}
	layout := keypad.New(table)
	if err := layout.Validate(); err != nil {
		return keypad.Layout{}, fmt.Errorf("invalid keypad layout: %w", err)
	}
	return layout, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tenkey configuration
# Uncomment a value to enable it. CLI flags override config values.

[keypad]
# duplicate-ms = %d       # Ignore letter releases this soon after a chord
# hold-ms = %d            # Press length (ms) that capitalizes a letter
# release-ms = %d         # Quiet time after which a terminal key counts as released
# max-candidates = %d     # Candidates kept per sequence

# [keypad.layout]         # Digit to letters; must cover a-z once, 0 and 9 stay empty
# 1 = "abc"
# 2 = "def"
# 3 = "ghi"
# 4 = "jkl"
# 5 = "mno"
# 6 = "pqrs"
# 7 = "tuv"
# 8 = "wxyz"

[dictionary]
# path = %q

[practice]
# enabled = false         # Show a practice line
# words = %d              # Words per practice line
# top = %d                # Draw from the top N dictionary words

[log]
# level = "info"
# file = %q
`,
		session.DefaultDuplicateWindow.Milliseconds(),
		session.DefaultHoldThreshold.Milliseconds(),
		defaultReleaseMs,
		predict.DefaultLimit,
		config.DefaultDictionaryPath(),
		defaultPracticeWords,
		defaultPracticeTop,
		config.DefaultLogPath(),
	)
}
