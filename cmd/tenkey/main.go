// Package main provides the CLI entrypoint for tenkey.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tenkey/internal/config"
	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/generator"
	"github.com/verte-zerg/tenkey/internal/keypad"
	"github.com/verte-zerg/tenkey/internal/logging"
	"github.com/verte-zerg/tenkey/internal/model"
	"github.com/verte-zerg/tenkey/internal/predict"
	"github.com/verte-zerg/tenkey/internal/session"
	"github.com/verte-zerg/tenkey/internal/store"
	"github.com/verte-zerg/tenkey/internal/tui"
)

const (
	defaultReleaseMs     = 150
	defaultPracticeWords = 8
	defaultPracticeTop   = 500
	defaultCurveWindow   = 10
	embeddedDictionary   = "embedded"
)

var (
	fileCfg      config.FileConfig
	keypadLayout = keypad.Default()
	dictPath     string
	logLevel     string

	keypadDuplicateMs   int
	keypadHoldMs        int
	keypadReleaseMs     int
	keypadMaxCandidates int
	practiceEnabled     bool
	practiceWords       int
	practiceTop         int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tenkey",
		Short:         "Predictive ten-key keypad typing",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runKeypadCmd,
		PersistentPreRunE: loadFileConfig,
	}

	rootCmd.PersistentFlags().StringVar(&dictPath, "dict", "", "dictionary file (.json scores or word list)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&keypadDuplicateMs, "duplicate-ms", int(session.DefaultDuplicateWindow/time.Millisecond), "ignore letter releases this soon after a chord")
	rootCmd.Flags().IntVar(&keypadHoldMs, "hold-ms", int(session.DefaultHoldThreshold/time.Millisecond), "press length that capitalizes a letter")
	rootCmd.Flags().IntVar(&keypadReleaseMs, "release-ms", defaultReleaseMs, "quiet time after which a terminal key counts as released")
	rootCmd.Flags().IntVar(&keypadMaxCandidates, "max-candidates", predict.DefaultLimit, "candidates kept per sequence")
	rootCmd.Flags().BoolVar(&practiceEnabled, "practice", false, "show a practice line of dictionary words")
	rootCmd.Flags().IntVar(&practiceWords, "practice-words", defaultPracticeWords, "words per practice line")
	rootCmd.Flags().IntVar(&practiceTop, "practice-top", defaultPracticeTop, "draw practice words from the top N dictionary words")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// loadFileConfig reads the config file for every command and sets up console logging.
func loadFileConfig(cmd *cobra.Command, _ []string) error {
	var err error
	fileCfg, err = config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dict", &dictPath, fileCfg.Dictionary.Path)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	keypadLayout, err = layoutFromConfig(fileCfg.Keypad.Layout)
	if err != nil {
		return err
	}
	return logging.SetupConsole(logLevel)
}

func runKeypadCmd(cmd *cobra.Command, _ []string) error {
	applyKeypadConfig(cmd, fileCfg)
	cfg := model.Config{
		DictionaryPath:  dictPath,
		DuplicateWindow: time.Duration(keypadDuplicateMs) * time.Millisecond,
		HoldThreshold:   time.Duration(keypadHoldMs) * time.Millisecond,
		ReleaseDelay:    time.Duration(keypadReleaseMs) * time.Millisecond,
		MaxCandidates:   keypadMaxCandidates,
		Practice:        practiceEnabled,
		PracticeWords:   practiceWords,
		PracticeTop:     practiceTop,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logPath = *fileCfg.Log.File
	}
	logFile, err := logging.SetupFile(logPath, logLevel)
	if err != nil {
		return err
	}
	defer closeQuietly(logFile, "log file")

	dict, source, err := loadDictionary(cfg.DictionaryPath)
	if err != nil {
		return err
	}
	engine := predict.New(dict, keypadLayout, predict.WithLimit(cfg.MaxCandidates))
	sess := session.New(engine, keypadLayout, session.Config{
		DuplicateWindow: cfg.DuplicateWindow,
		HoldThreshold:   cfg.HoldThreshold,
	})

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	var gen *generator.Generator
	if cfg.Practice {
		gen = generator.New(dict, keypadLayout, cfg.PracticeTop)
	}

	log.Info().Str("dictionary", source).Int("words", dict.Len()).Bool("practice", cfg.Practice).Msg("starting keypad")
	program := tea.NewProgram(tui.NewModel(cfg, sess, st, gen, source), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadDictionary resolves the dictionary: an explicit path, else the built
// dictionary if present, else the embedded one. It returns the source label.
func loadDictionary(path string) (*dictionary.Dictionary, string, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultDictionaryPath()); err == nil {
			path = config.DefaultDictionaryPath()
		}
	}
	if path == "" {
		dict, err := dictionary.Default()
		if err != nil {
			return nil, "", err
		}
		return dict, embeddedDictionary, nil
	}
	dict, err := dictionary.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dictionary: %w", err)
	}
	if dict.Len() == 0 {
		log.Warn().Str("path", path).Msg("dictionary has no keypad words")
	}
	return dict, path, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.DuplicateWindow < 0 {
		return fmt.Errorf("--duplicate-ms must be >= 0")
	}
	if cfg.HoldThreshold <= 0 {
		return fmt.Errorf("--hold-ms must be > 0")
	}
	if cfg.ReleaseDelay <= 0 {
		return fmt.Errorf("--release-ms must be > 0")
	}
	if cfg.MaxCandidates <= 0 {
		return fmt.Errorf("--max-candidates must be > 0")
	}
	if cfg.Practice && cfg.PracticeWords <= 0 {
		return fmt.Errorf("--practice-words must be > 0")
	}
	if cfg.PracticeTop < 0 {
		return fmt.Errorf("--practice-top must be >= 0")
	}
	return nil
}

func closeQuietly(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		log.Error().Err(err).Msgf("failed to close %s", what)
	}
}
