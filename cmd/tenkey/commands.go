package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tenkey/internal/config"
	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/logging"
	"github.com/verte-zerg/tenkey/internal/model"
	"github.com/verte-zerg/tenkey/internal/predict"
	"github.com/verte-zerg/tenkey/internal/replay"
	"github.com/verte-zerg/tenkey/internal/session"
	"github.com/verte-zerg/tenkey/internal/stats"
	"github.com/verte-zerg/tenkey/internal/statsui"
	"github.com/verte-zerg/tenkey/internal/store"
)

var (
	buildIn     string
	buildOut    string
	buildMinLen int
	buildMaxLen int
	buildLimit  int

	predictLimit int

	replayVerbose bool

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		// A broken config file must still be editable.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.SetupConsole(logLevel)
		},
		RunE: runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		log.Info().Str("path", path).Msg("wrote config template")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a dictionary from a word,frequency CSV",
		Args:  cobra.NoArgs,
		RunE:  runBuildCmd,
	}
	cmd.Flags().StringVar(&buildIn, "in", "", "CSV corpus such as unigram_freq.csv (- for stdin)")
	cmd.Flags().StringVar(&buildOut, "out", "", "output JSON (default: config dir words.json)")
	cmd.Flags().IntVar(&buildMinLen, "min-len", 1, "shortest word kept")
	cmd.Flags().IntVar(&buildMaxLen, "max-len", 0, "longest word kept (0: no limit)")
	cmd.Flags().IntVar(&buildLimit, "limit", 0, "keep the N highest-scored words (0: all)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runBuildCmd(cmd *cobra.Command, _ []string) error {
	if buildMaxLen > 0 && buildMaxLen < buildMinLen {
		return fmt.Errorf("--max-len must be >= --min-len")
	}
	if buildLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	var in io.Reader = cmd.InOrStdin()
	if buildIn != "-" {
		file, err := os.Open(buildIn)
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer closeQuietly(file, "corpus")
		in = file
	}
	started := time.Now()
	dict, err := dictionary.Build(in, dictionary.BuildOptions{
		MinLen: buildMinLen,
		MaxLen: buildMaxLen,
		Limit:  buildLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to build dictionary: %w", err)
	}
	out := buildOut
	if out == "" {
		out = config.DefaultDictionaryPath()
	}
	if err := dictionary.WriteJSON(out, dict); err != nil {
		return err
	}
	log.Info().Int("words", dict.Len()).Str("path", out).Dur("took", time.Since(started)).Msg("dictionary written")
	return nil
}

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <digits>",
		Short: "Print ranked candidates for a digit sequence",
		Args:  cobra.ExactArgs(1),
		RunE:  runPredictCmd,
	}
	cmd.Flags().IntVar(&predictLimit, "limit", predict.DefaultLimit, "maximum candidates")
	return cmd
}

func runPredictCmd(cmd *cobra.Command, args []string) error {
	sequence := args[0]
	for _, r := range sequence {
		if r < '0' || r > '9' {
			return fmt.Errorf("sequence must contain only digits, got %q", sequence)
		}
	}
	if predictLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	dict, _, err := loadDictionary(dictPath)
	if err != nil {
		return err
	}
	engine := predict.New(dict, keypadLayout, predict.WithLimit(predictLimit))
	for _, word := range engine.Rank(sequence) {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", word, dict.Score(word)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <word>...",
		Short: "Print the digits that type each word",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEncodeCmd,
	}
}

func runEncodeCmd(cmd *cobra.Command, args []string) error {
	for _, word := range args {
		digits, ok := keypadLayout.Encode(word)
		if !ok {
			return fmt.Errorf("%q cannot be typed on the keypad", word)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", word, digits); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Feed a key event script through a session (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "print every event")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer closeQuietly(file, "script")
		in = file
	}
	events, err := replay.Parse(in)
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}
	dict, _, err := loadDictionary(dictPath)
	if err != nil {
		return err
	}
	sess := session.New(predict.New(dict, keypadLayout), keypadLayout, session.DefaultConfig())
	steps := replay.Run(sess, events, time.Unix(0, 0))
	return writeReplay(cmd.OutOrStdout(), steps, sess.Snapshot(), replayVerbose)
}

func writeReplay(w io.Writer, steps []replay.Step, snap session.Snapshot, verbose bool) error {
	var lines []string
	for _, step := range steps {
		switch {
		case step.Gesture != session.GestureNone:
			lines = append(lines, fmt.Sprintf("%-14s %s", step.Event.String(), step.Gesture))
		case verbose:
			lines = append(lines, step.Event.String())
		}
	}
	current := ""
	if len(snap.Display) > 0 {
		current = snap.Display[snap.Highlight]
	}
	lines = append(lines,
		fmt.Sprintf("committed: %q", snap.Committed),
		fmt.Sprintf("sequence: %s", snap.Sequence),
		fmt.Sprintf("current: %s", current),
		fmt.Sprintf("candidates: %s", strings.Join(snap.Display, " ")),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print tables instead of the stats TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderPlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	width := 0
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if cols, _, err := term.GetSize(int(file.Fd())); err == nil {
			width = cols
		}
	}
	if err := stats.RenderCurve(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	if err := stats.RenderSessionTable(w, report.Sessions); err != nil {
		return err
	}
	return stats.RenderGestureTable(w, report.Gestures)
}
