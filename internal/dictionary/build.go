package dictionary

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// BuildOptions controls corpus filtering during Build.
type BuildOptions struct {
	MinLen int
	MaxLen int
	Limit  int
}

// Build reads word,frequency CSV rows (such as unigram_freq.csv) and returns the
// keypad-typable words in input order. Rows without a usable score, including a
// header row, are skipped.
func Build(r io.Reader, opts BuildOptions) (*Dictionary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var entries []Entry
	seen := map[string]struct{}{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(record[0]))
		if !IsKeypadWord(word) || !withinLength(word, opts) {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		entries = append(entries, Entry{Word: word, Score: score})
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		sortEntries(entries)
		entries = entries[:opts.Limit]
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus contained no usable words")
	}
	return New(entries), nil
}

// WriteJSON writes the dictionary as a {"word": score} object in dictionary order.
// The file is replaced atomically.
func WriteJSON(path string, d *Dictionary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "dictionary-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := encodeJSON(writer, d); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush dictionary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, d *Dictionary) error {
	if _, err := io.WriteString(w, "{\n"); err != nil {
		return err
	}
	for i, word := range d.words {
		key, err := json.Marshal(word)
		if err != nil {
			return err
		}
		sep := ","
		if i == len(d.words)-1 {
			sep = ""
		}
		score := strconv.FormatFloat(d.scores[word], 'f', -1, 64)
		if _, err := fmt.Fprintf(w, "  %s: %s%s\n", key, score, sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

func withinLength(word string, opts BuildOptions) bool {
	if opts.MinLen > 0 && len(word) < opts.MinLen {
		return false
	}
	if opts.MaxLen > 0 && len(word) > opts.MaxLen {
		return false
	}
	return true
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}
