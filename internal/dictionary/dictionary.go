// Package dictionary holds the static word -> score table used for ranking.
package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

//go:embed default.json
var defaultJSON []byte

// Entry is a single dictionary word and its frequency score.
type Entry struct {
	Word  string
	Score float64
}

// Dictionary is an ordered, read-only word -> score mapping. It is safe for
// concurrent readers.
type Dictionary struct {
	words  []string
	scores map[string]float64
}

// New builds a dictionary from entries. Later duplicates are dropped so the first
// occurrence keeps its position.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		words:  make([]string, 0, len(entries)),
		scores: make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		if _, ok := d.scores[e.Word]; ok {
			continue
		}
		d.words = append(d.words, e.Word)
		d.scores[e.Word] = e.Score
	}
	return d
}

// Default returns the embedded starter dictionary.
func Default() (*Dictionary, error) {
	d, err := decodeJSON(bytes.NewReader(defaultJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded dictionary: %w", err)
	}
	return d, nil
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns the words in dictionary order. The slice must not be modified.
func (d *Dictionary) Words() []string {
	return d.words
}

// Score returns the score for word, or 0 when absent.
func (d *Dictionary) Score(word string) float64 {
	return d.scores[word]
}

// Top returns up to n entries with the highest scores, ties in dictionary order.
func (d *Dictionary) Top(n int) []Entry {
	entries := make([]Entry, 0, len(d.words))
	for _, w := range d.words {
		entries = append(entries, Entry{Word: w, Score: d.scores[w]})
	}
	sortEntries(entries)
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Load reads a dictionary file. JSON objects ({"word": score}) are read as-is;
// any other file is treated as a frequency-ordered word list, one word per line.
func Load(path string) (*Dictionary, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadWordList(path)
}

// LoadJSON reads a {"word": score} object, preserving key order.
func LoadJSON(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dictionary.
			_ = cerr
		}
	}()
	d, err := decodeJSON(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return d, nil
}

// LoadWordList reads one word per line, most frequent first, and scores each word
// by its rank so earlier lines score higher.
func LoadWordList(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !IsKeypadWord(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w, Score: float64(len(words) - i)}
	}
	return New(entries), nil
}

func decodeJSON(r io.Reader) (*Dictionary, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		word, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		score, ok := toScore(raw)
		if !ok {
			continue
		}
		word = strings.ToLower(word)
		if !IsKeypadWord(word) {
			continue
		}
		entries = append(entries, Entry{Word: word, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return New(entries), nil
}

func toScore(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
