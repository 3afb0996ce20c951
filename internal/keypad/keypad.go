// Package keypad defines the digit-to-letter layout of the 10-key pad.
package keypad

import (
	"fmt"
	"strings"
)

// Layout maps each digit key to the lowercase letters it represents.
// Digits without letters are reserved for navigation.
type Layout struct {
	letters [10]string
}

// Default returns the phone-style layout: 1=abc through 8=wxyz, with 9 and 0 left
// for navigation.
func Default() Layout {
	return Layout{letters: [10]string{
		0: "",
		1: "abc",
		2: "def",
		3: "ghi",
		4: "jkl",
		5: "mno",
		6: "pqrs",
		7: "tuv",
		8: "wxyz",
		9: "",
	}}
}

// New builds a layout from a digit -> letters table. Keys that are not single digits
// are ignored.
func New(table map[string]string) Layout {
	var l Layout
	for key, letters := range table {
		idx, ok := digitIndex(key)
		if !ok {
			continue
		}
		l.letters[idx] = strings.ToLower(letters)
	}
	return l
}

// Letters returns the letters mapped to key, or "" for navigation or unknown keys.
func (l Layout) Letters(key string) string {
	idx, ok := digitIndex(key)
	if !ok {
		return ""
	}
	return l.letters[idx]
}

// IsLetterKey reports whether key maps to at least one letter.
func (l Layout) IsLetterKey(key string) bool {
	return l.Letters(key) != ""
}

// IsDigit reports whether key is a single '0'-'9' character.
func IsDigit(key string) bool {
	_, ok := digitIndex(key)
	return ok
}

// Encode returns the digit sequence that spells word. Letters absent from the
// layout make ok false.
func (l Layout) Encode(word string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		digit := l.digitFor(r)
		if digit < 0 {
			return "", false
		}
		b.WriteByte(byte('0' + digit))
	}
	return b.String(), true
}

// Validate checks that the letter keys are pairwise disjoint and cover a-z exactly once.
// The navigation keys 0 and 9 must stay empty.
func (l Layout) Validate() error {
	for _, digit := range []int{0, 9} {
		if l.letters[digit] != "" {
			return fmt.Errorf("navigation key %d cannot map letters", digit)
		}
	}
	seen := map[rune]int{}
	for digit, letters := range l.letters {
		for _, r := range letters {
			if r < 'a' || r > 'z' {
				return fmt.Errorf("key %d maps non-letter %q", digit, r)
			}
			if prev, ok := seen[r]; ok {
				return fmt.Errorf("letter %q mapped by keys %d and %d", r, prev, digit)
			}
			seen[r] = digit
		}
	}
	for r := 'a'; r <= 'z'; r++ {
		if _, ok := seen[r]; !ok {
			return fmt.Errorf("letter %q is not mapped", r)
		}
	}
	return nil
}

func (l Layout) digitFor(r rune) int {
	for digit, letters := range l.letters {
		if strings.ContainsRune(letters, r) {
			return digit
		}
	}
	return -1
}

func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
