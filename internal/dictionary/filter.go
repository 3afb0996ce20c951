package dictionary

// IsKeypadWord reports whether word is non-empty and made only of a-z, i.e. typable
// on the keypad.
func IsKeypadWord(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
