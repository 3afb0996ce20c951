package session

// Gesture identifies a two-key chord recognized on key-down.
type Gesture int

// Gestures in match priority order.
const (
	GestureNone Gesture = iota
	GestureSelect
	GestureSelectNoSpace
	GestureDeleteChar
	GestureDeleteWord
	GesturePunctuation
)

// Gestures lists every chord gesture in match priority order.
var Gestures = []Gesture{
	GestureSelect,
	GestureSelectNoSpace,
	GestureDeleteChar,
	GestureDeleteWord,
	GesturePunctuation,
}

// Punctuation is the candidate list shown by the punctuation chord.
var Punctuation = []string{".", ",", "!", "?"}

type chord struct {
	a, b    string
	gesture Gesture
}

var chords = []chord{
	{a: "9", b: "0", gesture: GestureSelect},
	{a: "8", b: "0", gesture: GestureSelectNoSpace},
	{a: "1", b: "2", gesture: GestureDeleteChar},
	{a: "8", b: "9", gesture: GestureDeleteWord},
	{a: "1", b: "3", gesture: GesturePunctuation},
}

// String returns the gesture's stable name, used for logging and storage.
func (g Gesture) String() string {
	switch g {
	case GestureSelect:
		return "select"
	case GestureSelectNoSpace:
		return "select-no-space"
	case GestureDeleteChar:
		return "delete-char"
	case GestureDeleteWord:
		return "delete-word"
	case GesturePunctuation:
		return "punctuation"
	default:
		return "none"
	}
}

// Keys returns the two keys forming the chord, or empty strings for GestureNone.
func (g Gesture) Keys() (string, string) {
	for _, c := range chords {
		if c.gesture == g {
			return c.a, c.b
		}
	}
	return "", ""
}

// matchChord evaluates the chord predicates over the keys held before key
// arrived and key itself. Only pairs are considered; extra held keys do not
// block a match.
func matchChord(held func(string) bool, key string) Gesture {
	for _, c := range chords {
		if (key == c.a && held(c.b)) || (key == c.b && held(c.a)) {
			return c.gesture
		}
	}
	return GestureNone
}

// ParseGesture maps a stored gesture name back to its Gesture.
func ParseGesture(name string) (Gesture, bool) {
	for _, g := range Gestures {
		if g.String() == name {
			return g, true
		}
	}
	return GestureNone, false
}
