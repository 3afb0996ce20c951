package replay

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tenkey/internal/dictionary"
	"github.com/verte-zerg/tenkey/internal/keypad"
	"github.com/verte-zerg/tenkey/internal/predict"
	"github.com/verte-zerg/tenkey/internal/session"
)

const script = `
# type "hi", hold h for capitalization, then select
0 down 3
600 up 3
1000 down 3
1050 up 3
2000 down 9
2010 down 0
2050 up 9
2060 up 0
`

func TestParseAndRun(t *testing.T) {
	events, err := Parse(strings.NewReader(script))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 8 {
		t.Fatalf("expected 8 events, got %d", len(events))
	}
	if events[0].Line != 3 || events[0].String() != "0 down 3" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}

	dict := dictionary.New([]dictionary.Entry{{Word: "hi", Score: 10}, {Word: "ii", Score: 1}})
	s := session.New(predict.New(dict, keypad.Default()), keypad.Default(), session.DefaultConfig())
	steps := Run(s, events, time.Unix(0, 0))
	if steps[5].Gesture != session.GestureSelect {
		t.Fatalf("expected select on event 6, got %s", steps[5].Gesture)
	}
	if got := s.Committed(); got != "Hi" {
		t.Fatalf("expected Hi, got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing field":   "10 down",
		"bad offset":      "x down 1",
		"negative":        "-5 down 1",
		"unknown kind":    "10 press 1",
		"backwards time":  "10 down 1\n5 up 1",
		"offset overflow": "18446744073710 down 1",
	}
	for name, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
