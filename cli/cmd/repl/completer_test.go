package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fatexpr/lang"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "round(fo", 8, "fo", 6, 8},
		{"after_comma", "max(a, fo", 9, "fo", 7, 9},
		{"after_colon", "x:fo", 4, "fo", 2, 4},
		{"after_relation", "a >= fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"digits", "x12+y", 2, "x12", 0, 3},
		{"old_value", "_+ab", 1, "", 1, 1},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSessionNames(t *testing.T) {
	t.Parallel()

	s := lang.New()
	s.SetVariable("rate", 2)
	s.AddFunctionList("area(w, h) = w*h", "broken(")

	n := sessionNames(s, []string{"clamp", "max"})

	if !slices.Contains(n.values, "rate") || !slices.Contains(n.values, "true") {
		t.Errorf("values = %v, want rate and true", n.values)
	}

	for _, name := range []string{"area", "clamp", "max", "sqrt"} {
		if !n.callable(name) {
			t.Errorf("callable(%q) = false, want true", name)
		}
	}

	if n.callable("rate") || n.callable("broken") {
		t.Errorf("callables = %v, want no rate or broken", n.callables)
	}

	if !slices.IsSorted(n.callables) || len(slices.Compact(slices.Clone(n.callables))) != len(n.callables) {
		t.Errorf("callables = %v, want sorted and unique", n.callables)
	}

	if got, want := len(n.all()), len(n.values)+len(n.callables); got != want {
		t.Errorf("len(all()) = %d, want %d", got, want)
	}
}

func TestComputeMatches(t *testing.T) {
	t.Parallel()

	s := lang.New()
	s.SetVariable("velocity", 3)

	m := newModel(t.Context(), s, nil, NewHistory(""), testLogger())
	m.input.SetValue("2*velo")
	m.input.SetCursor(6)

	matches, _, start, end := m.computeMatches()
	if start != 2 || end != 6 {
		t.Errorf("word bounds = (%d, %d), want (2, 6)", start, end)
	}

	if len(matches) == 0 || matches[0].Str != "velocity" {
		t.Errorf("best match = %v, want velocity", matches)
	}

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("und")
	m.input.SetCursor(3)

	matches, _, _, _ = m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "undef" {
		t.Errorf("best command match = %v, want undef", matches)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	t.Parallel()

	n := names{values: []string{"alpha"}, callables: []string{"abs"}}
	matches := fuzzy.Find("a", n.all())

	bar := renderCandidateBar(matches, n, -1, false, 80)
	if !strings.Contains(bar, "alpha") || !strings.Contains(bar, "abs()") {
		t.Errorf("bar = %q, want alpha and abs()", bar)
	}

	if got := renderCandidateBar(matches, n, -1, false, 0); got != "" {
		t.Errorf("bar with zero width = %q, want empty", got)
	}

	many := make([]string, 50)
	for i := range many {
		many[i] = "abcdefgh" + strings.Repeat("x", i%5)
	}

	bar = renderCandidateBar(fuzzy.Find("a", many), names{values: many}, -1, false, 40)
	if !strings.HasSuffix(bar, "...") {
		t.Errorf("bar = %q, want ellipsis", bar)
	}
}
