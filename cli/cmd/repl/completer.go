package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fatexpr/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "funcs", "def", "undef", "order", "edit", "reset", "clear", "quit",
}

// isWordBoundary reports whether r ends an identifier. Identifiers are
// ASCII letters and digits, so everything else, including the old-value
// token "_", is a boundary.
func isWordBoundary(r rune) bool {
	return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// names lists the identifiers a session can resolve, split by whether they
// are called with arguments.
type names struct {
	values    []string
	callables []string
}

// sessionNames collects the variables, user functions, built-ins and
// external functions known to s. Malformed function definitions are
// skipped.
func sessionNames(s *lang.Session, externs []string) names {
	var n names

	for name := range s.Variables().Sorted() {
		n.values = append(n.values, name)
	}

	n.values = append(n.values, "true", "false")

	for _, def := range s.Functions() {
		if f, err := lang.ParseFunction(def); err == nil {
			n.callables = append(n.callables, f.Name())
		}
	}

	for name := range lang.Builtins() {
		n.callables = append(n.callables, name)
	}

	n.callables = append(n.callables, externs...)

	slices.Sort(n.callables)
	n.callables = slices.Compact(n.callables)

	return n
}

// all returns every name, values first.
func (n names) all() []string {
	return slices.Concat(n.values, n.callables)
}

// callable reports whether name is called with arguments.
func (n names) callable(name string) bool {
	_, ok := slices.BinarySearch(n.callables, name)

	return ok
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. An empty word yields no matches so the hint line stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = commandNames()
	} else {
		candidates = sessionNames(m.session, m.externs).all()
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	n names,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, n.callable(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
