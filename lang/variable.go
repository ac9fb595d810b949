package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Variables maps folded identifiers to values. The last write to a name wins.
type Variables map[string]float64

// Set assigns value to name.
func (v Variables) Set(name string, value float64) { v[Fold(name)] = value }

// Get returns the value of name.
func (v Variables) Get(name string) (float64, bool) {
	value, ok := v[Fold(name)]

	return value, ok
}

// Sorted returns an iterator over the variables in name order.
func (v Variables) Sorted() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for _, name := range slices.Sorted(maps.Keys(v)) {
			if !yield(name, v[name]) {
				return
			}
		}
	}
}

// ParseVariables parses ";"-separated "name=value" pairs. Blank pairs are
// ignored.
func ParseVariables(text string) (Variables, error) {
	return parseVariables(strings.Split(text, statementSep))
}

func parseVariables(pairs []string) (Variables, error) {
	vars := make(Variables, len(pairs))

	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		name, value, err := parseVariable(pair)
		if err != nil {
			return nil, err
		}

		vars.Set(name, value)
	}

	return vars, nil
}

func parseVariable(pair string) (string, float64, error) {
	name, text, ok := strings.Cut(pair, definitionSep)
	name, text = strings.TrimSpace(name), strings.TrimSpace(text)

	if !ok || !IsIdentifier(name) {
		return "", 0, ErrInvalidVariable.With(slog.String("pair", pair))
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", 0, ErrInvalidVariable.
			With(slog.String("pair", pair)).
			Wrap(err)
	}

	return name, value, nil
}
