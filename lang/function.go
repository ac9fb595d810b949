package lang

import (
	"log/slog"
	"slices"
	"strings"
)

// Function is a parsed user function definition of the form
//
//	name(param1, param2, ...) = body
//
// Definitions are registered with a [Session] as raw text and parsed again on
// every lookup, so a Function never outlives the call that produced it.
type Function struct {
	name   string
	params []string
	body   string
}

// header parse states
const (
	expectName = iota
	expectOpen
	expectFirst
	expectParam
	expectDelimiter
	expectEnd
)

// ParseFunction parses a function definition.
func ParseFunction(text string) (*Function, error) {
	head, body, ok := strings.Cut(text, definitionSep)
	if !ok {
		return nil, ErrFunctionHeader.With(
			slog.String("definition", text),
			slog.String("reason", "missing "+definitionSep),
		)
	}

	tokens, err := Tokenize(head)
	if err != nil {
		return nil, ErrFunctionHeader.
			With(slog.String("definition", text)).
			Wrap(err)
	}

	var (
		f     Function
		state = expectName
	)

	for _, tok := range tokens {
		switch state {
		case expectName:
			if tok.Kind != KindIdentifier {
				return nil, ErrFunctionHeader.With(
					slog.String("definition", text),
					slog.Any("token", tok),
				)
			}

			f.name = tok.Text
			state = expectOpen

		case expectOpen:
			if tok.Kind != KindParenOpen {
				return nil, ErrFunctionHeader.With(
					slog.String("definition", text),
					slog.Any("token", tok),
				)
			}

			state = expectFirst

		case expectFirst, expectParam:
			switch {
			case tok.Kind == KindIdentifier:
				if slices.ContainsFunc(f.params, func(p string) bool {
					return Fold(p) == Fold(tok.Text)
				}) {
					return nil, ErrFunctionType.With(
						slog.String("definition", text),
						slog.String("param", tok.Text),
						slog.String("reason", "duplicate"),
					)
				}

				f.params = append(f.params, tok.Text)
				state = expectDelimiter

			case tok.Kind == KindParenClose && state == expectFirst:
				state = expectEnd

			default:
				return nil, ErrFunctionType.With(
					slog.String("definition", text),
					slog.Any("token", tok),
				)
			}

		case expectDelimiter:
			switch tok.Kind {
			case KindDelimiter:
				state = expectParam

			case KindParenClose:
				state = expectEnd

			default:
				return nil, ErrFunctionDelimiter.With(
					slog.String("definition", text),
					slog.Any("token", tok),
				)
			}

		case expectEnd:
			return nil, ErrFunctionHeader.With(
				slog.String("definition", text),
				slog.Any("token", tok),
				slog.String("reason", "trailing tokens"),
			)
		}
	}

	switch state {
	case expectName, expectOpen:
		return nil, ErrFunctionHeader.With(slog.String("definition", text))

	case expectFirst, expectParam, expectDelimiter:
		return nil, ErrFunctionClose.With(slog.String("definition", text))
	}

	f.body = strings.TrimSpace(body)
	if f.body == "" {
		return nil, ErrFunctionHeader.With(
			slog.String("definition", text),
			slog.String("reason", "empty body"),
		)
	}

	return &f, nil
}

// Name returns the function name as written.
func (f *Function) Name() string { return f.name }

// Params returns the parameter names as written.
func (f *Function) Params() []string { return slices.Clone(f.params) }

// Body returns the body expression text.
func (f *Function) Body() string { return f.body }

// Arity returns the number of parameters.
func (f *Function) Arity() int { return len(f.params) }

// Signature returns the call form of f, such as "area(w, h)".
func (f *Function) Signature() string {
	return f.name + "(" + strings.Join(f.params, ", ") + ")"
}

// String returns the canonical definition text of f.
func (f *Function) String() string {
	return f.name + "(" + strings.Join(f.params, ",") + ")" + definitionSep + f.body
}

// bind returns the local scope of one invocation of f.
func (f *Function) bind(args []float64) (map[string]float64, error) {
	if len(args) != len(f.params) {
		return nil, ErrFunctionParameter.With(
			slog.String("name", f.name),
			slog.Int("want", len(f.params)),
			slog.Int("got", len(args)),
		)
	}

	scope := make(map[string]float64, len(args))
	for i, p := range f.params {
		scope[Fold(p)] = args[i]
	}

	return scope, nil
}
