package lang

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/fatexpr/log"
)

// Session evaluates a chain of statements against its own variables, user
// functions and external resolvers.
//
// A Session has no internal synchronization and must be confined to one
// goroutine. Independent sessions share no state and may run in parallel.
type Session struct {
	logger     log.Logger
	random     func() float64
	vars       Variables
	statements []string
	funcs      []string
	resolvers  []Resolver
	order      Order
	maxDepth   int
	primed     float64
	old        float64
	corrected  bool
}

// Statement is one parsed statement of a chain.
type Statement struct {
	// Target is the folded name of the assigned variable, or empty.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Tree   *Tree  `json:"tree"             yaml:"tree"`
}

// New returns a session configured by opts.
func New(opts ...Option) *Session {
	var s Session

	applyDefaults(&s)
	applyOptions(&s, opts...)

	return &s
}

// SetText replaces the statement chain with the ";"-separated statements of
// text.
func (s *Session) SetText(text string) {
	s.statements = strings.Split(text, statementSep)
}

// Text returns the statement chain joined with ";".
func (s *Session) Text() string { return strings.Join(s.statements, statementSep) }

// SetStatements replaces the statement chain.
func (s *Session) SetStatements(statements ...string) {
	s.statements = slices.Clone(statements)
}

// Statements returns the statement chain.
func (s *Session) Statements() []string { return slices.Clone(s.statements) }

// AddVariables adds the ";"-separated "name=value" pairs of text.
// Nothing is added if any pair is malformed.
func (s *Session) AddVariables(text string) error {
	return s.AddVariableList(strings.Split(text, statementSep)...)
}

// AddVariableList adds "name=value" pairs. Blank pairs are ignored.
// Nothing is added if any pair is malformed.
func (s *Session) AddVariableList(pairs ...string) error {
	vars, err := parseVariables(pairs)
	if err != nil {
		return err
	}

	maps.Copy(s.vars, vars)

	return nil
}

// SetVariable assigns value to name.
func (s *Session) SetVariable(name string, value float64) { s.vars.Set(name, value) }

// Variable returns the value of name.
func (s *Session) Variable(name string) (float64, bool) { return s.vars.Get(name) }

// Variables returns a copy of the variable table.
func (s *Session) Variables() Variables { return maps.Clone(s.vars) }

// ClearVariables removes all variables.
func (s *Session) ClearVariables() { clear(s.vars) }

// AddFunctions registers the ";"-separated function definitions of text.
//
// Definitions are kept as raw text and parsed on every lookup, so a malformed
// definition is reported by the evaluation that first looks up any function.
// Use [ParseFunction] to check a definition before adding it.
func (s *Session) AddFunctions(text string) {
	s.AddFunctionList(strings.Split(text, statementSep)...)
}

// AddFunctionList registers function definitions. Blank definitions are
// ignored. Earlier definitions win over later ones with the same name and
// arity.
func (s *Session) AddFunctionList(defs ...string) {
	for _, def := range defs {
		if def = strings.TrimSpace(def); def != "" {
			s.funcs = append(s.funcs, def)
		}
	}
}

// Functions returns the registered function definitions.
func (s *Session) Functions() []string { return slices.Clone(s.funcs) }

// RemoveFunction removes every definition of the named function and reports
// how many were removed. Malformed definitions are kept.
func (s *Session) RemoveFunction(name string) int {
	name = Fold(name)
	n := len(s.funcs)

	s.funcs = slices.DeleteFunc(s.funcs, func(def string) bool {
		f, err := ParseFunction(def)

		return err == nil && Fold(f.name) == name
	})

	return n - len(s.funcs)
}

// ClearFunctions removes all function definitions.
func (s *Session) ClearFunctions() { s.funcs = nil }

// AddResolver appends external resolvers. Nil resolvers are ignored.
func (s *Session) AddResolver(resolvers ...Resolver) {
	for _, r := range resolvers {
		if r != nil {
			s.resolvers = append(s.resolvers, r)
		}
	}
}

// ClearResolvers removes all external resolvers.
func (s *Session) ClearResolvers() { s.resolvers = nil }

// SetOrder sets the identifier-resolution policy.
func (s *Session) SetOrder(order Order) { s.order = order }

// Order returns the identifier-resolution policy.
func (s *Session) Order() Order { return s.order }

// SetOldValue primes the value read by "_" in the first statement of every
// subsequent evaluation.
func (s *Session) SetOldValue(value float64) { s.primed = value }

// OldValue returns the value read by "_" in the first statement.
func (s *Session) OldValue() float64 { return s.primed }

// Value evaluates the statement chain and returns the value of its last
// statement. An empty chain yields 0.
//
// Each statement of the form "name: expr" assigns its value to the variable
// name. The value of every statement is read by "_" in the next one.
// A failing statement stops the chain; assignments made by the statements
// before it are kept.
func (s *Session) Value(ctx context.Context) (float64, error) {
	s.old = s.primed

	s.logger.DebugContext(ctx, "compile",
		slog.Int("statements", len(s.statements)),
		slog.Any("fingerprint", fingerprint{s}),
	)

	var result float64

	for i, stmt := range s.statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		target, body, err := splitStatement(stmt)
		if err != nil {
			return result, WrapError(err).With(slog.Int("statement", i+1))
		}

		root, err := s.build(ctx, body, 0)
		if err != nil {
			return result, WrapError(err).With(slog.Int("statement", i+1))
		}

		v, err := (&evaluator{session: s}).eval(ctx, root)
		if err != nil {
			return result, WrapError(err).With(slog.Int("statement", i+1))
		}

		s.logger.TraceContext(ctx, "statement",
			slog.Int("index", i+1),
			slog.String("target", target),
			slog.Float64("value", v),
		)

		s.old = v
		if target != "" {
			s.vars[target] = v
		}

		result = v
	}

	return result, nil
}

// Bool evaluates the chain and reports whether the result is nonzero.
func (s *Session) Bool(ctx context.Context) (bool, error) {
	v, err := s.Value(ctx)

	return v != 0, err
}

// Int evaluates the chain and rounds the result half up to an integer.
func (s *Session) Int(ctx context.Context) (int64, error) {
	v, err := s.Value(ctx)

	return IntValue(v), err
}

// String evaluates the chain and formats the result with four decimals.
func (s *Session) String(ctx context.Context) (string, error) {
	v, err := s.Value(ctx)

	return FormatValue(v), err
}

// IntValue rounds v the way [Session.Int] does.
func IntValue(v float64) int64 { return int64(roundHalfUp(v)) }

// FormatValue formats v the way [Session.String] does.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// Parse builds the tree of every non-blank statement without evaluating.
func (s *Session) Parse(ctx context.Context) ([]Statement, error) {
	var parsed []Statement

	for i, stmt := range s.statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		target, body, err := splitStatement(stmt)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("statement", i+1))
		}

		root, err := s.build(ctx, body, 0)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("statement", i+1))
		}

		parsed = append(parsed, Statement{
			Target: target,
			Tree:   &Tree{Root: root, Source: strings.TrimSpace(body)},
		})
	}

	return parsed, nil
}

// Fingerprint returns a digest of the statement chain, variables, function
// definitions, resolution order and logic mode. Sessions with equal
// fingerprints evaluate their chains identically unless they depend on
// external resolvers or random.
func (s *Session) Fingerprint() uint64 {
	h := xxh3.New()

	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.Write([]byte{0})
		}
	}

	write(s.statements...)
	write(statementSep)

	for name, value := range s.vars.Sorted() {
		write(name, strconv.FormatUint(math.Float64bits(value), 16))
	}

	write(statementSep)
	write(s.funcs...)
	write(statementSep)
	write(
		s.order.String(),
		strconv.FormatBool(s.corrected),
		strconv.FormatUint(math.Float64bits(s.primed), 16),
	)

	return h.Sum64()
}

// splitStatement separates the optional "target:" prefix of a statement.
func splitStatement(stmt string) (target, body string, err error) {
	head, tail, ok := strings.Cut(stmt, assignmentSep)
	if !ok {
		return "", stmt, nil
	}

	head = strings.TrimSpace(head)
	if !IsIdentifier(head) {
		return "", "", ErrInvalidTarget.With(slog.String("target", head))
	}

	return Fold(head), tail, nil
}

// build validates, tokenizes and builds text into a tree rooted at level.
func (s *Session) build(ctx context.Context, text string, level int) (*Node, error) {
	if err := Validate(text); err != nil {
		return nil, WrapError(err).With(slog.String("text", text))
	}

	tokens, err := Tokenize(text)
	if err != nil {
		return nil, WrapError(err).With(slog.String("text", text))
	}

	// Brackets are stripped before a node's level is counted, so bound their
	// nesting here.
	if depth := level + nesting(tokens); depth > s.maxDepth {
		return nil, ErrMaxDepthExceeded.With(
			slog.Int("depth", depth),
			slog.Int("max", s.maxDepth),
			slog.String("text", text),
		)
	}

	root := &Node{tokens: tokens, level: level}
	b := builder{logger: s.logger, source: text, maxDepth: s.maxDepth}

	if err := b.build(ctx, root); err != nil {
		return nil, err
	}

	return root, nil
}

// fingerprint defers computing the session fingerprint until a log record
// holding it is written.
type fingerprint struct{ s *Session }

func (f fingerprint) LogValue() slog.Value {
	return slog.StringValue(strconv.FormatUint(f.s.Fingerprint(), 16))
}

// lookupFunction returns the first registered function with the given folded
// name and arity, or nil if no function has that name. Every definition is
// parsed again, and the first malformed one fails the lookup.
func (s *Session) lookupFunction(name string, arity int) (*Function, error) {
	var arities []string

	for _, def := range s.funcs {
		f, err := ParseFunction(def)
		if err != nil {
			return nil, err
		}

		if Fold(f.name) != name {
			continue
		}

		if f.Arity() == arity {
			return f, nil
		}

		arities = append(arities, strconv.Itoa(f.Arity()))
	}

	if len(arities) > 0 {
		return nil, ErrFunctionParameter.With(
			slog.String("name", name),
			slog.String("want", strings.Join(arities, "|")),
			slog.Int("got", arity),
		)
	}

	return nil, nil
}
