package lang

import (
	"context"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Resolver supplies values for identifiers a session cannot resolve itself.
//
// Resolve receives the folded identifier name and the evaluated call
// arguments (empty for a bare identifier). It reports ok=false to let the
// next resolver try. A non-nil error aborts the evaluation.
type Resolver interface {
	Resolve(ctx context.Context, name string, args []float64) (value float64, ok bool, err error)
}

// ResolverFunc adapts an ordinary function to the [Resolver] interface.
type ResolverFunc func(ctx context.Context, name string, args []float64) (float64, bool, error)

// Resolve calls f(ctx, name, args).
func (f ResolverFunc) Resolve(
	ctx context.Context,
	name string,
	args []float64,
) (float64, bool, error) {
	return f(ctx, name, args)
}

// Constants is a [Resolver] answering fixed values by name, ignoring any call
// arguments.
type Constants map[string]float64

// Resolve implements [Resolver].
func (c Constants) Resolve(
	_ context.Context,
	name string,
	_ []float64,
) (float64, bool, error) {
	for key, value := range c {
		if Fold(key) == name {
			return value, true, nil
		}
	}

	return 0, false, nil
}

// Order is the identifier-resolution policy of a [Session].
type Order int

const (
	// InternalFirst tries variables and user functions before built-ins and
	// external resolvers.
	InternalFirst Order = iota // internal
	// EventFirst tries built-ins and external resolvers before variables and
	// user functions.
	EventFirst // event
)

// DefaultOrder is the resolution policy of a new [Session].
const DefaultOrder = InternalFirst

// Orders returns an iterator over the names of all resolution policies.
func Orders() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, o := range []Order{InternalFirst, EventFirst} {
			if !yield(o.String()) {
				return
			}
		}
	}
}

// ParseOrder parses the name of a resolution policy. The suffix "-first" is
// optional and case is ignored.
func ParseOrder(s string) (Order, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-first")

	for _, o := range []Order{InternalFirst, EventFirst} {
		if o.String() == name {
			return o, nil
		}
	}

	return DefaultOrder, ErrInvalidOrder.With(slog.String("order", strconv.Quote(s)))
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}

	*o = parsed

	return nil
}
