package lang

import (
	"math/rand/v2"

	"github.com/ardnew/fatexpr/log"
)

// DefaultMaxDepth is the default limit on expression nesting depth, counted
// across nested function invocations.
const DefaultMaxDepth = 512

// Option configures a [Session].
type Option func(*Session)

// WithOrder sets the identifier-resolution policy.
func WithOrder(order Order) Option {
	return func(s *Session) {
		s.order = order
	}
}

// WithMaxDepth sets the maximum nesting depth of expression trees.
// A depth less than 1 selects [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(s *Session) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		s.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithCorrectedLogic makes "|" a logical OR and "<=" a less-or-equal
// comparison. Without it both operators keep their historical behavior:
// "|" is true only if both operands are 1, and "<=" compares like ">=".
func WithCorrectedLogic(corrected bool) Option {
	return func(s *Session) {
		s.corrected = corrected
	}
}

// WithRandom sets the source of the random built-in. The function must
// return values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(s *Session) {
		if fn == nil {
			fn = rand.Float64
		}

		s.random = fn
	}
}

// WithResolvers appends external resolvers, tried in the given order.
func WithResolvers(resolvers ...Resolver) Option {
	return func(s *Session) {
		s.AddResolver(resolvers...)
	}
}

// applyDefaults sets default option values on a session.
func applyDefaults(s *Session) {
	s.order = DefaultOrder
	s.maxDepth = DefaultMaxDepth
	s.random = rand.Float64
	s.vars = make(Variables)
}

// applyOptions applies functional options to a session.
func applyOptions(s *Session, opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}
