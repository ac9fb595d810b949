package lang

import (
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// variadic marks a built-in without an upper argument bound.
const variadic = -1

// defaultRoundPlaces is the number of decimal places used by a one-argument
// round.
const defaultRoundPlaces = 2

// Builtin describes a function available to every session.
type Builtin struct {
	fn     func(s *Session, args []float64) float64
	Name   string
	Params []string
	Min    int
	Max    int
}

// Signature returns the call form of b, such as "round(x, places)".
func (b Builtin) Signature() string {
	return b.Name + "(" + strings.Join(b.Params, ", ") + ")"
}

// Accepts reports whether b can be called with n arguments.
func (b Builtin) Accepts(n int) bool {
	return n >= b.Min && (b.Max == variadic || n <= b.Max)
}

func (b Builtin) call(s *Session, args []float64) (float64, error) {
	if !b.Accepts(len(args)) {
		want := strconv.Itoa(b.Min)

		switch {
		case b.Max == variadic:
			want += "+"
		case b.Max != b.Min:
			want += "-" + strconv.Itoa(b.Max)
		}

		return 0, ErrFunctionParameter.With(
			slog.String("name", b.Name),
			slog.String("want", want),
			slog.Int("got", len(args)),
		)
	}

	return b.fn(s, args), nil
}

func unary(fn func(float64) float64) func(*Session, []float64) float64 {
	return func(_ *Session, args []float64) float64 { return fn(args[0]) }
}

var builtins = map[string]Builtin{
	"abs":  {Name: "abs", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Abs)},
	"frac": {Name: "frac", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(frac)},
	"max": {
		Name: "max", Params: []string{"x", "..."}, Min: 1, Max: variadic,
		fn: func(_ *Session, args []float64) float64 { return slices.Max(args) },
	},
	"min": {
		Name: "min", Params: []string{"x", "..."}, Min: 1, Max: variadic,
		fn: func(_ *Session, args []float64) float64 { return slices.Min(args) },
	},
	"sum": {
		Name: "sum", Params: []string{"..."}, Min: 0, Max: variadic,
		fn: func(_ *Session, args []float64) float64 {
			var total float64
			for _, a := range args {
				total += a
			}

			return total
		},
	},
	"mod": {
		Name: "mod", Params: []string{"x", "y"}, Min: 2, Max: 2,
		fn: func(_ *Session, args []float64) float64 {
			return math.Mod(math.Trunc(args[0]), math.Trunc(args[1]))
		},
	},
	"round": {
		Name: "round", Params: []string{"x", "places"}, Min: 1, Max: 2,
		fn: func(_ *Session, args []float64) float64 {
			places := float64(defaultRoundPlaces)
			if len(args) > 1 {
				places = math.Trunc(args[1])
			}

			p := math.Pow(10, places)
			if math.IsInf(p, 0) || math.IsInf(args[0]*p, 0) {
				return args[0]
			}

			return math.Round(args[0]*p) / p
		},
	},
	"sign":  {Name: "sign", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(sign)},
	"sqrt":  {Name: "sqrt", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Sqrt)},
	"sin":   {Name: "sin", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Sin)},
	"cos":   {Name: "cos", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Cos)},
	"tan":   {Name: "tan", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Tan)},
	"atan":  {Name: "atan", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Atan)},
	"log":   {Name: "log", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Log)},
	"exp":   {Name: "exp", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Exp)},
	"trunc": {Name: "trunc", Params: []string{"x"}, Min: 1, Max: 1, fn: unary(math.Trunc)},
	"and": {
		Name: "and", Params: []string{"..."}, Min: 0, Max: variadic,
		fn: func(_ *Session, args []float64) float64 {
			return truth(!slices.Contains(args, 0))
		},
	},
	"or": {
		Name: "or", Params: []string{"..."}, Min: 0, Max: variadic,
		fn: func(_ *Session, args []float64) float64 {
			return truth(slices.ContainsFunc(args, func(a float64) bool { return a != 0 }))
		},
	},
	"if": {
		Name: "if", Params: []string{"cond", "then", "else"}, Min: 3, Max: 3,
		fn: func(_ *Session, args []float64) float64 {
			if args[0] != 0 {
				return args[1]
			}

			return args[2]
		},
	},
	"random": {
		Name: "random", Min: 0, Max: 0,
		fn: func(s *Session, _ []float64) float64 { return s.random() },
	},
}

// LookupBuiltin returns the built-in function with the given name.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtins[Fold(name)]

	return b, ok
}

// Builtins returns an iterator over all built-in functions in name order.
func Builtins() iter.Seq2[string, Builtin] {
	return func(yield func(string, Builtin) bool) {
		for _, name := range slices.Sorted(maps.Keys(builtins)) {
			if !yield(name, builtins[name]) {
				return
			}
		}
	}
}

func frac(x float64) float64 { return x - math.Trunc(x) }

// sign returns 1 for zero and positive x, -1 otherwise.
func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}

	return -1
}

func truth(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// roundHalfUp rounds half-way values toward positive infinity.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

// factorial returns n! for the rounded value of x, -1 for negative input.
func factorial(x float64) float64 {
	n := roundHalfUp(x)

	switch {
	case n < 0:
		return -1
	case n > maxFactorial:
		return math.Inf(1)
	}

	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}

	return result
}

// maxFactorial is the largest n whose factorial is a finite float64.
const maxFactorial = 170
