package lang

import (
	"errors"
	"iter"
	"math"
	"slices"
	"testing"
)

func TestBuiltins_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want float64
	}{
		{text: "abs(-4)", want: 4},
		{text: "frac(2.5)", want: 0.5},
		{text: "frac(-2.5)", want: -0.5},
		{text: "max(1,5,3)", want: 5},
		{text: "max(-1)", want: -1},
		{text: "min(4,2,8)", want: 2},
		{text: "sum(1,2,3)", want: 6},
		{text: "sum()", want: 0},
		{text: "mod(7,3)", want: 1},
		{text: "mod(-7.9,3)", want: -1},
		{text: "round(3.14159)", want: 3.14},
		{text: "round(3.14159,3)", want: 3.142},
		{text: "round(2.5,0)", want: 3},
		{text: "round(1,400)", want: 1},
		{text: "round(1e300,10)", want: 1e300},
		{text: "sign(-4)", want: -1},
		{text: "sign(0)", want: 1},
		{text: "sign(-0)", want: 1},
		{text: "sign(9)", want: 1},
		{text: "sqrt(16)", want: 4},
		{text: "sin(0)", want: 0},
		{text: "cos(0)", want: 1},
		{text: "tan(0)", want: 0},
		{text: "atan(0)", want: 0},
		{text: "log(1)", want: 0},
		{text: "exp(0)", want: 1},
		{text: "trunc(-2.7)", want: -2},
		{text: "and(1,1,2)", want: 1},
		{text: "and(1,0)", want: 0},
		{text: "and()", want: 1},
		{text: "or(0,0,3)", want: 1},
		{text: "or(0,0)", want: 0},
		{text: "or()", want: 0},
		{text: "if(0,1,2)", want: 2},
		{text: "IF(1,1,2)", want: 1},
	}

	for _, tt := range tests {
		got, err := evaluate(t, tt.text)
		if err != nil {
			t.Errorf("evaluate(%q) error: %v", tt.text, err)

			continue
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBuiltins_Arity(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"abs()", "max()", "min()", "mod(1)", "round(1,2,3)", "if(1,2)", "random(1)",
	} {
		if _, err := evaluate(t, text); !errors.Is(err, ErrFunctionParameter) {
			t.Errorf("evaluate(%q) error = %v, want ErrFunctionParameter", text, err)
		}
	}
}

func TestBuiltins_Lookup(t *testing.T) {
	t.Parallel()

	b, ok := LookupBuiltin("ROUND")
	if !ok {
		t.Fatal("LookupBuiltin(ROUND) not found")
	}

	if got, want := b.Signature(), "round(x, places)"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	if !b.Accepts(1) || !b.Accepts(2) || b.Accepts(0) || b.Accepts(3) {
		t.Error("round accepts the wrong argument counts")
	}

	if m, _ := LookupBuiltin("max"); !m.Accepts(100) {
		t.Error("max does not accept 100 arguments")
	}

	if _, ok := LookupBuiltin("nope"); ok {
		t.Error("LookupBuiltin(nope) found")
	}

	names := slices.Collect(keys(Builtins()))
	if !slices.IsSorted(names) || len(names) != len(builtins) {
		t.Errorf("Builtins() names = %v, want all %d sorted", names, len(builtins))
	}
}

func TestFactorial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{in: -3, want: -1},
		{in: -0.4, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 5, want: 120},
		{in: 4.5, want: 120},
		{in: 171, want: math.Inf(1)},
	}

	for _, tt := range tests {
		if got := factorial(tt.in); got != tt.want {
			t.Errorf("factorial(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := factorial(maxFactorial); math.IsInf(got, 0) {
		t.Errorf("factorial(%d) overflowed", maxFactorial)
	}
}

func keys[K, V any](seq iter.Seq2[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range seq {
			if !yield(k) {
				return
			}
		}
	}
}
