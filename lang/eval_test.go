package lang

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

// evaluate returns the value of a one-off chain in a fresh session.
func evaluate(t *testing.T, text string, opts ...Option) (float64, error) {
	t.Helper()

	s := New(opts...)
	s.SetText(text)

	return s.Value(t.Context())
}

func TestEval_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "empty_chain", text: "", want: 0},
		{name: "empty_group", text: "()", want: 0},
		{name: "number", text: "2.5", want: 2.5},
		{name: "mixed_brackets", text: "{2*3+[(10+2)/(5+1)]+2}", want: 10},
		{name: "nested_groups", text: "4*(2+(10/5)+(5^2))", want: 116},
		{name: "left_associative", text: "1-2+3", want: 2},
		{name: "division_splits_first", text: "8/2*2", want: 2},
		{name: "power", text: "2^3^2", want: 64},
		{name: "unary_minus", text: "-3+5", want: 2},
		{name: "unary_minus_call_argument", text: "abs(-2)", want: 2},
		{name: "modulo", text: "7%3", want: 1},
		{name: "modulo_rounds_operands", text: "7.6%3", want: 2},
		{name: "negated_modulo", text: "-7%3", want: -1},
		{name: "factorial", text: "3!", want: 6},
		{name: "factorial_zero", text: "0!", want: 1},
		{name: "factorial_negative", text: "(-1)!", want: -1},
		{name: "factorial_rounds", text: "2.5!", want: 6},
		{name: "negation_of_false", text: "~(3<2)", want: 1},
		{name: "negation_of_one", text: "~1", want: 0},
		{name: "negation_of_zero", text: "~0", want: 1},
		{name: "negation_rounds", text: "~0.6", want: 0},
		{name: "and_true", text: "1&1", want: 1},
		{name: "and_false", text: "1&0", want: 0},
		{name: "or_requires_both", text: "1|0", want: 0},
		{name: "or_both", text: "1|1", want: 1},
		{name: "xor_one", text: "1?0", want: 1},
		{name: "xor_both", text: "1?1", want: 0},
		{name: "less_equal_compares_greater", text: "2<=3", want: 0},
		{name: "less_equal_reversed", text: "3<=2", want: 1},
		{name: "greater_equal", text: "3>=3", want: 1},
		{name: "not_equal", text: "1<>2", want: 1},
		{name: "equal", text: "2=2", want: 1},
		{name: "less", text: "1<2", want: 1},
		{name: "greater", text: "2>1", want: 1},
		{name: "literals", text: "TRUE&true", want: 1},
		{name: "literal_false", text: "False", want: 0},
		{name: "if", text: "if(1,2,3)+if(0,2,3)", want: 5},
		{name: "log", text: "log(1)", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := evaluate(t, tt.text)
			if err != nil {
				t.Fatalf("evaluate(%q) error: %v", tt.text, err)
			}

			if got != tt.want {
				t.Errorf("evaluate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEval_CorrectedLogic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want float64
	}{
		{text: "1|0", want: 1},
		{text: "0|0", want: 0},
		{text: "2<=3", want: 1},
		{text: "3<=2", want: 0},
		{text: "3>=2", want: 1},
	}

	for _, tt := range tests {
		got, err := evaluate(t, tt.text, WithCorrectedLogic(true))
		if err != nil {
			t.Fatalf("evaluate(%q) error: %v", tt.text, err)
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	t.Parallel()

	got, err := evaluate(t, "1/0")
	if err != nil || !math.IsInf(got, 1) {
		t.Errorf("evaluate(1/0) = (%v, %v), want (+Inf, nil)", got, err)
	}

	got, err = evaluate(t, "5%0")
	if err != nil || !math.IsNaN(got) {
		t.Errorf("evaluate(5%%0) = (%v, %v), want (NaN, nil)", got, err)
	}
}

func TestEval_OutOfRangeLiteral(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("9", 400)

	tests := []struct {
		text string
		sign int
	}{
		{text: huge, sign: 1},
		{text: "-" + huge, sign: -1},
	}

	for _, tt := range tests {
		got, err := evaluate(t, tt.text)
		if err != nil || !math.IsInf(got, tt.sign) {
			t.Errorf("evaluate(%d digits) = (%v, %v), want (%v, nil)",
				len(tt.text), got, err, math.Inf(tt.sign))
		}
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unclosed", text: "(1+2", want: ErrParenthesisMismatch},
		{name: "undeclared", text: "foo+1", want: ErrUndeclaredIdentifier},
		{name: "builtin_arity", text: "abs(1,2)", want: ErrFunctionParameter},
		{name: "missing_right_operand", text: "1+", want: ErrCalculateSyntax},
		{name: "factorial_prefix", text: "!3", want: ErrCalculateSyntax},
		{name: "negation_postfix", text: "3~", want: ErrCalculateSyntax},
		{name: "relation_without_left", text: "<3", want: ErrCalculateSyntax},
		{name: "adjacent_operands", text: "2 3", want: ErrCompileSyntax},
		{name: "lone_delimiter", text: ",", want: ErrCompileSyntax},
		{name: "illegal_character", text: "a$", want: ErrIllegalCharacter},
		{name: "repeated_decimal_point", text: "1.2.3", want: ErrInvalidNumber},
		{name: "lone_decimal_point", text: ".", want: ErrInvalidNumber},
		{name: "invalid_target", text: "1a: 3", want: ErrInvalidTarget},
		{name: "empty_target", text: ": 3", want: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := evaluate(t, tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("evaluate(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestEval_Order(t *testing.T) {
	t.Parallel()

	pi := ResolverFunc(func(_ context.Context, name string, _ []float64) (float64, bool, error) {
		return 99, name == "pi", nil
	})

	tests := []struct {
		name  string
		text  string
		order Order
		want  float64
	}{
		{name: "internal_variable_over_builtin", text: "abs(-3)", order: InternalFirst, want: 5},
		{name: "event_builtin_over_variable", text: "abs(-3)", order: EventFirst, want: 3},
		{name: "internal_variable_over_resolver", text: "pi", order: InternalFirst, want: 3},
		{name: "event_resolver_over_variable", text: "pi", order: EventFirst, want: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(WithOrder(tt.order), WithResolvers(pi))
			s.SetVariable("abs", 5)
			s.SetVariable("PI", 3)
			s.SetText(tt.text)

			got, err := s.Value(t.Context())
			if err != nil {
				t.Fatalf("Value error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Value(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEval_ResolverOrderAndArguments(t *testing.T) {
	t.Parallel()

	var calls []string

	first := ResolverFunc(func(_ context.Context, name string, args []float64) (float64, bool, error) {
		calls = append(calls, "first")

		if name == "twice" && len(args) == 1 {
			return 2 * args[0], true, nil
		}

		return 0, false, nil
	})
	second := ResolverFunc(func(_ context.Context, name string, _ []float64) (float64, bool, error) {
		calls = append(calls, "second")

		return 7, name == "seven", nil
	})

	s := New(WithResolvers(first, second))
	s.SetText("twice(seven)")

	got, err := s.Value(t.Context())
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}

	if got != 14 {
		t.Errorf("Value = %v, want 14", got)
	}

	want := []string{"first", "second", "first"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}

	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls = %v, want %v", calls, want)

			break
		}
	}
}

func TestEval_ResolverError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := ResolverFunc(func(context.Context, string, []float64) (float64, bool, error) {
		return 0, false, boom
	})

	_, err := evaluate(t, "x", WithResolvers(failing))
	if !errors.Is(err, ErrResolver) || !errors.Is(err, boom) {
		t.Errorf("error = %v, want ErrResolver wrapping boom", err)
	}
}

func TestEval_Random(t *testing.T) {
	t.Parallel()

	fixed := WithRandom(func() float64 { return 0.25 })

	for _, text := range []string{"random()", "random", "RANDOM()"} {
		got, err := evaluate(t, text, fixed)
		if err != nil || got != 0.25 {
			t.Errorf("evaluate(%q) = (%v, %v), want (0.25, nil)", text, got, err)
		}
	}

	got, err := evaluate(t, "random()")
	if err != nil || got < 0 || got >= 1 {
		t.Errorf("default random() = (%v, %v), want value in [0, 1)", got, err)
	}
}

func TestEval_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	s := New()
	s.AddFunctions("f(a)=a")
	s.SetText("f(1)")

	if _, err := s.Value(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Value error = %v, want context.Canceled", err)
	}
}
