package lang

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTokenize checks that tokens cover every non-space byte of the input in
// order.
func FuzzTokenize(f *testing.F) {
	f.Add("{2*3+[(10+2)/(5+1)]+2}")
	f.Add("a:2;_+a+b+c;_+a")
	f.Add("x<=y>=z<>w")
	f.Add("f(1 , _)")
	f.Add("1.2.3 ab12cd")
	f.Add("$")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Tokenize(input)
		if err != nil {
			if !errors.Is(err, ErrIllegalCharacter) {
				t.Errorf("Tokenize(%q) error = %v, want ErrIllegalCharacter", input, err)
			}

			return
		}

		var b strings.Builder
		for _, tok := range tokens {
			if tok.Text == "" || tok.Kind == KindNone {
				t.Fatalf("Tokenize(%q) produced invalid token %v", input, tok)
			}

			b.WriteString(tok.Text)
		}

		stripped := strings.Map(func(r rune) rune {
			if r < utf8.RuneSelf && isSpace(byte(r)) {
				return -1
			}

			return r
		}, input)

		if b.String() != stripped {
			t.Errorf("tokens of %q join to %q, want %q", input, b.String(), stripped)
		}
	})
}

// FuzzSession checks that building and evaluating arbitrary chains never
// panics and only fails with package errors.
func FuzzSession(f *testing.F) {
	f.Add("4*(2+(10/5)+(5^2))")
	f.Add("a:2;_+a;~(3<2)|1")
	f.Add("f(f(1),2)!")
	f.Add("((((1))))")
	f.Add("x(,)")
	f.Add("-~!")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		s := New(WithMaxDepth(64), WithRandom(func() float64 { return 0.5 }))
		s.AddFunctions("f(a,b)=a*b; g(a)=f(a,a)")
		s.SetVariable("x", 1)
		s.SetText(input)

		_, err := s.Value(t.Context())

		var e *Error
		if err != nil && !errors.As(err, &e) {
			t.Errorf("Value(%q) error %v (%T) is not an *Error", input, err, err)
		}
	})
}
