package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/ardnew/fatexpr/log"
)

// chainSession returns a session with variable c=30, an external resolver
// answering 23 for b, and the chain "a:2;_+a+b+c;_+a".
func chainSession(t *testing.T) *Session {
	t.Helper()

	s := New(WithResolvers(ResolverFunc(
		func(_ context.Context, name string, _ []float64) (float64, bool, error) {
			return 23, name == "b", nil
		},
	)))

	if err := s.AddVariables("c=30"); err != nil {
		t.Fatalf("AddVariables error: %v", err)
	}

	s.SetText("a:2;_+a+b+c;_+a")

	return s
}

func TestSession_OldValueChaining(t *testing.T) {
	t.Parallel()

	s := chainSession(t)

	got, err := s.Value(t.Context())
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}

	if got != 59 {
		t.Errorf("Value = %v, want 59", got)
	}

	if a, ok := s.Variable("A"); !ok || a != 2 {
		t.Errorf("Variable(A) = (%v, %v), want (2, true)", a, ok)
	}
}

func TestSession_Deterministic(t *testing.T) {
	t.Parallel()

	s := chainSession(t)

	for i := range 3 {
		got, err := s.Value(t.Context())
		if err != nil {
			t.Fatalf("pass %d: Value error: %v", i, err)
		}

		if got != 59 {
			t.Errorf("pass %d: Value = %v, want 59", i, got)
		}
	}
}

func TestSession_PrimedOldValue(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetOldValue(10)
	s.SetText("_+1")

	for range 2 {
		if got, err := s.Value(t.Context()); err != nil || got != 11 {
			t.Errorf("Value = (%v, %v), want (11, nil)", got, err)
		}
	}

	if s.OldValue() != 10 {
		t.Errorf("OldValue() = %v, want 10", s.OldValue())
	}
}

func TestSession_NoRollback(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetText("a:1; b:foo; c:3")

	_, err := s.Value(t.Context())
	if !errors.Is(err, ErrUndeclaredIdentifier) {
		t.Fatalf("Value error = %v, want ErrUndeclaredIdentifier", err)
	}

	if !strings.Contains(err.Error(), "statement=2") {
		t.Errorf("error %q does not name statement 2", err)
	}

	if a, ok := s.Variable("a"); !ok || a != 1 {
		t.Errorf("Variable(a) = (%v, %v), want (1, true)", a, ok)
	}

	if _, ok := s.Variable("c"); ok {
		t.Error("Variable(c) set by a statement after the failure")
	}
}

func TestSession_BlankStatements(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetText(" 1 ;; 2 ; ")

	if got, err := s.Value(t.Context()); err != nil || got != 2 {
		t.Errorf("Value = (%v, %v), want (2, nil)", got, err)
	}

	if got, want := s.Statements(), []string{" 1 ", "", " 2 ", " "}; !slices.Equal(got, want) {
		t.Errorf("Statements() = %q, want %q", got, want)
	}

	if got := s.Text(); got != " 1 ;; 2 ; " {
		t.Errorf("Text() = %q", got)
	}
}

func TestSession_Views(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text       string
		wantBool   bool
		wantInt    int64
		wantString string
	}{
		{text: "0", wantBool: false, wantInt: 0, wantString: "0.0000"},
		{text: "2.5", wantBool: true, wantInt: 3, wantString: "2.5000"},
		{text: "-2.5", wantBool: true, wantInt: -2, wantString: "-2.5000"},
		{text: "10/3", wantBool: true, wantInt: 3, wantString: "3.3333"},
		{text: "3<2", wantBool: false, wantInt: 0, wantString: "0.0000"},
	}

	for _, tt := range tests {
		s := New()
		s.SetText(tt.text)

		if got, err := s.Bool(t.Context()); err != nil || got != tt.wantBool {
			t.Errorf("Bool(%q) = (%v, %v), want %v", tt.text, got, err, tt.wantBool)
		}

		if got, err := s.Int(t.Context()); err != nil || got != tt.wantInt {
			t.Errorf("Int(%q) = (%v, %v), want %v", tt.text, got, err, tt.wantInt)
		}

		if got, err := s.String(t.Context()); err != nil || got != tt.wantString {
			t.Errorf("String(%q) = (%q, %v), want %q", tt.text, got, err, tt.wantString)
		}
	}
}

func TestSession_Variables(t *testing.T) {
	t.Parallel()

	s := New()

	if err := s.AddVariables("x=1; Y = 2.5;"); err != nil {
		t.Fatalf("AddVariables error: %v", err)
	}

	if err := s.AddVariableList("z=3", "bad"); !errors.Is(err, ErrInvalidVariable) {
		t.Errorf("AddVariableList error = %v, want ErrInvalidVariable", err)
	}

	if _, ok := s.Variable("z"); ok {
		t.Error("AddVariableList added a variable despite an error")
	}

	if err := s.AddVariableList("n=abc"); !errors.Is(err, ErrInvalidVariable) {
		t.Errorf("AddVariableList(n=abc) error = %v, want ErrInvalidVariable", err)
	}

	s.SetVariable("W", -1)

	var names []string
	for name := range s.Variables().Sorted() {
		names = append(names, name)
	}

	if want := []string{"w", "x", "y"}; !slices.Equal(names, want) {
		t.Errorf("variable names = %v, want %v", names, want)
	}

	vars := s.Variables()
	vars.Set("x", 100)

	if x, _ := s.Variable("x"); x != 1 {
		t.Error("Variables() does not return a copy")
	}

	s.ClearVariables()

	if len(s.Variables()) != 0 {
		t.Error("ClearVariables left variables behind")
	}
}

func TestSession_Functions(t *testing.T) {
	t.Parallel()

	s := New()
	s.AddFunctions("f(a)=a; g(a,b)=a+b;; f(a,b)=a*b")

	if got := s.Functions(); len(got) != 3 {
		t.Fatalf("Functions() = %q, want 3 definitions", got)
	}

	if n := s.RemoveFunction("F"); n != 2 {
		t.Errorf("RemoveFunction(F) = %d, want 2", n)
	}

	if got, want := s.Functions(), []string{"g(a,b)=a+b"}; !slices.Equal(got, want) {
		t.Errorf("Functions() = %q, want %q", got, want)
	}

	s.ClearFunctions()

	if len(s.Functions()) != 0 {
		t.Error("ClearFunctions left definitions behind")
	}
}

func TestSession_ClearResolvers(t *testing.T) {
	t.Parallel()

	s := New(WithResolvers(Constants{"k": 4}))
	s.AddResolver(nil)
	s.SetText("k")

	if got, err := s.Value(t.Context()); err != nil || got != 4 {
		t.Fatalf("Value = (%v, %v), want (4, nil)", got, err)
	}

	s.ClearResolvers()

	if _, err := s.Value(t.Context()); !errors.Is(err, ErrUndeclaredIdentifier) {
		t.Errorf("Value error = %v, want ErrUndeclaredIdentifier", err)
	}
}

func TestSession_Fingerprint(t *testing.T) {
	t.Parallel()

	a, b := chainSession(t), chainSession(t)

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal sessions have different fingerprints")
	}

	base := a.Fingerprint()

	b.SetVariable("c", 31)
	if b.Fingerprint() == base {
		t.Error("fingerprint ignores variables")
	}

	a.SetOrder(EventFirst)
	if a.Fingerprint() == base {
		t.Error("fingerprint ignores order")
	}

	c := chainSession(t)
	c.AddFunctions("f(a)=a")

	if c.Fingerprint() == base {
		t.Error("fingerprint ignores functions")
	}

	d := chainSession(t)
	d.SetStatements("a:2", "_+a+b+c", "_+a")

	if d.Fingerprint() != base {
		t.Error("fingerprint differs for the same statements")
	}
}

func TestSession_FingerprintLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := chainSession(t)
	s.logger = log.Make(&buf,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	if _, err := s.Value(t.Context()); err != nil {
		t.Fatalf("Value error: %v", err)
	}

	want := `"fingerprint":"` + strconv.FormatUint(s.Fingerprint(), 16) + `"`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("debug log %q does not contain %s", buf.String(), want)
	}

	buf.Reset()
	s.logger = log.Make(&buf, log.WithLevel(log.LevelInfo))

	if _, err := s.Value(t.Context()); err != nil {
		t.Fatalf("Value error: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("info logger wrote %q", buf.String())
	}
}

func TestSession_Parse(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetText("Total: 1-2+3; ; _*2")

	stmts, err := s.Parse(t.Context())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(stmts) != 2 {
		t.Fatalf("Parse returned %d statements, want 2", len(stmts))
	}

	if stmts[0].Target != "total" || stmts[0].Tree.String() != "(1-2)+3" {
		t.Errorf("statement 1 = (%q, %q)", stmts[0].Target, stmts[0].Tree)
	}

	if stmts[1].Target != "" || stmts[1].Tree.String() != "_*2" {
		t.Errorf("statement 2 = (%q, %q)", stmts[1].Target, stmts[1].Tree)
	}

	s.SetText("1; (2")

	if _, err := s.Parse(t.Context()); !errors.Is(err, ErrParenthesisMismatch) {
		t.Errorf("Parse error = %v, want ErrParenthesisMismatch", err)
	}
}

func TestSession_Independent(t *testing.T) {
	t.Parallel()

	for i := range 8 {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			t.Parallel()

			s := New()
			s.SetVariable("n", float64(i))
			s.AddFunctions("sq(x)=x*x")
			s.SetText("m: sq(n); _ + 1")

			got, err := s.Value(t.Context())
			if err != nil {
				t.Fatalf("Value error: %v", err)
			}

			if want := float64(i*i + 1); got != want {
				t.Errorf("Value = %v, want %v", got, want)
			}
		})
	}
}
