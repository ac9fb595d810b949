package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Identity(t *testing.T) {
	t.Parallel()

	derived := ErrInvalidVariable.With(slog.String("pair", "x"))

	if !errors.Is(derived, ErrInvalidVariable) {
		t.Error("With lost sentinel identity")
	}

	if errors.Is(derived, ErrInvalidTarget) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := derived.Wrap(io.EOF)

	if !errors.Is(wrapped, ErrInvalidVariable) || !errors.Is(wrapped, io.EOF) {
		t.Error("Wrap lost sentinel or cause identity")
	}

	again := WrapError(wrapped).With(slog.Int("statement", 3))

	if !errors.Is(again, ErrInvalidVariable) || !errors.Is(again, io.EOF) {
		t.Error("WrapError lost sentinel or cause identity")
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "sentinel", err: ErrResolver, want: "external resolver failed"},
		{
			name: "attrs",
			err:  ErrInvalidVariable.With(slog.String("pair", "x"), slog.Int("n", 2)),
			want: "invalid variable (pair=x, n=2)",
		},
		{
			name: "cause",
			err:  ErrReadInput.With(slog.String("path", "a")).Wrap(io.EOF),
			want: "failed to read input (path=a): EOF",
		},
		{name: "foreign", err: WrapError(io.EOF), want: "EOF"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	v := ErrInvalidOrder.With(slog.String("order", "x")).Wrap(io.EOF).LogValue()

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{"error": "invalid evaluation order", "cause": "EOF", "order": "x"}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("LogValue()[%q] = %q, want %q", k, got[k], w)
		}
	}
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{in: "internal", want: InternalFirst},
		{in: "INTERNAL-first", want: InternalFirst},
		{in: " event ", want: EventFirst},
		{in: "event-first", want: EventFirst},
		{in: "bogus", want: DefaultOrder, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOrder(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
		}

		if err != nil && !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("ParseOrder(%q) error = %v, want ErrInvalidOrder", tt.in, err)
		}
	}

	var o Order
	if err := o.UnmarshalText([]byte("event")); err != nil || o != EventFirst {
		t.Errorf("UnmarshalText(event) = (%v, %v)", o, err)
	}

	if text, _ := o.MarshalText(); string(text) != "event" {
		t.Errorf("MarshalText() = %q, want event", text)
	}

	var names []string
	for name := range Orders() {
		names = append(names, name)
	}

	if len(names) != 2 || names[0] != "internal" || names[1] != "event" {
		t.Errorf("Orders() = %v", names)
	}
}
