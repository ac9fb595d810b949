package lang

import "testing"

func BenchmarkSession_Value(b *testing.B) {
	tests := []struct {
		name  string
		funcs string
		text  string
	}{
		{name: "arithmetic", text: "{2*3+[(10+2)/(5+1)]+2}"},
		{name: "chain", text: "a:2;_+a+c;_+a"},
		{name: "builtins", text: "max(1,2,3)+round(sqrt(2),3)+if(1<2,4,5)"},
		{name: "functions", funcs: "x(a,b)=a*b; x2(a)=a", text: "x(x(c,x2(4)),x2(3))"},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			s := New()
			s.AddFunctions(tt.funcs)
			s.SetVariable("c", 30)
			s.SetText(tt.text)

			for b.Loop() {
				if _, err := s.Value(b.Context()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTokenize(b *testing.B) {
	const text = "4*(2+(10/5)+(5^2)) & x<=y | max(a1, b2, c3)!"

	for b.Loop() {
		if _, err := Tokenize(text); err != nil {
			b.Fatal(err)
		}
	}
}
