package typeref

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
		parts int
	}{
		{input: "int", want: "int", parts: 1},
		{input: "System.Int32", want: "System.Int32", parts: 2},
		{input: "A<int>.B", want: "A<int>.B", parts: 2},
		{input: "Base<T>", want: "Base<T>", parts: 1},
		{input: " Dictionary < string,List<int> > ", want: "Dictionary<string, List<int>>", parts: 1},
		{input: "Outer<System.String>.Inner<T1, T2>", want: "Outer<System.String>.Inner<T1, T2>", parts: 2},
		{input: "_private9", want: "_private9", parts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := name.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if len(name.Components) != tt.parts {
				t.Errorf("got %d components, want %d", len(name.Components), tt.parts)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	name := MustParse("A<int>.B")
	if name.IsSimple() {
		t.Errorf("A<int>.B reported as simple")
	}
	first := name.Components[0]
	if first.Name != "A" || first.Arity() != 1 {
		t.Fatalf("first component = %s/%d, want A/1", first.Name, first.Arity())
	}
	if !first.Args[0].IsSimple() || first.Args[0].Last().Name != "int" {
		t.Errorf("type argument = %s, want int", first.Args[0])
	}
	if name.Last().Name != "B" || name.Last().Arity() != 0 {
		t.Errorf("last component = %s", name.Last())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{input: "", want: ErrEmptyInput},
		{input: "   ", want: ErrEmptyInput},
		{input: "A<", want: ErrUnexpectedEnd},
		{input: "A<int", want: ErrUnexpectedEnd},
		{input: "A<>", want: ErrEmptyArguments},
		{input: "A.", want: ErrUnexpectedEnd},
		{input: "1A", want: ErrUnexpectedChar},
		{input: "A B", want: ErrUnexpectedChar},
		{input: "A<int;>", want: ErrUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}
