package typesys

import (
	"errors"
	"strings"
	"testing"
)

const genericModel = `
types:
  - name: A
    type_params: [T]
    nested:
      - name: B
        members:
          - {name: Field, kind: field, access: public, type: T}
          - {name: Make, kind: method, access: public, type: B}
  - name: Foo
    base: A<int>.B
  - name: Bar
    base: A<int>
    members:
      - {name: Use, kind: method, access: public, params: [B v]}
  - name: Base
    type_params: [T]
    members:
      - {name: Method, kind: method, access: public, virtual: true, params: [T a]}
      - {name: Generic, kind: method, access: public, virtual: true, type_params: [U], params: [U a]}
  - name: Derived
    base: Base<int>
    members:
      - {name: Method, kind: method, access: public, override: true, params: [int a]}
      - {name: Method, kind: method, access: public, override: true, params: [string a]}
      - {name: Generic, kind: method, access: public, override: true, type_params: [S], params: [S a]}
  - name: IShape
    kind: interface
  - name: Point
    kind: struct
    base: IShape
`

func TestReflectionNames(t *testing.T) {
	m := MustParse(genericModel)

	tests := []struct {
		ref  string
		want string
	}{
		{"int", "System.Int32"},
		{"System.String", "System.String"},
		{"A<int>", "A`1[[System.Int32]]"},
		{"A<int>.B", "A`1+B[[System.Int32]]"},
		{"A<A<string>>", "A`1[[A`1[[System.String]]]]"},
		{"Base<Foo>", "Base`1[[Foo]]"},
	}

	for _, tt := range tests {
		got, err := m.ResolveType(tt.ref)
		if err != nil {
			t.Errorf("ResolveType(%q) error = %v", tt.ref, err)
			continue
		}
		if got.ReflectionName() != tt.want {
			t.Errorf("ResolveType(%q) = %s, want %s", tt.ref, got.ReflectionName(), tt.want)
		}
	}

	def, err := m.ByReflectionName("A`1+B")
	if err != nil {
		t.Fatalf("ByReflectionName() error = %v", err)
	}
	if def.FullName() != "A.B" {
		t.Errorf("FullName() = %q, want A.B", def.FullName())
	}
	if got := def.SelfType().ReflectionName(); got != "A`1+B[[`0]]" {
		t.Errorf("SelfType() = %s", got)
	}
}

func TestResolveTypeErrors(t *testing.T) {
	m := MustParse(genericModel)

	tests := []struct {
		ref  string
		want error
	}{
		{"Missing", ErrTypeNotFound},
		{"A<int, int>", ErrTypeNotFound},
		{"A<int>.C", ErrTypeNotFound},
		{"Nope.Missing", ErrTypeNotFound},
	}
	for _, tt := range tests {
		if _, err := m.ResolveType(tt.ref); !errors.Is(err, tt.want) {
			t.Errorf("ResolveType(%q) error = %v, want %v", tt.ref, err, tt.want)
		}
	}
}

func TestOuterTypeArgumentsCaptured(t *testing.T) {
	m := MustParse(genericModel)

	foo, _ := m.ByReflectionName("Foo")
	base := BaseClass(foo)
	if base == nil {
		t.Fatalf("Foo has no base class")
	}
	if got := base.ReflectionName(); got != "A`1+B[[System.Int32]]" {
		t.Fatalf("BaseClass(Foo) = %s", got)
	}

	field := base.Definition().MembersNamed("Field")[0]
	if got := Specialize(field, base).ReturnType().ReflectionName(); got != "System.Int32" {
		t.Errorf("Field type via Foo = %s, want System.Int32", got)
	}

	// B referenced inside B resolves to the self type, keeping T open.
	makeMethod := base.Definition().MembersNamed("Make")[0]
	if got := makeMethod.ReturnType().ReflectionName(); got != "A`1+B[[`0]]" {
		t.Errorf("Make return type = %s", got)
	}
	if got := Specialize(makeMethod, base).ReturnType().ReflectionName(); got != "A`1+B[[System.Int32]]" {
		t.Errorf("specialized Make return type = %s", got)
	}

	// B is in scope in Bar through its base class A<int>.
	bar, _ := m.ByReflectionName("Bar")
	use := bar.MembersNamed("Use")[0]
	if got := use.Parameters()[0].Type.ReflectionName(); got != "A`1+B[[System.Int32]]" {
		t.Errorf("Use parameter type = %s", got)
	}
}

func TestFindNestedType(t *testing.T) {
	m := MustParse(genericModel)

	bar, _ := m.ByReflectionName("Bar")
	nested, ok := m.FindNestedType(bar, "B", nil)
	if !ok {
		t.Fatalf("FindNestedType(Bar, B) not found")
	}
	if got := nested.ReflectionName(); got != "A`1+B[[System.Int32]]" {
		t.Errorf("FindNestedType(Bar, B) = %s", got)
	}

	if _, ok := m.FindNestedType(bar, "B", []Type{m.Object()}); ok {
		t.Errorf("FindNestedType with wrong arity should fail")
	}
}

func TestOverrideLinking(t *testing.T) {
	m := MustParse(genericModel)

	derived, _ := m.ByReflectionName("Derived")
	base, _ := m.ByReflectionName("Base`1")

	methods := derived.MembersNamed("Method")
	if len(methods) != 2 {
		t.Fatalf("got %d Derived.Method overloads, want 2", len(methods))
	}
	if got := methods[0].Overridden(); got == nil || got.DeclaringType() != base {
		t.Errorf("Method(int) overrides %v, want Base.Method", got)
	}
	if got := methods[1].Overridden(); got != nil {
		t.Errorf("Method(string) overrides %v, want nothing", got)
	}

	generic := derived.MembersNamed("Generic")[0]
	if got := generic.BaseDefinition(); got.DeclaringType() != base {
		t.Errorf("Generic base definition = %v", got)
	}
}

func TestImplicitBases(t *testing.T) {
	m := MustParse(genericModel)

	point, _ := m.ByReflectionName("Point")
	bases := point.BaseTypes()
	if len(bases) != 2 {
		t.Fatalf("Point bases = %v", bases)
	}
	if bases[0].ReflectionName() != "System.ValueType" || bases[1].ReflectionName() != "IShape" {
		t.Errorf("Point bases = %s, %s", bases[0], bases[1])
	}

	var chain []string
	for level := range BaseChain(point) {
		chain = append(chain, level.ReflectionName())
	}
	if got := strings.Join(chain, " "); got != "Point System.ValueType System.Object" {
		t.Errorf("BaseChain(Point) = %s", got)
	}

	var all []string
	for st := range Supertypes(point) {
		all = append(all, st.ReflectionName())
	}
	if got := strings.Join(all, " "); got != "Point System.ValueType IShape System.Object" {
		t.Errorf("Supertypes(Point) = %s", got)
	}

	shape, _ := m.ByReflectionName("IShape")
	if BaseClass(shape) != nil {
		t.Errorf("interface has a base class")
	}
	if !point.IsDerivedFrom(shape) || !point.IsDerivedFrom(m.Object()) {
		t.Errorf("IsDerivedFrom failed for Point")
	}
}

func TestTypeParameterBase(t *testing.T) {
	m := MustParse(genericModel)

	base, _ := m.ByReflectionName("Base`1")
	tp := base.TypeParameters()[0]
	if got := BaseClass(tp); got != Type(m.Object()) {
		t.Errorf("BaseClass(T) = %v, want System.Object", got)
	}
}

func TestIdentical(t *testing.T) {
	m := MustParse(genericModel)

	a1, _ := m.ResolveType("A<int>")
	a2, _ := m.ResolveType("A<System.Int32>")
	a3, _ := m.ResolveType("A<string>")
	open, _ := m.ByReflectionName("A`1")

	if !Identical(a1, a2) {
		t.Errorf("A<int> and A<System.Int32> differ")
	}
	if Identical(a1, a3) {
		t.Errorf("A<int> and A<string> are identical")
	}
	if !Identical(open, open.SelfType()) {
		t.Errorf("open definition differs from its self type")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  error
	}{
		{
			name: "cycle",
			model: `
types:
  - {name: A, base: B}
  - {name: B, base: A}
`,
			want: ErrCyclicInheritance,
		},
		{
			name: "self",
			model: `
types:
  - {name: A, base: A}
`,
			want: ErrCyclicInheritance,
		},
		{
			name: "struct base class",
			model: `
types:
  - {name: A}
  - {name: S, kind: struct, base: A}
`,
			want: ErrInvalidBase,
		},
		{
			name: "two base classes",
			model: `
types:
  - {name: A}
  - {name: B}
  - {name: C, base: [A, B]}
`,
			want: ErrInvalidBase,
		},
		{
			name: "type parameter base",
			model: `
types:
  - {name: G, type_params: [T], base: T}
`,
			want: ErrInvalidBase,
		},
		{
			name: "unknown member type",
			model: `
types:
  - name: A
    members:
      - {name: F, kind: field, type: Missing}
`,
			want: ErrTypeNotFound,
		},
		{
			name: "builtin redeclared",
			model: `
namespace: System
types:
  - {name: Object}
`,
			want: ErrDuplicateType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.model))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Errorf("error %T is not a *LoadError", err)
			}
		})
	}
}

func TestAssemblies(t *testing.T) {
	m := MustParse(`
assembly: Lib
types:
  - {name: A}
---
assembly: App
types:
  - {name: B, base: A}
`)
	asms := m.Assemblies()
	if len(asms) != 3 || !asms[0].IsBuiltin() || asms[0].Name() != BuiltinAssembly {
		t.Fatalf("unexpected assemblies: %v", asms)
	}

	lib, err := m.Assembly("Lib")
	if err != nil {
		t.Fatalf("Assembly(Lib) error = %v", err)
	}
	if lib.TypeCount() != 1 {
		t.Errorf("Lib.TypeCount() = %d", lib.TypeCount())
	}
	if _, ok := lib.TypeDefinition("A"); !ok {
		t.Errorf("Lib does not declare A")
	}
	if _, ok := lib.TypeDefinition("B"); ok {
		t.Errorf("Lib claims B")
	}
	if _, err := m.Assembly("Missing"); !errors.Is(err, ErrAssemblyNotFound) {
		t.Errorf("Assembly(Missing) error = %v", err)
	}

	n := 0
	for range m.ByName("A") {
		n++
	}
	if n != 1 {
		t.Errorf("ByName(A) yielded %d types", n)
	}
}
