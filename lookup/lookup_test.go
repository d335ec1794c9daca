package lookup

import (
	"errors"
	"testing"

	"github.com/skdltmxn/lookup-go/typesys"
)

const classModel = `
types:
  - name: Base
    members:
      - {name: Method, kind: method, access: public, virtual: true}
  - name: Middle
    base: Base
    members:
      - {name: Method, kind: method, access: public, params: [int x]}
  - name: Derived
    base: Middle
    members:
      - {name: Method, kind: method, access: public, override: true}

  - name: GBase
    type_params: [T]
    members:
      - {name: Method, kind: method, access: public, virtual: true, params: [T a]}
  - name: GDerived
    base: GBase<int>
    members:
      - {name: Method, kind: method, access: public, override: true, params: [int a]}
      - {name: Method, kind: method, access: public, override: true, params: [string a]}

  - name: HBase
    members:
      - {name: Method, kind: method, access: public, virtual: true, type_params: [T], params: [T a]}
  - name: HDerived
    base: HBase
    members:
      - {name: Method, kind: method, access: public, override: true, type_params: [S], params: [S a]}

  - name: A
    type_params: [T]
    nested:
      - name: B
        members:
          - {name: Field, kind: field, access: public, type: T}
  - name: Foo
    base: A<int>.B
  - name: Bar
    base: A<int>
    members:
      - {name: Use, kind: method, access: public, params: [B v]}

  - name: Outer
    type_params: [T]
    members:
      - {name: Bar, kind: field, access: public, type: TestFoo}
    nested:
      - name: TestFoo
  - name: Test

  - name: C
    type_params: [T]
    members:
      - {name: field, kind: field, type: C<T>}
      - {name: Get, kind: method, access: public, type: T, params: [T value]}

  - name: L1
    members:
      - {name: M, kind: method, access: public}
      - {name: M, kind: method, access: public, params: [int a]}
  - name: L2
    base: L1
    members:
      - {name: M, kind: method, access: public, params: [string a]}
  - name: L3
    base: L2
    members:
      - {name: M, kind: method, access: public, params: [double a]}
      - {name: M, kind: method, access: public, params: [bool a]}

  - name: MBase
    members:
      - {name: X, kind: method, access: public}
      - {name: X, kind: method, access: public, params: [int a]}
  - name: MDerived
    base: MBase
    members:
      - {name: X, kind: field, access: public, type: int}
  - name: MHidden
    base: MBase
    members:
      - {name: X, kind: field, type: Action}

  - name: VBase
    members:
      - {name: P, kind: property, access: public, type: int}
  - name: VDerived
    base: VBase
    members:
      - {name: P, kind: method, access: public}

  - name: NBase
    members:
      - {name: M, kind: method, access: public, params: [int a]}
  - name: NDerived
    base: NBase
    members:
      - {name: M, kind: method, access: public, new: true, params: [int a]}
      - {name: M, kind: method, access: public, params: [string a]}
`

func mustModel(t *testing.T, src string) *typesys.Model {
	t.Helper()
	m, err := typesys.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

func mustDef(t *testing.T, m *typesys.Model, name string) *typesys.Definition {
	t.Helper()
	def, err := m.ByReflectionName(name)
	if err != nil {
		t.Fatalf("ByReflectionName(%q) error = %v", name, err)
	}
	return def
}

func mustType(t *testing.T, m *typesys.Model, ref string) typesys.Type {
	t.Helper()
	typ, err := m.ResolveType(ref)
	if err != nil {
		t.Fatalf("ResolveType(%q) error = %v", ref, err)
	}
	return typ
}

func mustLookup(t *testing.T, l *MemberLookup, target Target, name string, typeArgs []typesys.Type, isInvocation bool) Result {
	t.Helper()
	res, err := l.Lookup(target, name, typeArgs, isInvocation)
	if err != nil {
		t.Fatalf("Lookup(%s, %q) error = %v", target, name, err)
	}
	return res
}

func asGroup(t *testing.T, res Result) *MethodGroup {
	t.Helper()
	mg, ok := res.(*MethodGroup)
	if !ok {
		t.Fatalf("got %s, want method group", res)
	}
	return mg
}

func asSingle(t *testing.T, res Result) *SingleMember {
	t.Helper()
	sm, ok := res.(*SingleMember)
	if !ok {
		t.Fatalf("got %s, want single member", res)
	}
	return sm
}

func TestGroupMethodsByDeclaringType(t *testing.T) {
	m := mustModel(t, classModel)
	derived := mustDef(t, m, "Derived")
	l := New(derived, nil)

	mg := asGroup(t, mustLookup(t, l, Expression(derived), "Method", nil, true))
	if len(mg.Groups) != 2 {
		t.Fatalf("got %d groups, want 2: %s", len(mg.Groups), mg)
	}

	tests := []struct {
		declaring string
		member    string
	}{
		{"Base", "Derived.Method"},
		{"Middle", "Middle.Method"},
	}
	for i, tt := range tests {
		g := mg.Groups[i]
		if got := g.DeclaringType.ReflectionName(); got != tt.declaring {
			t.Errorf("group %d declaring type = %s, want %s", i, got, tt.declaring)
		}
		if len(g.Members) != 1 || g.Members[0].FullName() != tt.member {
			t.Errorf("group %d = %s, want [%s]", i, g, tt.member)
		}
	}
}

func TestMethodInGenericClassOverriddenByConcreteMethod(t *testing.T) {
	m := mustModel(t, classModel)
	derived := mustDef(t, m, "GDerived")

	mg := asGroup(t, mustLookup(t, New(derived, nil), This(derived), "Method", nil, true))
	if len(mg.Groups) != 2 {
		t.Fatalf("got %d groups, want 2: %s", len(mg.Groups), mg)
	}

	base := mg.Groups[0]
	if got := base.DeclaringType.ReflectionName(); got != "GBase`1[[System.Int32]]" {
		t.Errorf("first group declaring type = %s", got)
	}
	if len(base.Members) != 1 {
		t.Fatalf("first group = %s", base)
	}
	if got := base.Members[0].FullName(); got != "GDerived.Method" {
		t.Errorf("first group member = %s, want GDerived.Method", got)
	}
	if got := base.Members[0].Parameters()[0].Type.ReflectionName(); got != "System.Int32" {
		t.Errorf("first group parameter = %s, want System.Int32", got)
	}

	own := mg.Groups[1]
	if got := own.DeclaringType.ReflectionName(); got != "GDerived" {
		t.Errorf("second group declaring type = %s", got)
	}
	if got := own.Members[0].Parameters()[0].Type.ReflectionName(); got != "System.String" {
		t.Errorf("second group parameter = %s, want System.String", got)
	}
}

func TestGenericMethodOverride(t *testing.T) {
	m := mustModel(t, classModel)
	derived := mustDef(t, m, "HDerived")
	l := New(derived, nil)

	sm := asSingle(t, mustLookup(t, l, Expression(derived), "Method", nil, true))
	if got := sm.Member.FullName(); got != "HDerived.Method" {
		t.Errorf("member = %s, want HDerived.Method", got)
	}
	if got := sm.Member.Parameters()[0].Type.ReflectionName(); got != "``0" {
		t.Errorf("parameter = %s, want ``0", got)
	}

	intType := mustType(t, m, "int")
	if res := mustLookup(t, l, Expression(derived), "Method", []typesys.Type{intType}, true); res.Kind() != KindSingleMember {
		t.Errorf("one type argument: got %s", res)
	}
	if res := mustLookup(t, l, Expression(derived), "Method", []typesys.Type{intType, intType}, true); res.Kind() != KindNotFound {
		t.Errorf("two type arguments: got %s", res)
	}
}

func TestOuterTypeParameter(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)

	bar := mustDef(t, m, "Bar")
	useParam := bar.MembersNamed("Use")[0].Parameters()[0].Type

	tests := []struct {
		name     string
		receiver typesys.Type
	}{
		{"nested type access", mustType(t, m, "A<int>.B")},
		{"inherited nested type", mustDef(t, m, "Foo")},
		{"parameter of nested type", useParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := asSingle(t, mustLookup(t, l, Expression(tt.receiver), "Field", nil, false))
			if got := sm.Member.ReturnType().ReflectionName(); got != "System.Int32" {
				t.Errorf("Field type = %s, want System.Int32", got)
			}
		})
	}
}

func TestMemberInGenericClassReferringToInnerClass(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(mustDef(t, m, "Test"), nil)

	sm := asSingle(t, mustLookup(t, l, Expression(mustType(t, m, "Outer<Test>")), "Bar", nil, false))
	if got := sm.Member.ReturnType().ReflectionName(); got != "Outer`1+TestFoo[[Test]]" {
		t.Errorf("Bar type = %s", got)
	}
}

func TestThisHasSameTypeAsFieldInGenericClass(t *testing.T) {
	m := mustModel(t, classModel)
	c := mustDef(t, m, "C`1")
	l := New(c, nil)

	sm := asSingle(t, mustLookup(t, l, This(c.SelfType()), "field", nil, false))
	if got := sm.Member.ReturnType().ReflectionName(); got != "C`1[[`0]]" {
		t.Errorf("field type = %s", got)
	}
	if got := c.SelfType().ReflectionName(); got != sm.Member.ReturnType().ReflectionName() {
		t.Errorf("this type %s differs from field type", got)
	}

	// Through a closed instantiation the method signature is substituted.
	sm = asSingle(t, mustLookup(t, l, Expression(mustType(t, m, "C<string>")), "Get", nil, true))
	if got := sm.Member.ReturnType().ReflectionName(); got != "System.String" {
		t.Errorf("Get return type = %s", got)
	}
}

func TestOverloadLevelsOrderedBaseFirst(t *testing.T) {
	m := mustModel(t, classModel)
	l3 := mustDef(t, m, "L3")

	mg := asGroup(t, mustLookup(t, New(nil, nil), Expression(l3), "M", nil, true))
	want := []struct {
		declaring string
		count     int
	}{
		{"L1", 2},
		{"L2", 1},
		{"L3", 2},
	}
	if len(mg.Groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %s", len(mg.Groups), len(want), mg)
	}
	for i, w := range want {
		g := mg.Groups[i]
		if g.DeclaringType.ReflectionName() != w.declaring || len(g.Members) != w.count {
			t.Errorf("group %d = %s, want %s with %d members", i, g, w.declaring, w.count)
		}
		for _, member := range g.Members {
			if member.Definition().DeclaringType().Name() != w.declaring {
				t.Errorf("group %s holds %s", w.declaring, member.FullName())
			}
		}
	}
	if mg.Count() != 5 {
		t.Errorf("Count() = %d, want 5", mg.Count())
	}

	n := 0
	for range mg.Methods() {
		n++
	}
	if n != 5 {
		t.Errorf("Methods() yielded %d, want 5", n)
	}
}

func TestFieldHidesBaseMethodGroup(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)

	sm := asSingle(t, mustLookup(t, l, Expression(mustDef(t, m, "MDerived")), "X", nil, true))
	if sm.Member.FullName() != "MDerived.X" {
		t.Errorf("member = %s, want MDerived.X", sm.Member.FullName())
	}
	if !sm.NotInvocable {
		t.Errorf("int field reported invocable")
	}

	sm = asSingle(t, mustLookup(t, l, Expression(mustDef(t, m, "MDerived")), "X", nil, false))
	if sm.NotInvocable {
		t.Errorf("NotInvocable set without invocation")
	}

	mg := asGroup(t, mustLookup(t, l, Expression(mustDef(t, m, "MBase")), "X", nil, true))
	if len(mg.Groups) != 1 || mg.Count() != 2 {
		t.Errorf("MBase.X = %s", mg)
	}
}

func TestInaccessibleFieldStillHides(t *testing.T) {
	m := mustModel(t, classModel)
	hidden := mustDef(t, m, "MHidden")

	res := mustLookup(t, New(nil, nil), Expression(hidden), "X", nil, true)
	if res.Kind() != KindNotFound {
		t.Errorf("outside MHidden: got %s, want not found", res)
	}

	sm := asSingle(t, mustLookup(t, New(hidden, nil), This(hidden), "X", nil, true))
	if sm.NotInvocable {
		t.Errorf("delegate-typed field reported not invocable")
	}
}

func TestMethodHidesBaseProperty(t *testing.T) {
	m := mustModel(t, classModel)

	sm := asSingle(t, mustLookup(t, New(nil, nil), Expression(mustDef(t, m, "VDerived")), "P", nil, false))
	if sm.Member.FullName() != "VDerived.P" || sm.Member.Kind() != typesys.MemberKindMethod {
		t.Errorf("got %s, want method VDerived.P", sm.Member)
	}
}

func TestNewMethodStopsWalk(t *testing.T) {
	m := mustModel(t, classModel)

	mg := asGroup(t, mustLookup(t, New(nil, nil), Expression(mustDef(t, m, "NDerived")), "M", nil, true))
	if len(mg.Groups) != 1 || mg.Groups[0].DeclaringType.ReflectionName() != "NDerived" || mg.Count() != 2 {
		t.Errorf("got %s, want only NDerived overloads", mg)
	}
}

func TestTypeParameterReceiver(t *testing.T) {
	m := mustModel(t, classModel)
	c := mustDef(t, m, "C`1")
	tp := c.TypeParameters()[0]

	sm := asSingle(t, mustLookup(t, New(c, nil), Expression(tp), "ToString", nil, true))
	if sm.Member.FullName() != "System.Object.ToString" {
		t.Errorf("got %s", sm.Member.FullName())
	}
}

func TestNotFound(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)

	res := mustLookup(t, l, Expression(mustDef(t, m, "Derived")), "Missing", nil, false)
	nf, ok := res.(*NotFound)
	if !ok {
		t.Fatalf("got %s, want not found", res)
	}
	if nf.Name != "Missing" {
		t.Errorf("Name = %q", nf.Name)
	}

	res = mustLookup(t, l, Base(m.Object()), "ToString", nil, true)
	if res.Kind() != KindNotFound {
		t.Errorf("base access from Object: got %s", res)
	}
}

func TestLookupIsIdempotent(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)
	target := Expression(mustDef(t, m, "L3"))

	first := mustLookup(t, l, target, "M", nil, true)
	second := mustLookup(t, l, target, "M", nil, true)
	if first.String() != second.String() {
		t.Errorf("results differ:\n%s\n%s", first, second)
	}
}

func TestLookupInvalidInput(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)
	derived := mustDef(t, m, "Derived")

	tests := []struct {
		name     string
		target   Target
		member   string
		typeArgs []typesys.Type
	}{
		{"empty name", Expression(derived), "", nil},
		{"nil type", Expression(nil), "Method", nil},
		{"nil type argument", Expression(derived), "Method", []typesys.Type{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Lookup(tt.target, tt.member, tt.typeArgs, false)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Lookup() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestLookupType(t *testing.T) {
	m := mustModel(t, classModel)
	l := New(nil, nil)

	nested, ok := l.LookupType(mustDef(t, m, "Bar"), "B", nil)
	if !ok {
		t.Fatalf("LookupType(Bar, B) not found")
	}
	if got := nested.ReflectionName(); got != "A`1+B[[System.Int32]]" {
		t.Errorf("LookupType(Bar, B) = %s", got)
	}

	if _, ok := l.LookupType(mustDef(t, m, "Bar"), "Missing", nil); ok {
		t.Errorf("LookupType(Bar, Missing) found")
	}
}
