package typesys

import (
	"errors"

	"github.com/hashicorp/go-set/v3"

	"github.com/skdltmxn/lookup-go/internal/schema"
	"github.com/skdltmxn/lookup-go/internal/typeref"
)

var typeKinds = map[string]TypeKind{
	schema.KindClass:     TypeKindClass,
	schema.KindStruct:    TypeKindStruct,
	schema.KindInterface: TypeKindInterface,
	schema.KindEnum:      TypeKindEnum,
	schema.KindDelegate:  TypeKindDelegate,
}

var memberKinds = map[string]MemberKind{
	schema.MemberField:       MemberKindField,
	schema.MemberProperty:    MemberKindProperty,
	schema.MemberEvent:       MemberKindEvent,
	schema.MemberMethod:      MemberKindMethod,
	schema.MemberIndexer:     MemberKindIndexer,
	schema.MemberConstructor: MemberKindConstructor,
}

var accessibilities = map[string]Accessibility{
	schema.AccessPrivate:           AccessibilityPrivate,
	schema.AccessProtected:         AccessibilityProtected,
	schema.AccessInternal:          AccessibilityInternal,
	schema.AccessProtectedInternal: AccessibilityProtectedInternal,
	schema.AccessPublic:            AccessibilityPublic,
}

// loader turns decoded schema streams into a linked model. Loading runs in
// phases: definitions, base lists, members, override links.
type loader struct {
	m *Model
	r *resolver

	defs    []*Definition
	records map[*Definition]*schema.Entry

	visiting *set.Set[*Definition]
	done     *set.Set[*Definition]
}

func newLoader(m *Model) *loader {
	l := &loader{
		m:        m,
		records:  make(map[*Definition]*schema.Entry),
		visiting: set.New[*Definition](16),
		done:     set.New[*Definition](64),
	}
	l.r = &resolver{m: m, prepare: l.prepare}
	return l
}

func (l *loader) load(streams ...*schema.Stream) error {
	for i, s := range streams {
		if err := l.declare(s, i == 0); err != nil {
			return err
		}
	}

	obj, ok := l.m.byReflectionName["System.Object"]
	if !ok {
		return &LoadError{Assembly: BuiltinAssembly, Type: "System.Object",
			Message: "missing root type", Err: ErrTypeNotFound}
	}
	l.m.object = obj
	for alias, name := range aliases {
		if def, ok := l.m.byReflectionName[name]; ok {
			l.m.aliases[alias] = def
		}
	}

	for _, def := range l.defs {
		if err := l.resolveBases(def); err != nil {
			return err
		}
	}
	for _, def := range l.defs {
		if err := l.resolveMembers(def); err != nil {
			return err
		}
	}
	for _, def := range l.defs {
		linkOverrides(def)
	}
	return nil
}

// declare creates definitions and type parameters for every entry.
func (l *loader) declare(s *schema.Stream, builtin bool) error {
	byDocument := make(map[*schema.Document]*Assembly)
	byEntry := make(map[*schema.Entry]*Definition)

	for e := range s.Entries() {
		asm, ok := byDocument[e.Document]
		if !ok {
			asm = l.assembly(e.Document.Assembly, builtin)
			byDocument[e.Document] = asm
		}

		rec := e.Record
		def := &Definition{
			name:          rec.Name,
			kind:          typeKinds[rec.Kind],
			accessibility: accessibilities[rec.Access],
			assembly:      asm,
		}
		if e.Outer != nil {
			def.declaringType = byEntry[e.Outer]
		} else {
			def.namespace = e.Namespace()
		}

		outer := 0
		if def.declaringType != nil {
			outer = len(def.declaringType.AllTypeParameters())
		}
		for i, name := range rec.TypeParams {
			def.typeParameters = append(def.typeParameters, &TypeParameter{
				name:  name,
				index: outer + i,
				owner: def,
			})
		}

		key := def.ReflectionName()
		if _, dup := l.m.byReflectionName[key]; dup {
			return &LoadError{Assembly: asm.name, Type: key,
				Message: "type declared twice", Err: ErrDuplicateType}
		}
		l.m.byReflectionName[key] = def
		if def.declaringType != nil {
			def.declaringType.nestedTypes = append(def.declaringType.nestedTypes, def)
		}

		asm.types = append(asm.types, def)
		l.m.types = append(l.m.types, def)
		l.defs = append(l.defs, def)
		l.records[def] = e
		byEntry[e] = def
	}
	return nil
}

func (l *loader) assembly(name string, builtin bool) *Assembly {
	for _, a := range l.m.assemblies {
		if a.name == name {
			return a
		}
	}
	a := &Assembly{name: name, model: l.m, builtin: builtin}
	l.m.assemblies = append(l.m.assemblies, a)
	return a
}

// prepare is the resolver hook used while walking base chains during
// loading. A definition whose bases are being resolved is not walked past.
func (l *loader) prepare(def *Definition) (bool, error) {
	if l.visiting.Contains(def) {
		return false, nil
	}
	if err := l.resolveBases(def); err != nil {
		return false, err
	}
	return true, nil
}

func (l *loader) resolveBases(def *Definition) error {
	if l.done.Contains(def) {
		return nil
	}
	if !l.visiting.Insert(def) {
		return l.errorf(def, "", "type derives from itself", ErrCyclicInheritance)
	}
	defer l.visiting.Remove(def)

	e, ok := l.records[def]
	if !ok {
		return nil
	}

	sc := scope{def: def, baseClause: true}
	var bases []Type
	for _, ref := range e.Record.Base {
		q, err := typeref.Parse(ref)
		if err != nil {
			return l.errorf(def, "", "bad base type "+ref, err)
		}
		t, err := l.r.resolve(sc, q)
		if err != nil {
			return l.errorf(def, "", "unresolved base type "+ref, err)
		}
		bd := t.Definition()
		if bd == nil {
			return l.errorf(def, "", "type parameter used as base "+ref, ErrInvalidBase)
		}
		if err := l.resolveBases(bd); err != nil {
			if errors.Is(err, ErrCyclicInheritance) {
				return l.errorf(def, "", "cycle through "+bd.ReflectionName(), ErrCyclicInheritance)
			}
			return err
		}
		bases = append(bases, t)
	}

	bases, err := l.checkBases(def, bases)
	if err != nil {
		return err
	}
	def.baseTypes = bases
	l.done.Insert(def)
	return nil
}

// checkBases validates the base list against the definition kind and adds
// the implicit base class.
func (l *loader) checkBases(def *Definition, bases []Type) ([]Type, error) {
	for i, b := range bases {
		isInterface := b.Kind() == TypeKindInterface
		switch {
		case isInterface:
			continue
		case def.kind != TypeKindClass:
			return nil, l.errorf(def, "", def.kind.String()+" can only implement interfaces", ErrInvalidBase)
		case i != 0:
			return nil, l.errorf(def, "", "base class must come first", ErrInvalidBase)
		case b.Kind() != TypeKindClass:
			return nil, l.errorf(def, "", "cannot derive from "+b.Kind().String()+" "+b.String(), ErrInvalidBase)
		}
	}

	if def.kind == TypeKindInterface || def == l.m.object {
		return bases, nil
	}
	if len(bases) > 0 && bases[0].Kind() == TypeKindClass {
		return bases, nil
	}

	implicit := l.m.object
	switch def.kind {
	case TypeKindStruct, TypeKindEnum:
		if vt, ok := l.m.byReflectionName["System.ValueType"]; ok {
			implicit = vt
		}
	case TypeKindDelegate:
		if d, ok := l.m.byReflectionName["System.Delegate"]; ok && d != def {
			implicit = d
		}
	}
	if implicit == def {
		implicit = l.m.object
	}
	return append([]Type{implicit}, bases...), nil
}

func (l *loader) resolveMembers(def *Definition) error {
	e := l.records[def]
	for i := range e.Record.Members {
		rec := &e.Record.Members[i]
		m := &Member{
			name:          rec.Name,
			kind:          memberKinds[rec.Kind],
			declaringType: def,
			accessibility: accessibilities[rec.Access],
			isStatic:      rec.Static,
			isVirtual:     rec.Virtual,
			isAbstract:    rec.Abstract,
			isOverride:    rec.Override,
			isSealed:      rec.Sealed,
			isNew:         rec.New,
		}
		for j, name := range rec.TypeParams {
			m.typeParameters = append(m.typeParameters, &TypeParameter{
				name:   name,
				index:  j,
				owner:  def,
				method: m,
			})
		}

		sc := scope{def: def, method: m}
		ret := rec.Type
		if ret == "" {
			switch m.kind {
			case MemberKindConstructor:
			case MemberKindMethod:
				ret = "void"
			default:
				ret = "object"
			}
		}
		if ret != "" {
			t, err := l.resolveRef(sc, ret)
			if err != nil {
				return l.errorf(def, rec.Name, "unresolved type "+ret, err)
			}
			m.returnType = t
		}

		for _, p := range rec.Params {
			t, err := l.resolveRef(sc, p.Type)
			if err != nil {
				return l.errorf(def, rec.Name, "unresolved parameter type "+p.Type, err)
			}
			m.parameters = append(m.parameters, &Parameter{Name: p.Name, Type: t})
		}
		if m.kind == MemberKindIndexer && len(m.parameters) == 0 {
			return l.errorf(def, rec.Name, "indexer without parameters", nil)
		}

		def.addMember(m)
	}
	return nil
}

func (l *loader) resolveRef(sc scope, ref string) (Type, error) {
	q, err := typeref.Parse(ref)
	if err != nil {
		return nil, err
	}
	return l.r.resolve(sc, q)
}

func (l *loader) errorf(def *Definition, member, msg string, err error) error {
	asm := ""
	if def.assembly != nil {
		asm = def.assembly.name
	}
	return &LoadError{
		Assembly: asm,
		Type:     def.ReflectionName(),
		Member:   member,
		Message:  msg,
		Err:      err,
	}
}

// linkOverrides connects every override declared on def to the nearest
// overridable member of a base class with the same signature.
func linkOverrides(def *Definition) {
	for _, m := range def.members {
		if m.isOverride {
			m.overridden = findOverridden(def, m)
		}
	}
}

func findOverridden(def *Definition, m *Member) *Member {
	first := true
	for level := range BaseChain(def.SelfType()) {
		if first {
			first = false
			continue
		}
		ld := level.Definition()
		if ld == nil {
			continue
		}
		for _, c := range ld.MembersNamed(m.name) {
			if c.kind != m.kind || !c.IsOverridable() ||
				len(c.typeParameters) != len(m.typeParameters) ||
				len(c.parameters) != len(m.parameters) {
				continue
			}
			if sameParameters(Specialize(c, level).parameters, m.parameters) {
				return c
			}
		}
	}
	return nil
}

func sameParameters(a, b []*Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}
