package typesys

import (
	"fmt"
	"io"
	"iter"
	"os"
	"sync"

	"github.com/skdltmxn/lookup-go/internal/schema"
	"github.com/skdltmxn/lookup-go/internal/typeref"
)

// Model is a loaded set of assemblies. It is immutable after loading and
// safe for concurrent read access.
type Model struct {
	assemblies []*Assembly
	types      []*Definition

	byReflectionName map[string]*Definition
	aliases          map[string]*Definition
	object           *Definition

	// Lazy name index
	byName     map[string][]*Definition
	byNameOnce sync.Once

	// refCache maps reference strings to resolved types.
	refCache sync.Map
}

// Open reads a YAML model from path.
func Open(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typesys: failed to open model: %w", err)
	}
	return Parse(data)
}

// OpenReader reads a YAML model from r.
func OpenReader(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("typesys: failed to read model: %w", err)
	}
	return Parse(data)
}

// Parse loads a YAML model stream. The builtin assembly is always loaded
// first so that user types can refer to System types and keywords.
func Parse(data []byte) (*Model, error) {
	builtins, err := getBuiltinStream()
	if err != nil {
		return nil, fmt.Errorf("typesys: builtin model: %w", err)
	}
	user, err := schema.ParseStream(data)
	if err != nil {
		return nil, err
	}

	m := &Model{
		byReflectionName: make(map[string]*Definition),
		aliases:          make(map[string]*Definition),
	}
	if err := newLoader(m).load(builtins, user); err != nil {
		return nil, err
	}
	return m, nil
}

// MustParse is like Parse but panics on error.
func MustParse(data string) *Model {
	m, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return m
}

// Assemblies returns the loaded assemblies, builtin first.
func (m *Model) Assemblies() []*Assembly {
	return m.assemblies
}

// Assembly finds an assembly by name.
func (m *Model) Assembly(name string) (*Assembly, error) {
	for _, a := range m.assemblies {
		if a.name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAssemblyNotFound, name)
}

// Object returns System.Object.
func (m *Model) Object() *Definition {
	return m.object
}

// Count returns the number of definitions across all assemblies.
func (m *Model) Count() int {
	return len(m.types)
}

// All returns an iterator over all definitions.
func (m *Model) All() iter.Seq[*Definition] {
	return func(yield func(*Definition) bool) {
		for _, t := range m.types {
			if !yield(t) {
				return
			}
		}
	}
}

// ByReflectionName finds a definition by its reflection name, for example
// "Ns.Outer`1+Inner".
func (m *Model) ByReflectionName(name string) (*Definition, error) {
	if def, ok := m.byReflectionName[name]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
}

// ByName returns an iterator over definitions with the given simple name.
func (m *Model) ByName(name string) iter.Seq[*Definition] {
	m.byNameOnce.Do(m.buildNameIndex)

	return func(yield func(*Definition) bool) {
		for _, t := range m.byName[name] {
			if !yield(t) {
				return
			}
		}
	}
}

func (m *Model) buildNameIndex() {
	m.byName = make(map[string][]*Definition)
	for _, t := range m.types {
		m.byName[t.name] = append(m.byName[t.name], t)
	}
}

// ResolveType resolves a C#-like type reference such as "A<int>.B" or
// "System.Int32" in global scope.
func (m *Model) ResolveType(ref string) (Type, error) {
	if cached, ok := m.refCache.Load(ref); ok {
		return cached.(Type), nil
	}

	q, err := typeref.Parse(ref)
	if err != nil {
		return nil, err
	}
	t, err := m.resolver().resolve(scope{}, q)
	if err != nil {
		return nil, err
	}

	m.refCache.Store(ref, t)
	return t, nil
}

// ResolveTypeIn resolves a type reference as it would be written inside
// def, so type parameters and nested types of def and its outer types are
// in scope.
func (m *Model) ResolveTypeIn(def *Definition, ref string) (Type, error) {
	if def == nil {
		return m.ResolveType(ref)
	}
	q, err := typeref.Parse(ref)
	if err != nil {
		return nil, err
	}
	return m.resolver().resolve(scope{def: def}, q)
}

// FindNestedType looks for a type named name with len(typeArgs) own type
// parameters nested in t or in one of its base classes. The result binds
// the outer parameters the way the level that declares the nested type
// sees them, so for t = A<int> the nested B is A<int>.B.
func (m *Model) FindNestedType(t Type, name string, typeArgs []Type) (Type, bool) {
	nested, ok, err := m.resolver().findNested(t, name, typeArgs)
	if err != nil {
		return nil, false
	}
	return nested, ok
}

func (m *Model) resolver() *resolver {
	return &resolver{m: m}
}

// lookupGlobal finds a top-level definition by namespace, name and arity.
func (m *Model) lookupGlobal(namespace, name string, arity int) *Definition {
	key := name
	if arity > 0 {
		key = fmt.Sprintf("%s`%d", name, arity)
	}
	if namespace != "" {
		key = namespace + "." + key
	}
	return m.byReflectionName[key]
}
