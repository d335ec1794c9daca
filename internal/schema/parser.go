package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"gopkg.in/yaml.v3"
)

// Errors
var (
	ErrEmptyModel      = errors.New("schema: model contains no types")
	ErrMissingName     = errors.New("schema: missing name")
	ErrUnknownKind     = errors.New("schema: unknown kind")
	ErrUnknownAccess   = errors.New("schema: unknown accessibility")
	ErrDuplicateType   = errors.New("schema: duplicate type")
	ErrDuplicateMember = errors.New("schema: conflicting member declarations")
	ErrInvalidModifier = errors.New("schema: invalid modifier combination")
)

// RecordError locates a validation failure.
type RecordError struct {
	Assembly string
	Type     string
	Member   string
	Err      error
}

func (e *RecordError) Error() string {
	loc := e.Assembly + ":" + e.Type
	if e.Member != "" {
		loc += "." + e.Member
	}
	return fmt.Sprintf("%v (%s)", e.Err, loc)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Entry is a type record together with its position in the model.
type Entry struct {
	Document *Document
	Outer    *Entry
	Record   *TypeRecord

	// QualifiedName is "Namespace.Outer+Inner" without arity suffixes.
	QualifiedName string
}

// Namespace returns the effective namespace of the entry.
func (e *Entry) Namespace() string {
	if e.Outer != nil {
		return e.Outer.Namespace()
	}
	if e.Record.Namespace != "" {
		return e.Record.Namespace
	}
	return e.Document.Namespace
}

// Stream represents a decoded model file.
type Stream struct {
	Documents []*Document

	// entries holds every type record, outer types before nested ones,
	// in declaration order.
	entries []*Entry

	// index maps qualified names to entries.
	index map[string]*Entry
}

// ParseStream decodes and validates a YAML model stream.
func ParseStream(data []byte) (*Stream, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	s := &Stream{
		index: make(map[string]*Entry),
	}

	for {
		doc := &Document{}
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("schema: failed to decode document %d: %w", len(s.Documents), err)
		}
		if doc.Assembly == "" {
			doc.Assembly = DefaultAssembly
		}
		s.Documents = append(s.Documents, doc)
	}

	for _, doc := range s.Documents {
		for i := range doc.Types {
			if err := s.addEntry(doc, nil, &doc.Types[i]); err != nil {
				return nil, err
			}
		}
	}

	if len(s.entries) == 0 {
		return nil, ErrEmptyModel
	}
	return s, nil
}

func (s *Stream) addEntry(doc *Document, outer *Entry, rec *TypeRecord) error {
	if rec.Name == "" {
		name := "<anonymous>"
		if outer != nil {
			name = outer.QualifiedName + "+<anonymous>"
		}
		return &RecordError{Assembly: doc.Assembly, Type: name, Err: ErrMissingName}
	}

	e := &Entry{Document: doc, Outer: outer, Record: rec}
	if outer != nil {
		e.QualifiedName = outer.QualifiedName + "+" + rec.Name
	} else if ns := e.Namespace(); ns != "" {
		e.QualifiedName = ns + "." + rec.Name
	} else {
		e.QualifiedName = rec.Name
	}

	if err := validateType(rec); err != nil {
		return &RecordError{Assembly: doc.Assembly, Type: e.QualifiedName, Err: err}
	}
	if err := validateMembers(rec); err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			re.Assembly = doc.Assembly
			re.Type = e.QualifiedName
		}
		return err
	}

	key := indexKey(e.QualifiedName, len(rec.TypeParams))
	if _, exists := s.index[key]; exists {
		return &RecordError{Assembly: doc.Assembly, Type: e.QualifiedName, Err: ErrDuplicateType}
	}
	s.index[key] = e
	s.entries = append(s.entries, e)

	for i := range rec.Nested {
		if err := s.addEntry(doc, e, &rec.Nested[i]); err != nil {
			return err
		}
	}
	return nil
}

func indexKey(qualifiedName string, arity int) string {
	return fmt.Sprintf("%s`%d", qualifiedName, arity)
}

func validateType(rec *TypeRecord) error {
	switch rec.Kind {
	case "":
		rec.Kind = KindClass
	case KindClass, KindStruct, KindInterface, KindEnum, KindDelegate:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
	}

	switch rec.Access {
	case "":
		rec.Access = AccessPublic
	case AccessPublic, AccessInternal, AccessPrivate, AccessProtected, AccessProtectedInternal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAccess, rec.Access)
	}

	for _, tp := range rec.TypeParams {
		if tp == "" {
			return fmt.Errorf("%w: type parameter", ErrMissingName)
		}
	}
	return nil
}

func validateMembers(rec *TypeRecord) error {
	// kinds tracks the kind declared for each name at this level. Method-like
	// members may repeat a name as overloads of the same kind; anything else
	// must be unique.
	kinds := make(map[string]string)

	for i := range rec.Members {
		m := &rec.Members[i]
		if m.Name == "" {
			if m.Kind != MemberIndexer && m.Kind != MemberConstructor {
				return &RecordError{Err: ErrMissingName}
			}
		}

		switch m.Kind {
		case MemberField, MemberProperty, MemberEvent, MemberMethod:
		case MemberIndexer:
			if m.Name == "" {
				m.Name = "Item"
			}
		case MemberConstructor:
			if m.Name == "" {
				m.Name = ".ctor"
			}
		default:
			return &RecordError{Member: m.Name, Err: fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)}
		}

		switch m.Access {
		case "":
			m.Access = AccessPrivate
			if rec.Kind == KindInterface {
				m.Access = AccessPublic
			}
		case AccessPublic, AccessInternal, AccessPrivate, AccessProtected, AccessProtectedInternal:
		default:
			return &RecordError{Member: m.Name, Err: fmt.Errorf("%w: %q", ErrUnknownAccess, m.Access)}
		}

		if m.Override && m.New {
			return &RecordError{Member: m.Name, Err: fmt.Errorf("%w: override and new", ErrInvalidModifier)}
		}
		if m.Override && m.Static {
			return &RecordError{Member: m.Name, Err: fmt.Errorf("%w: static override", ErrInvalidModifier)}
		}
		if m.Kind == MemberField && (m.Virtual || m.Override || m.Abstract) {
			return &RecordError{Member: m.Name, Err: fmt.Errorf("%w: virtual field", ErrInvalidModifier)}
		}

		if prev, ok := kinds[m.Name]; ok && (prev != m.Kind || !m.IsMethodLike()) {
			return &RecordError{Member: m.Name, Err: ErrDuplicateMember}
		}
		kinds[m.Name] = m.Kind
	}
	return nil
}

// Entries returns an iterator over all type records, outer types first.
func (s *Stream) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range s.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Lookup finds an entry by qualified name and arity.
func (s *Stream) Lookup(qualifiedName string, arity int) (*Entry, bool) {
	e, ok := s.index[indexKey(qualifiedName, arity)]
	return e, ok
}

// TypeCount returns the number of type records, nested ones included.
func (s *Stream) TypeCount() int {
	return len(s.entries)
}
