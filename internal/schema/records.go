// Package schema decodes type model documents.
//
// A model file is a YAML stream with one document per assembly. Each
// document lists type records; type records carry member records and nested
// type records. Type references are kept as text and resolved later by the
// type model.
package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type record kinds
const (
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
	KindEnum      = "enum"
	KindDelegate  = "delegate"
)

// Member record kinds
const (
	MemberField       = "field"
	MemberProperty    = "property"
	MemberEvent       = "event"
	MemberMethod      = "method"
	MemberIndexer     = "indexer"
	MemberConstructor = "constructor"
)

// Accessibility keywords
const (
	AccessPrivate           = "private"
	AccessProtected         = "protected"
	AccessInternal          = "internal"
	AccessProtectedInternal = "protected internal"
	AccessPublic            = "public"
)

// DefaultAssembly names documents that omit the assembly key.
const DefaultAssembly = "Main"

// Document is one assembly.
type Document struct {
	Assembly  string       `yaml:"assembly"`
	Namespace string       `yaml:"namespace,omitempty"`
	Types     []TypeRecord `yaml:"types"`
}

// TypeRecord declares a class, struct, interface, enum or delegate.
type TypeRecord struct {
	Name       string   `yaml:"name"`
	Namespace  string   `yaml:"namespace,omitempty"`
	Kind       string   `yaml:"kind,omitempty"`
	Access     string   `yaml:"access,omitempty"`
	TypeParams []string `yaml:"type_params,omitempty"`

	// Base lists the base class (if any) followed by interfaces. A single
	// scalar is accepted.
	Base StringList `yaml:"base,omitempty"`

	Members []MemberRecord `yaml:"members,omitempty"`
	Nested  []TypeRecord   `yaml:"nested,omitempty"`
}

// MemberRecord declares a field, property, event, method, indexer or
// constructor.
type MemberRecord struct {
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind"`
	Access     string        `yaml:"access,omitempty"`
	Type       string        `yaml:"type,omitempty"`
	Params     []ParamRecord `yaml:"params,omitempty"`
	TypeParams []string      `yaml:"type_params,omitempty"`
	Static     bool          `yaml:"static,omitempty"`
	Virtual    bool          `yaml:"virtual,omitempty"`
	Abstract   bool          `yaml:"abstract,omitempty"`
	Override   bool          `yaml:"override,omitempty"`
	Sealed     bool          `yaml:"sealed,omitempty"`
	New        bool          `yaml:"new,omitempty"`
}

// IsMethodLike reports whether records of this kind may share a name with
// siblings of the same kind (overloads).
func (m *MemberRecord) IsMethodLike() bool {
	switch m.Kind {
	case MemberMethod, MemberIndexer, MemberConstructor:
		return true
	}
	return false
}

// ParamRecord is a method or indexer parameter. In YAML it is either a
// mapping with name and type, or a scalar "Type name" / "Type".
type ParamRecord struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (p *ParamRecord) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		text := strings.TrimSpace(value.Value)
		if text == "" {
			return fmt.Errorf("schema: empty parameter at line %d", value.Line)
		}
		// The name, when present, follows the last space outside any
		// type argument list.
		depth := 0
		split := -1
		for i := 0; i < len(text); i++ {
			switch text[i] {
			case '<':
				depth++
			case '>':
				depth--
			case ' ':
				if depth == 0 {
					split = i
				}
			}
		}
		if split < 0 || strings.HasSuffix(strings.TrimSpace(text[:split]), ",") {
			p.Type = text
			return nil
		}
		p.Type = strings.TrimSpace(text[:split])
		p.Name = strings.TrimSpace(text[split+1:])
		return nil
	}

	type plain ParamRecord
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = ParamRecord(raw)
	return nil
}

// StringList decodes from a scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML accepts "Base" as well as ["Base", "IFoo"].
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("schema: expected string or list at line %d", value.Line)
	}
}
