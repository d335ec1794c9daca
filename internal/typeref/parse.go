package typeref

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrEmptyInput     = errors.New("typeref: empty input")
	ErrUnexpectedEnd  = errors.New("typeref: unexpected end of input")
	ErrUnexpectedChar = errors.New("typeref: unexpected character")
	ErrEmptyArguments = errors.New("typeref: empty type argument list")
)

// SyntaxError reports where parsing stopped.
type SyntaxError struct {
	Input  string
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d in %q", e.Err, e.Offset, e.Input)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse parses a type reference:
//
//	ref     := segment { "." segment }
//	segment := ident [ "<" ref { "," ref } ">" ]
//
// Whitespace between tokens is ignored.
func Parse(input string) (*QualifiedName, error) {
	p := &parser{input: input}
	p.skipSpace()
	if p.eof() {
		return nil, ErrEmptyInput
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf(ErrUnexpectedChar)
	}
	return name, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(input string) *QualifiedName {
	name, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return name
}

// parser holds parser state.
type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consume() byte {
	c := p.input[p.pos]
	p.pos++
	return c
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(err error) error {
	if p.eof() {
		err = ErrUnexpectedEnd
	}
	return &SyntaxError{Input: p.input, Offset: p.pos, Err: err}
}

func (p *parser) parseQualifiedName() (*QualifiedName, error) {
	name := &QualifiedName{}
	for {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		name.Components = append(name.Components, seg)

		p.skipSpace()
		if p.peek() != '.' {
			return name, nil
		}
		p.consume()
	}
}

func (p *parser) parseSegment() (*Segment, error) {
	p.skipSpace()
	ident, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	seg := &Segment{Name: ident}

	p.skipSpace()
	if p.peek() != '<' {
		return seg, nil
	}
	p.consume()

	p.skipSpace()
	if p.peek() == '>' {
		return nil, p.errorf(ErrEmptyArguments)
	}

	for {
		arg, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		seg.Args = append(seg.Args, arg)

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(ErrUnexpectedEnd)
		}
		switch p.consume() {
		case ',':
			continue
		case '>':
			return seg, nil
		default:
			p.pos--
			return nil, p.errorf(ErrUnexpectedChar)
		}
	}
}

func (p *parser) parseIdent() (string, error) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isIdentStart(c) || (p.pos > start && isDigit(c)) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf(ErrUnexpectedChar)
	}
	return p.input[start:p.pos], nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
