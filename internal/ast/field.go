package ast

import (
	"golang.org/x/text/unicode/norm"

	"errtax/internal/source"
)

// ShapeKind distinguishes the three payload layouts a variant may declare.
type ShapeKind uint8

const (
	// ShapeUnit means the variant has no payload.
	ShapeUnit ShapeKind = iota
	// ShapeNamed means `{ name: Type, ... }`.
	ShapeNamed
	// ShapePositional means `(Type, ...)`.
	ShapePositional
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeUnit:
		return "unit"
	case ShapeNamed:
		return "named"
	case ShapePositional:
		return "positional"
	}
	return "unknown"
}

// Field is one payload field. Name пустой для позиционных полей.
type Field struct {
	Span source.Span
	Name string
	Type TypeText
}

// TypeText is the verbatim type expression as written in the source.
// The compiler never interprets it; only the Go materializer copies it out.
type TypeText struct {
	Span source.Span
	Text string
}

// FieldShape is the declared payload layout of a leaf.
type FieldShape struct {
	Span   source.Span
	Kind   ShapeKind
	Fields []Field
}

// Len returns the number of declared fields.
func (s FieldShape) Len() int { return len(s.Fields) }

// Index returns the position of the named field, comparing names in NFC
// so that source files may mix Unicode normal forms. Returns -1 when the
// field is not declared or the shape is not named.
func (s FieldShape) Index(name string) int {
	if s.Kind != ShapeNamed {
		return -1
	}
	want := norm.NFC.String(name)
	for i, f := range s.Fields {
		if norm.NFC.String(f.Name) == want {
			return i
		}
	}
	return -1
}
