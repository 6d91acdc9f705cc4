// Package ast defines the error tree produced by the taxonomy parser.
//
// A taxonomy is a named tree whose internal nodes (Group) carry shared
// attributes for their children and whose leaves (Leaf) become error
// variants. The parser builds the tree verbatim: attribute values are
// stored as written, and validation happens later in internal/resolve.
package ast

import (
	"errtax/internal/source"
)

// Taxonomy is the root of one parsed source file: name, optional generic
// parameter text, root attributes, and top-level nodes in declared order.
type Taxonomy struct {
	Span     source.Span
	Attrs    []Attr
	Name     Ident
	Generics string // verbatim, including angle brackets; "" если нет
	Roots    []Node
}

// Ident is a named occurrence in the source.
type Ident struct {
	Span source.Span
	Name string
}

// Node is either a *Group or a *Leaf.
type Node interface {
	NodeSpan() source.Span
	NodeAttrs() []Attr
	isNode()
}

// Group carries attributes shared by its children. Groups have no name:
// they exist only to scope attribute inheritance and to structure docs.
type Group struct {
	Span     source.Span
	Attrs    []Attr
	Children []Node
}

// Leaf declares a single error variant.
type Leaf struct {
	Span      source.Span
	Attrs     []Attr
	Name      Ident
	Shape     FieldShape
	SpanField SpanMark
}

func (g *Group) NodeSpan() source.Span { return g.Span }
func (g *Group) NodeAttrs() []Attr     { return g.Attrs }
func (g *Group) isNode()               {}

func (l *Leaf) NodeSpan() source.Span { return l.Span }
func (l *Leaf) NodeAttrs() []Attr     { return l.Attrs }
func (l *Leaf) isNode()               {}

// SpanMark records which field, if any, carries the #[span] marker.
type SpanMark struct {
	Set   bool
	Index int         // индекс в Shape.Fields
	Span  source.Span // span самого маркера
}
