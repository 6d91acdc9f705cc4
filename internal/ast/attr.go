package ast

import (
	"errtax/internal/source"
)

// Attr описывает атрибут вида `#[key = "value"]` или флаг `#[key]`.
// Ключ хранится как написан; классификация ключей — забота резолвера.
type Attr struct {
	Span     source.Span
	KeySpan  source.Span
	Key      string
	HasValue bool
	Value    TextLit // только если HasValue
}

// TextLit is an unquoted string literal together with the span of the
// original quoted token.
type TextLit struct {
	Span  source.Span
	Value string
}

// Node-level attribute keys understood by the resolver.
const (
	KeyKind   = "kind"
	KeyNumber = "number"
	KeyMsg    = "msg"
	KeyLabel  = "label"
	KeyNested = "nested"
)

// KeySpanField is the field-level marker key.
const KeySpanField = "span"
