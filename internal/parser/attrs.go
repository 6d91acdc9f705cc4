package parser

import (
	"fmt"

	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/token"
)

// parseAttrs собирает подряд идущие атрибуты. Их валидацией (ключи,
// значения, дубликаты) занимается resolve; парсер проверяет только
// форму.
func (p *Parser) parseAttrs() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.at(token.Hash) {
		attr, ok := p.parseAttr()
		if !ok {
			return nil, false
		}
		attrs = append(attrs, attr)
	}
	return attrs, true
}

// parseAttr := '#' '[' IDENT ('=' STRING)? ']'
func (p *Parser) parseAttr() (ast.Attr, bool) {
	hash := p.advance() // '#'

	if _, ok := p.expect(token.LBracket, diag.ParseUnexpectedToken, "expected '[' after '#'"); !ok {
		return ast.Attr{}, false
	}

	keyTok, ok := p.expect(token.Ident, diag.ParseExpectAttrKey, "expected attribute name")
	if !ok {
		return ast.Attr{}, false
	}

	attr := ast.Attr{
		KeySpan: keyTok.Span,
		Key:     keyTok.Text,
	}

	if p.at(token.Assign) {
		p.advance()
		valTok, ok := p.expect(token.StringLit, diag.ParseExpectAttrValue, "expected string value after '='")
		if !ok {
			return ast.Attr{}, false
		}
		attr.HasValue = true
		attr.Value = ast.TextLit{
			Span:  valTok.Span,
			Value: unquote(valTok.Text),
		}
	}

	closing, ok := p.expect(token.RBracket, diag.ParseUnclosedAttr, "expected ']' to close attribute")
	if !ok {
		return ast.Attr{}, false
	}

	attr.Span = hash.Span.Cover(closing.Span)
	return attr, true
}

// applyFieldAttrs interprets attributes attached to a single field.
// The only legal field attribute is the bare span marker; everything
// else is rejected here rather than in resolve, so the error lands on
// the field, not on the leaf.
func (p *Parser) applyFieldAttrs(leaf *ast.Leaf, attrs []ast.Attr, fieldIndex int) bool {
	for _, attr := range attrs {
		if attr.Key != ast.KeySpanField {
			p.err(diag.ParseBadFieldAttr, attr.Span,
				fmt.Sprintf("unknown field attribute %q", attr.Key))
			return false
		}
		if attr.HasValue {
			p.err(diag.ParseBadFieldAttr, attr.Span,
				"field attribute \"span\" takes no value")
			return false
		}
		if leaf.SpanField.Set {
			p.errNote(diag.ParseDuplicateSpanField, attr.Span,
				"duplicate span marker on variant "+leaf.Name.Name,
				diag.Note{Span: leaf.SpanField.Span, Msg: "first span marker is here"})
			return false
		}
		leaf.SpanField = ast.SpanMark{Set: true, Index: fieldIndex, Span: attr.Span}
	}
	return true
}
