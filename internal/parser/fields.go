package parser

import (
	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/source"
	"errtax/internal/token"
)

// parseNamedFields := '{' (attr* IDENT ':' type ','?)* '}'
func (p *Parser) parseNamedFields(leaf *ast.Leaf) bool {
	open := p.advance() // '{'

	var fields []ast.Field
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		attrs, ok := p.parseAttrs()
		if !ok {
			return false
		}

		nameTok, ok := p.expectIdent(diag.ParseExpectIdent, "expected field name")
		if !ok {
			return false
		}
		if _, ok := p.expect(token.Colon, diag.ParseUnexpectedToken, "expected ':' after field name"); !ok {
			return false
		}
		typ, ok := p.parseTypeText()
		if !ok {
			return false
		}
		if !p.applyFieldAttrs(leaf, attrs, len(fields)) {
			return false
		}

		fields = append(fields, ast.Field{
			Span: nameTok.Span.Cover(typ.Span),
			Name: nameTok.Name,
			Type: typ,
		})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) && !p.at(token.EOF) {
			p.errAtCurrent(diag.ParseExpectComma, "expected ',' between fields")
			return false
		}
	}

	closing, ok := p.expect(token.RBrace, diag.ParseUnclosedFields, "expected '}' to close fields")
	if !ok {
		return false
	}
	leaf.Shape = ast.FieldShape{
		Span:   open.Span.Cover(closing.Span),
		Kind:   ast.ShapeNamed,
		Fields: fields,
	}
	return true
}

// parsePositionalFields := '(' (attr* type ','?)* ')'
func (p *Parser) parsePositionalFields(leaf *ast.Leaf) bool {
	open := p.advance() // '('

	var fields []ast.Field
	for !p.at(token.RParen) && !p.at(token.EOF) {
		attrs, ok := p.parseAttrs()
		if !ok {
			return false
		}
		typ, ok := p.parseTypeText()
		if !ok {
			return false
		}
		if !p.applyFieldAttrs(leaf, attrs, len(fields)) {
			return false
		}

		fields = append(fields, ast.Field{
			Span: typ.Span,
			Type: typ,
		})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RParen) && !p.at(token.EOF) {
			p.errAtCurrent(diag.ParseExpectComma, "expected ',' between fields")
			return false
		}
	}

	closing, ok := p.expect(token.RParen, diag.ParseUnclosedFields, "expected ')' to close fields")
	if !ok {
		return false
	}
	leaf.Shape = ast.FieldShape{
		Span:   open.Span.Cover(closing.Span),
		Kind:   ast.ShapePositional,
		Fields: fields,
	}
	return true
}

// parseTypeText consumes one field type as opaque text. Angle
// brackets, parens and square brackets are depth-tracked, so a comma
// inside Option<int, string> does not end the type. The text is cut
// verbatim from the source file.
func (p *Parser) parseTypeText() (ast.TypeText, bool) {
	var (
		first source.Span
		last  source.Span
		depth int
		seen  bool
	)
loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Lt, token.LParen, token.LBracket:
			depth++
		case token.Gt, token.RParen, token.RBracket:
			if depth == 0 {
				break loop
			}
			depth--
		case token.Comma:
			if depth == 0 {
				break loop
			}
		case token.Ident, token.Dot, token.Star, token.Colon:
			// plain path pieces
		default:
			break loop
		}
		if !seen {
			first = tok.Span
			seen = true
		}
		last = tok.Span
		p.advance()
	}

	if !seen {
		p.errAtCurrent(diag.ParseExpectFieldType, "expected field type")
		return ast.TypeText{}, false
	}
	span := first.Cover(last)
	return ast.TypeText{Span: span, Text: p.snippet(span)}, true
}

// parseGenerics captures `<...>` verbatim, angle brackets included.
// The content is never interpreted; it only travels to docs and to
// the generated code header.
func (p *Parser) parseGenerics() (string, bool) {
	open := p.advance() // '<'
	depth := 1
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			p.err(diag.ParseUnclosedGenerics, open.Span, "expected '>' to close generic parameters")
			return "", false
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				p.advance()
				return p.snippet(open.Span.Cover(tok.Span)), true
			}
		}
		p.advance()
	}
}
