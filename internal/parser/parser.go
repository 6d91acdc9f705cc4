package parser

import (
	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/lexer"
	"errtax/internal/source"
	"errtax/internal/token"
)

// Options управляет разбором одного файла.
type Options struct {
	// Reporter receives every diagnostic, warnings included.
	// May be nil; the first error is kept internally either way.
	Reporter diag.Reporter
}

// Parser is a single-use recursive descent parser over one file.
type Parser struct {
	lx   *lexer.Lexer
	file *source.File
	opts Options

	// lastSpan помогает строить span для диагностик, когда текущий
	// токен нулевой ширины (EOF).
	lastSpan source.Span

	failed   bool
	firstErr diag.Diagnostic
}

func newParser(file *source.File, opts Options) *Parser {
	p := &Parser{
		file: file,
		opts: opts,
	}
	p.lx = lexer.New(file, lexer.Options{Reporter: lexReporter{p}})
	return p
}

// lexReporter routes lexer diagnostics through the parser so that a
// lex error aborts the parse exactly like a parse error does.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.p.emit(code, sev, primary, msg, notes)
}

// ParseFile parses one taxonomy definition from file.
//
// On success the taxonomy is returned and err is nil. On the first
// syntax error parsing stops and err is a *diag.Error wrapping the
// diagnostic; the same diagnostic has already been handed to
// opts.Reporter. Warnings never produce an error.
func ParseFile(file *source.File, opts Options) (*ast.Taxonomy, error) {
	p := newParser(file, opts)
	tax, ok := p.parseTaxonomy()
	// Лексер мог сообщить об ошибке, вернув при этом терпимый токен;
	// failed ловит и этот случай.
	if !ok || p.failed {
		return nil, &diag.Error{Diag: p.firstErr}
	}
	return tax, nil
}

// parseTaxonomy := attr* IDENT generics? '{' nodes '}' EOF
func (p *Parser) parseTaxonomy() (*ast.Taxonomy, bool) {
	start := p.peek().Span

	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}

	name, ok := p.expectIdent(diag.ParseExpectTaxonomyName, "expected taxonomy name")
	if !ok {
		return nil, false
	}

	var generics string
	if p.at(token.Lt) {
		generics, ok = p.parseGenerics()
		if !ok {
			return nil, false
		}
	}

	if _, ok := p.expect(token.LBrace, diag.ParseUnexpectedToken, "expected '{' to open taxonomy body"); !ok {
		return nil, false
	}

	roots, ok := p.parseNodes()
	if !ok {
		return nil, false
	}

	closing, ok := p.expect(token.RBrace, diag.ParseUnclosedBody, "expected '}' to close taxonomy body")
	if !ok {
		return nil, false
	}

	if !p.at(token.EOF) {
		p.errAtCurrent(diag.ParseUnexpectedToken, "expected end of file after taxonomy")
		return nil, false
	}

	return &ast.Taxonomy{
		Span:     start.Cover(closing.Span),
		Attrs:    attrs,
		Name:     name,
		Generics: generics,
		Roots:    roots,
	}, true
}

// parseNodes parses a comma separated node list. The caller owns the
// surrounding braces; the list stops before '}' or EOF. A trailing
// comma after the last node is fine.
func (p *Parser) parseNodes() ([]ast.Node, bool) {
	var nodes []ast.Node
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		node, ok := p.parseNode()
		if !ok {
			return nil, false
		}
		nodes = append(nodes, node)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		// На EOF выходим молча: про незакрытую скобку скажет caller.
		if !p.at(token.RBrace) && !p.at(token.EOF) {
			p.errAtCurrent(diag.ParseExpectComma, "expected ',' between nodes")
			return nil, false
		}
	}
	return nodes, true
}

// parseNode := attr* (group | leaf)
func (p *Parser) parseNode() (ast.Node, bool) {
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	switch {
	case p.at(token.LBrace):
		return p.parseGroup(attrs)
	case p.at(token.Ident):
		return p.parseLeaf(attrs)
	default:
		p.errAtCurrent(diag.ParseUnexpectedToken, "expected a group '{' or a variant name")
		return nil, false
	}
}

// parseGroup := '{' nodes '}'
func (p *Parser) parseGroup(attrs []ast.Attr) (ast.Node, bool) {
	open := p.advance() // '{'
	children, ok := p.parseNodes()
	if !ok {
		return nil, false
	}
	closing, ok := p.expect(token.RBrace, diag.ParseUnclosedBody, "expected '}' to close group")
	if !ok {
		return nil, false
	}
	if len(children) == 0 {
		p.warn(diag.ParseEmptyGroup, open.Span.Cover(closing.Span), "group has no variants")
	}
	return &ast.Group{
		Span:     open.Span.Cover(closing.Span),
		Attrs:    attrs,
		Children: children,
	}, true
}

// parseLeaf := IDENT fields?
func (p *Parser) parseLeaf(attrs []ast.Attr) (ast.Node, bool) {
	nameTok := p.advance()
	name := ast.Ident{Span: nameTok.Span, Name: nameTok.Text}

	leaf := &ast.Leaf{
		Span:  nameTok.Span,
		Attrs: attrs,
		Name:  name,
		Shape: ast.FieldShape{Span: nameTok.Span, Kind: ast.ShapeUnit},
	}

	switch {
	case p.at(token.LBrace):
		if !p.parseNamedFields(leaf) {
			return nil, false
		}
	case p.at(token.LParen):
		if !p.parsePositionalFields(leaf) {
			return nil, false
		}
	}
	leaf.Span = nameTok.Span.Cover(leaf.Shape.Span)
	return leaf, true
}
