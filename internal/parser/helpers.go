package parser

import (
	"fmt"
	"strings"

	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/source"
	"errtax/internal/token"
)

func (p *Parser) peek() token.Token { return p.lx.Peek() }

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// advance consumes the current token and remembers its span, so that
// diagnostics at EOF can point just past the last real token.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan picks a span for reporting at tok. Для токенов
// нулевой ширины (EOF) берём позицию сразу после последнего
// реального токена.
func (p *Parser) diagnosticSpan(tok token.Token) source.Span {
	if tok.Kind != token.EOF && !tok.Span.Empty() {
		return tok.Span
	}
	if p.lastSpan.Empty() && p.lastSpan.Start == 0 {
		return source.Span{File: p.file.ID}
	}
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// expect consumes a token of kind k or reports code and fails.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errAtCurrent(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan(p.peek())}, false
}

func (p *Parser) expectIdent(code diag.Code, msg string) (ast.Ident, bool) {
	tok, ok := p.expect(token.Ident, code, msg)
	if !ok {
		return ast.Ident{}, false
	}
	return ast.Ident{Span: tok.Span, Name: tok.Text}, true
}

// errAtCurrent reports an error at the current token, appending what
// was actually found.
func (p *Parser) errAtCurrent(code diag.Code, msg string) {
	tok := p.peek()
	p.err(code, p.diagnosticSpan(tok), fmt.Sprintf("%s, found %s", msg, tok.Kind))
}

func (p *Parser) err(code diag.Code, span source.Span, msg string) {
	p.emit(code, diag.SevError, span, msg, nil)
}

func (p *Parser) errNote(code diag.Code, span source.Span, msg string, notes ...diag.Note) {
	p.emit(code, diag.SevError, span, msg, notes)
}

func (p *Parser) warn(code diag.Code, span source.Span, msg string) {
	p.emit(code, diag.SevWarning, span, msg, nil)
}

// emit is the single funnel for parser and lexer diagnostics. The
// first error flips the parser into the failed state and everything
// after it is dropped: при каскаде интересна только первая ошибка.
func (p *Parser) emit(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if p.failed {
		return
	}
	if sev == diag.SevError {
		p.failed = true
		p.firstErr = diag.Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Primary:  primary,
			Notes:    notes,
		}
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, sev, primary, msg, notes)
	}
}

// snippet returns the verbatim source under span.
func (p *Parser) snippet(span source.Span) string {
	return p.file.Snippet(span)
}

// unquote strips the surrounding quotes from a string literal and
// resolves the escape set \\ \" \n \t \r. Unknown escapes keep the
// escaped character as-is, so "\q" becomes "q".
func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if !strings.Contains(text, `\`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			b.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}
