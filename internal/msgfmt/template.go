package msgfmt

import (
	"fmt"
	"strconv"

	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/source"
)

// FieldRef is one placeholder's resolved target field.
type FieldRef struct {
	Named  bool
	Name   string // как написано в шаблоне; пусто для позиционных
	Index  int    // индекс поля; для именованных — разрешённый индекс
	Suffix string // текст после ':', без самого ':', "" если нет
}

// part is either a literal run (ref < 0, text already unescaped) or a
// placeholder (text keeps the verbatim source for fallback rendering).
type part struct {
	text string
	ref  int
}

// Template is a compiled message template. The zero value renders as
// the empty string.
type Template struct {
	Source string
	Span   source.Span
	parts  []part
	refs   []FieldRef
}

// HasPlaceholders reports whether the template references any field.
func (t Template) HasPlaceholders() bool { return len(t.refs) > 0 }

// Refs returns the placeholder targets in order of appearance.
// The slice is shared; callers must not mutate it.
func (t Template) Refs() []FieldRef { return t.refs }

// Compile scans text and validates every placeholder against shape.
// span is the source location of the template literal; all errors a
// template can produce point at it. The returned error is *diag.Error.
func Compile(text string, span source.Span, shape ast.FieldShape) (Template, error) {
	t := Template{Source: text, Span: span}
	var lit []byte

	flushLit := func() {
		if len(lit) > 0 {
			t.parts = append(t.parts, part{text: string(lit), ref: -1})
			lit = lit[:0]
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit = append(lit, '{')
				i += 2
				continue
			}
			start := i
			ref, next, err := scanPlaceholder(text, i, span, shape)
			if err != nil {
				return Template{}, err
			}
			flushLit()
			t.parts = append(t.parts, part{text: text[start:next], ref: len(t.refs)})
			t.refs = append(t.refs, ref)
			i = next

		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit = append(lit, '}')
				i += 2
				continue
			}
			return Template{}, tplErr(diag.TemplateStrayClose, span,
				"stray '}' in template; write '}}' for a literal brace")

		default:
			lit = append(lit, c)
			i++
		}
	}
	flushLit()
	return t, nil
}

// scanPlaceholder parses `{ref}` or `{ref:suffix}` starting at the
// opening brace and returns the validated ref plus the position just
// past the closing brace.
func scanPlaceholder(text string, open int, span source.Span, shape ast.FieldShape) (FieldRef, int, error) {
	i := open + 1
	refStart := i
	for i < len(text) && text[i] != ':' && text[i] != '}' && text[i] != '{' {
		i++
	}
	if i >= len(text) || text[i] == '{' {
		return FieldRef{}, 0, tplErr(diag.TemplateUnterminated, span,
			"unterminated placeholder; write '{{' for a literal brace")
	}
	refText := text[refStart:i]

	var suffix string
	if text[i] == ':' {
		i++
		sufStart := i
		for i < len(text) && text[i] != '}' && text[i] != '{' {
			i++
		}
		if i >= len(text) || text[i] == '{' {
			return FieldRef{}, 0, tplErr(diag.TemplateUnterminated, span,
				"unterminated placeholder; write '{{' for a literal brace")
		}
		suffix = text[sufStart:i]
	}
	i++ // closing '}'

	ref, err := classifyRef(refText, suffix, span, shape)
	if err != nil {
		return FieldRef{}, 0, err
	}
	return ref, i, nil
}

// classifyRef decides whether refText is a positional index or a field
// name and checks it against the declared shape.
func classifyRef(refText, suffix string, span source.Span, shape ast.FieldShape) (FieldRef, error) {
	if refText == "" {
		return FieldRef{}, tplErr(diag.TemplateMissingFieldRef, span,
			"placeholder must reference a field by name or index")
	}
	if shape.Kind == ast.ShapeUnit {
		return FieldRef{}, tplErr(diag.TemplateOnUnitShape, span,
			fmt.Sprintf("placeholder {%s} on a variant without fields", refText))
	}

	switch kindOfRef(refText) {
	case refPositional:
		idx, err := strconv.Atoi(refText)
		if err != nil {
			return FieldRef{}, tplErr(diag.TemplateBadIndex, span,
				fmt.Sprintf("malformed field reference {%s}", refText))
		}
		if shape.Kind == ast.ShapeNamed {
			return FieldRef{}, tplErr(diag.TemplateShapeMismatch, span,
				fmt.Sprintf("positional placeholder {%d} on named fields; reference the field by name", idx))
		}
		if idx >= shape.Len() {
			return FieldRef{}, tplErr(diag.TemplateIndexOutOfRange, span,
				fmt.Sprintf("placeholder {%d} out of range: variant has %d field(s)", idx, shape.Len()))
		}
		return FieldRef{Index: idx, Suffix: suffix}, nil

	case refNamed:
		if shape.Kind == ast.ShapePositional {
			return FieldRef{}, tplErr(diag.TemplateShapeMismatch, span,
				fmt.Sprintf("named placeholder {%s} on positional fields; reference the field by index", refText))
		}
		idx := shape.Index(refText)
		if idx < 0 {
			return FieldRef{}, tplErr(diag.TemplateUnknownField, span,
				fmt.Sprintf("placeholder {%s} does not match any declared field", refText))
		}
		return FieldRef{Named: true, Name: refText, Index: idx, Suffix: suffix}, nil

	default:
		return FieldRef{}, tplErr(diag.TemplateBadIndex, span,
			fmt.Sprintf("malformed field reference {%s}", refText))
	}
}

func tplErr(code diag.Code, span source.Span, msg string) error {
	return &diag.Error{Diag: diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  msg,
		Primary:  span,
	}}
}
