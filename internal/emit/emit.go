package emit

import (
	"errors"
	"fmt"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/msgfmt"
	"errtax/internal/resolve"
	"errtax/internal/source"
)

// Emit resolves and folds the taxonomy into an Artifact. The first
// attribute, template or emission error aborts; warnings go to rep.
func Emit(tax *ast.Taxonomy, rep diag.Reporter) (*Artifact, error) {
	w, err := resolve.NewWalk(tax, rep)
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Name:     tax.Name.Name,
		Generics: tax.Generics,
	}

	for w.Next() {
		item := w.Item()
		art.Docs = append(art.Docs, docLine(item))
		if item.Leaf == nil {
			continue
		}
		desc, err := describe(item, rep)
		if err != nil {
			return nil, err
		}
		art.Descriptors = append(art.Descriptors, desc)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return art, nil
}

// describe builds the descriptor for one leaf item.
func describe(item resolve.Item, rep diag.Reporter) (VariantDescriptor, error) {
	leaf := item.Leaf
	cfg := item.Config

	// Kind по умолчанию Error: нулевое значение errtax.Kind.
	kind := cfg.Kind.Value
	desc := VariantDescriptor{
		Ident:  leaf.Name.Name,
		Span:   leaf.Span,
		Shape:  leaf.Shape,
		Kind:   kind,
		Number: cfg.Number,
		Code:   kind.Short() + cfg.Number,
		Nested: cfg.Nested,
	}

	if !cfg.Msg.Set {
		return desc, fail(rep, diag.EmitMissingMsg, leaf.Name.Span,
			fmt.Sprintf("variant %s has no message; add #[msg = \"...\"]", leaf.Name.Name))
	}
	msg, err := msgfmt.Compile(cfg.Msg.Value, cfg.Msg.Span, leaf.Shape)
	if err != nil {
		return desc, report(rep, err)
	}
	desc.Message = msg

	if cfg.Label.Set {
		label, err := msgfmt.Compile(cfg.Label.Value, cfg.Label.Span, leaf.Shape)
		if err != nil {
			return desc, report(rep, err)
		}
		desc.Label = label
	} else {
		// Уже скомпилированный msg переиспользуется как есть.
		desc.Label = msg
	}

	if leaf.SpanField.Set {
		rule := SpanRule{FromField: true, Index: leaf.SpanField.Index}
		if leaf.Shape.Kind == ast.ShapeNamed {
			rule.Name = leaf.Shape.Fields[rule.Index].Name
		}
		desc.SpanRule = rule
	}
	return desc, nil
}

// docLine renders one node of the hierarchical listing. Kind defaults
// here too: строка документации не должна зависеть от того, дошли ли
// мы до эмиссии ошибок.
func docLine(item resolve.Item) DocLine {
	cfg := item.Config
	kind := errtax.KindError
	if cfg.Kind.Set {
		kind = cfg.Kind.Value
	}
	code := kind.Short() + cfg.Number

	ident := ""
	if item.Leaf != nil {
		ident = item.Leaf.Name.Name
	}

	var text string
	switch {
	case ident != "" && cfg.Msg.Set:
		text = fmt.Sprintf("- `%s`(**%s**): %s", code, ident, cfg.Msg.Value)
	case cfg.Msg.Set:
		text = fmt.Sprintf("- `%s`: %s", code, cfg.Msg.Value)
	case ident != "":
		text = fmt.Sprintf("- `%s`(**%s**)", code, ident)
	default:
		text = fmt.Sprintf("- `%s`", code)
	}
	return DocLine{Indent: cfg.Depth - 2, Text: text}
}

// report forwards an already built *diag.Error to rep and returns it.
func report(rep diag.Reporter, err error) error {
	var de *diag.Error
	if errors.As(err, &de) && rep != nil {
		rep.Report(de.Diag.Code, de.Diag.Severity, de.Diag.Primary, de.Diag.Message, de.Diag.Notes)
	}
	return err
}

func fail(rep diag.Reporter, code diag.Code, span source.Span, msg string) error {
	if rep != nil {
		rep.Report(code, diag.SevError, span, msg, nil)
	}
	return &diag.Error{Diag: diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  msg,
		Primary:  span,
	}}
}
