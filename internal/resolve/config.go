package resolve

import (
	"fmt"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/source"
)

// Text is an optional string attribute value plus the span of the
// literal that set it. Спан нужен компилятору шаблонов: ошибки в
// унаследованном msg должны указывать на строку предка.
type Text struct {
	Set   bool
	Value string
	Span  source.Span
}

// KindOpt is a tri-state kind: unset until some ancestor-or-self sets
// it. The default is applied at emission, not here.
type KindOpt struct {
	Set   bool
	Value errtax.Kind
}

// Config is the resolved attribute state of one node. It is a value
// type: children derive copies, a child never mutates its parent.
type Config struct {
	Kind   KindOpt
	Number string
	Msg    Text
	Label  Text
	Depth  int
	Nested bool
}

// merge derives the node's Config from the parent's. node is nil when
// processing the taxonomy's own root attributes. Validation errors are
// reported to rep and returned as *diag.Error.
func merge(parent Config, node ast.Node, attrs []ast.Attr, rep diag.Reporter) (Config, error) {
	cfg := parent
	cfg.Depth++
	cfg.Nested = false

	for _, attr := range attrs {
		switch attr.Key {
		case ast.KeyKind:
			if err := needValue(attr, rep); err != nil {
				return cfg, err
			}
			kind, ok := errtax.ParseKind(attr.Value.Value)
			if !ok {
				return cfg, fail(rep, diag.AttrBadKind, attr.Value.Span,
					fmt.Sprintf("kind must be either \"Error\" or \"Warn\", got %q", attr.Value.Value))
			}
			cfg.Kind = KindOpt{Set: true, Value: kind}

		case ast.KeyNumber:
			if err := needValue(attr, rep); err != nil {
				return cfg, err
			}
			if !digitsOnly(attr.Value.Value) {
				return cfg, fail(rep, diag.AttrBadNumber, attr.Value.Span,
					fmt.Sprintf("number fragment must contain only digits, got %q", attr.Value.Value))
			}
			// Повторные #[number] на одном узле дописываются по порядку.
			cfg.Number += attr.Value.Value

		case ast.KeyMsg:
			if err := needValue(attr, rep); err != nil {
				return cfg, err
			}
			cfg.Msg = Text{Set: true, Value: attr.Value.Value, Span: attr.Value.Span}

		case ast.KeyLabel:
			if err := needValue(attr, rep); err != nil {
				return cfg, err
			}
			cfg.Label = Text{Set: true, Value: attr.Value.Value, Span: attr.Value.Span}

		case ast.KeyNested:
			if attr.HasValue {
				return cfg, fail(rep, diag.AttrUnexpectedValue, attr.Span,
					"attribute \"nested\" does not take a value")
			}
			leaf, ok := node.(*ast.Leaf)
			if !ok {
				return cfg, fail(rep, diag.AttrNestedOnGroup, attr.Span,
					"\"nested\" is only valid on variants")
			}
			if leaf.Shape.Len() != 1 {
				return cfg, fail(rep, diag.AttrNestedFieldCount, attr.Span,
					fmt.Sprintf("nested variant %s must have exactly one field, found %d",
						leaf.Name.Name, leaf.Shape.Len()))
			}
			cfg.Nested = true

		default:
			return cfg, fail(rep, diag.AttrUnknownKey, attr.KeySpan,
				fmt.Sprintf("unknown attribute key %q", attr.Key))
		}
	}
	return cfg, nil
}

func needValue(attr ast.Attr, rep diag.Reporter) error {
	if attr.HasValue {
		return nil
	}
	return fail(rep, diag.AttrMissingValue, attr.Span,
		fmt.Sprintf("attribute %q requires a value", attr.Key))
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
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
