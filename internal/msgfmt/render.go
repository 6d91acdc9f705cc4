package msgfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Args supplies values for rendering. Именованные значения ищутся по
// имени плейсхолдера; позиционные — по индексу поля, что работает и
// для именованных полей (их индекс разрешён при компиляции).
type Args struct {
	Named      map[string]any
	Positional []any
}

// Render substitutes placeholders with values from args. The `?`
// suffix quotes strings (%q) and prints everything else via %v; any
// other suffix renders as plain %v. A placeholder with no matching
// value keeps its source text, so rendering with zero Args shows the
// template as written.
func (t Template) Render(args Args) string {
	var b strings.Builder
	b.Grow(len(t.Source))
	for _, p := range t.parts {
		if p.ref < 0 {
			b.WriteString(p.text)
			continue
		}
		ref := t.refs[p.ref]
		v, ok := lookupArg(args, ref)
		if !ok {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(formatValue(v, ref.Suffix))
	}
	return b.String()
}

func lookupArg(args Args, ref FieldRef) (any, bool) {
	if ref.Named {
		if v, ok := args.Named[ref.Name]; ok {
			return v, true
		}
	}
	if ref.Index >= 0 && ref.Index < len(args.Positional) {
		return args.Positional[ref.Index], true
	}
	return nil, false
}

func formatValue(v any, suffix string) string {
	if suffix == "?" {
		if s, ok := v.(string); ok {
			return strconv.Quote(s)
		}
	}
	return fmt.Sprint(v)
}

// GoFormat returns a fmt.Sprintf format string plus the refs to pass
// as arguments, in placeholder order. `?` maps to %q, everything else
// to %v; literal percent signs are doubled so the format round-trips.
func (t Template) GoFormat() (string, []FieldRef) {
	var b strings.Builder
	refs := make([]FieldRef, 0, len(t.refs))
	for _, p := range t.parts {
		if p.ref < 0 {
			b.WriteString(strings.ReplaceAll(p.text, "%", "%%"))
			continue
		}
		ref := t.refs[p.ref]
		if ref.Suffix == "?" {
			b.WriteString("%q")
		} else {
			b.WriteString("%v")
		}
		refs = append(refs, ref)
	}
	return b.String(), refs
}
