package emit

import (
	"strings"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/msgfmt"
	"errtax/internal/source"
)

// SpanRule says where a variant's primary span comes from: a marked
// field or the default (empty) span.
type SpanRule struct {
	FromField bool
	Index     int    // индекс помеченного поля, когда FromField
	Name      string // имя поля для именованных форм, иначе ""
}

// VariantDescriptor is everything the materializer and the docs need
// to know about one leaf.
type VariantDescriptor struct {
	Ident    string
	Span     source.Span // span объявления листа, для диагностик
	Shape    ast.FieldShape
	Kind     errtax.Kind
	Number   string
	Code     string // Kind.Short() + Number, например "E01"
	Message  msgfmt.Template
	Label    msgfmt.Template
	Nested   bool
	SpanRule SpanRule
}

// DocLine is one row of the hierarchical listing. Text carries no
// indentation; String prepends two spaces per Indent level.
type DocLine struct {
	Indent int
	Text   string
}

func (l DocLine) String() string {
	return strings.Repeat("  ", l.Indent) + l.Text
}

// Artifact is the compiled form of one taxonomy.
type Artifact struct {
	Name        string
	Generics    string
	Descriptors []VariantDescriptor
	Docs        []DocLine
}

// DocMarkdown joins the doc lines into the markdown listing, one line
// per node, trailing newline included when the listing is non-empty.
func (a *Artifact) DocMarkdown() string {
	if len(a.Docs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range a.Docs {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Descriptor returns the descriptor for ident, or nil.
func (a *Artifact) Descriptor(ident string) *VariantDescriptor {
	for i := range a.Descriptors {
		if a.Descriptors[i].Ident == ident {
			return &a.Descriptors[i]
		}
	}
	return nil
}
