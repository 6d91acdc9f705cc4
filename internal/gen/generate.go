package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/emit"
	"errtax/internal/msgfmt"
)

// Options управляет материализацией.
type Options struct {
	// Package is the package clause of the generated file.
	// Empty means "errdefs".
	Package string

	// RuntimePath is the import path of the errtax runtime package.
	// Empty means "errtax".
	RuntimePath string
}

const defaultPackage = "errdefs"

const defaultRuntime = "errtax"

// Generate renders the artifact as a gofmt-formatted Go source file.
//
// Output is deterministic: variants keep their declaration order and
// nothing is emitted from a map. If go/format rejects the rendered
// text (a field type that is not valid Go, say), the unformatted
// source is returned together with the error so the caller can show
// the broken file instead of nothing.
func Generate(art *emit.Artifact, opts Options) ([]byte, error) {
	if art.Generics != "" {
		return nil, fmt.Errorf("taxonomy %s is generic (%s); Go output does not support type parameters", art.Name, art.Generics)
	}
	if opts.Package == "" {
		opts.Package = defaultPackage
	}
	if opts.RuntimePath == "" {
		opts.RuntimePath = defaultRuntime
	}

	data, err := buildFileData(art, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", art.Name, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		// Неотформатированный текст полезнее пустого результата.
		return buf.Bytes(), fmt.Errorf("format %s: %w", art.Name, err)
	}
	return src, nil
}

type fileData struct {
	Package  string
	Runtime  string // import path
	RT       string // package qualifier, last element of Runtime
	Name     string
	Doc      []string // ready comment lines, "//"-prefixed
	NeedsFmt bool
	Variants []variantData
}

type variantData struct {
	Ident     string
	Doc       string // one sanitized line, no comment marker
	Fields    []fieldData
	Kind      string // qualified constant, e.g. errtax.KindError
	Number    string // quoted literal
	Code      string // quoted literal
	SpanExpr  string
	MsgExpr   string
	LabelExpr string
}

type fieldData struct {
	Name string
	Type string
}

func buildFileData(art *emit.Artifact, opts Options) (fileData, error) {
	data := fileData{
		Package: opts.Package,
		Runtime: opts.RuntimePath,
		RT:      path.Base(opts.RuntimePath),
		Name:    art.Name,
	}

	data.Doc = append(data.Doc, "// "+data.Name+" is the closed set of variants declared by the "+data.Name+" taxonomy.")
	if len(art.Docs) > 0 {
		data.Doc = append(data.Doc, "//")
		for _, line := range art.Docs {
			data.Doc = append(data.Doc, "// "+sanitize(line.String()))
		}
	}

	for i := range art.Descriptors {
		v, err := buildVariant(&art.Descriptors[i], data.RT)
		if err != nil {
			return fileData{}, err
		}
		if strings.HasPrefix(v.MsgExpr, "fmt.") || strings.HasPrefix(v.LabelExpr, "fmt.") {
			data.NeedsFmt = true
		}
		data.Variants = append(data.Variants, v)
	}
	return data, nil
}

func buildVariant(d *emit.VariantDescriptor, rt string) (variantData, error) {
	fields, err := buildFields(d, rt)
	if err != nil {
		return variantData{}, err
	}
	v := variantData{
		Ident:     d.Ident,
		Doc:       variantDoc(d),
		Fields:    fields,
		Kind:      rt + "." + kindConst(d),
		Number:    strconv.Quote(d.Number),
		Code:      strconv.Quote(d.Code),
		SpanExpr:  spanExpr(d, rt),
		MsgExpr:   templateExpr(d.Message, d.Shape),
		LabelExpr: templateExpr(d.Label, d.Shape),
	}
	return v, nil
}

// variantDoc is the single doc line above the variant struct,
// mirroring the taxonomy documentation entry for the same leaf.
func variantDoc(d *emit.VariantDescriptor) string {
	return fmt.Sprintf("%s: `%s`: %s", d.Ident, d.Code, sanitize(d.Message.Source))
}

func kindConst(d *emit.VariantDescriptor) string {
	if d.Kind == errtax.KindWarn {
		return "KindWarn"
	}
	return "KindError"
}

// reservedFieldNames would collide with the methods every variant
// carries.
var reservedFieldNames = map[string]bool{
	"Kind":           true,
	"Number":         true,
	"Code":           true,
	"PrimarySpan":    true,
	"PrimaryMessage": true,
	"PrimaryLabel":   true,
	"Error":          true,
}

func buildFields(d *emit.VariantDescriptor, rt string) ([]fieldData, error) {
	fields := make([]fieldData, 0, d.Shape.Len())
	seen := make(map[string]int, d.Shape.Len())
	for i, f := range d.Shape.Fields {
		name := goFieldName(d.Shape, i)
		if reservedFieldNames[name] {
			return nil, fmt.Errorf("variant %s: field %q collides with the generated %s method", d.Ident, f.Name, name)
		}
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("variant %s: fields %q and %q both map to Go field %s", d.Ident, d.Shape.Fields[prev].Name, f.Name, name)
		}
		seen[name] = i
		fd := fieldData{Name: name, Type: f.Type.Text}
		if d.SpanRule.FromField && d.SpanRule.Index == i {
			fd.Type = rt + ".SimpleSpan"
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

// goFieldName maps a taxonomy field to its Go struct field:
// positional fields become F0..Fn, named fields get their first
// rune upper-cased so the struct exports them. Always goes through
// the declared shape, a template may spell the same name in another
// Unicode normalization form.
func goFieldName(shape ast.FieldShape, index int) string {
	if shape.Kind == ast.ShapePositional {
		return "F" + strconv.Itoa(index)
	}
	return exportName(shape.Fields[index].Name)
}

func exportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError && size <= 1 {
		return name
	}
	up := unicode.ToUpper(r)
	if up == r {
		return name
	}
	return string(up) + name[size:]
}

func spanExpr(d *emit.VariantDescriptor, rt string) string {
	if !d.SpanRule.FromField {
		return rt + ".SimpleSpan{}"
	}
	if d.Shape.Kind == ast.ShapeNamed {
		return "v." + exportName(d.SpanRule.Name)
	}
	return "v.F" + strconv.Itoa(d.SpanRule.Index)
}

// templateExpr turns a compiled template into the Go expression a
// method body returns: a quoted literal when the template has no
// placeholders, fmt.Sprintf otherwise.
func templateExpr(tpl msgfmt.Template, shape ast.FieldShape) string {
	if !tpl.HasPlaceholders() {
		return strconv.Quote(tpl.Render(msgfmt.Args{}))
	}
	fstr, refs := tpl.GoFormat()
	args := make([]string, 0, len(refs))
	for _, ref := range refs {
		args = append(args, "v."+goFieldName(shape, ref.Index))
	}
	return "fmt.Sprintf(" + strconv.Quote(fstr) + ", " + strings.Join(args, ", ") + ")"
}

// sanitize keeps doc comments one line wide.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

var fileTmpl = template.Must(template.New("errtax").Parse(`// Code generated by errtax. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedsFmt}}
	"fmt"
{{end}}
	"{{.Runtime}}"
)

{{range .Doc}}{{.}}
{{end -}}
type {{.Name}} interface {
	error
	Kind() {{.RT}}.Kind
	Number() string
	Code() string
	PrimarySpan() {{.RT}}.Span
	PrimaryMessage() string
	PrimaryLabel() string
	is{{.Name}}()
}
{{range .Variants}}
// {{.Doc}}
{{if .Fields -}}
type {{.Ident}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}
{{- else -}}
type {{.Ident}} struct{}
{{- end}}

func ({{.Ident}}) Kind() {{$.RT}}.Kind { return {{.Kind}} }

func ({{.Ident}}) Number() string { return {{.Number}} }

func ({{.Ident}}) Code() string { return {{.Code}} }

func (v {{.Ident}}) PrimarySpan() {{$.RT}}.Span { return {{.SpanExpr}} }

func (v {{.Ident}}) PrimaryMessage() string {
	return {{.MsgExpr}}
}

func (v {{.Ident}}) PrimaryLabel() string {
	return {{.LabelExpr}}
}

func (v {{.Ident}}) Error() string { return v.PrimaryMessage() }

func ({{.Ident}}) is{{$.Name}}() {}
{{end -}}
`))
