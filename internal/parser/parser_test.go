package parser_test

import (
	"errors"
	"testing"

	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/parser"
	"errtax/internal/source"
)

func parseSrc(t *testing.T, src string) (*ast.Taxonomy, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.etx", []byte(src))
	bag := diag.NewBag(64)
	tax, err := parser.ParseFile(fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	return tax, bag, err
}

func mustLeaf(t *testing.T, n ast.Node) *ast.Leaf {
	t.Helper()
	leaf, ok := n.(*ast.Leaf)
	if !ok {
		t.Fatalf("node is %T, want *ast.Leaf", n)
	}
	return leaf
}

func mustGroup(t *testing.T, n ast.Node) *ast.Group {
	t.Helper()
	group, ok := n.(*ast.Group)
	if !ok {
		t.Fatalf("node is %T, want *ast.Group", n)
	}
	return group
}

func TestParseTaxonomy(t *testing.T) {
	src := `#[kind = "Error"]
Fs {
	#[number = "0"]
	{
		#[msg = "file not found: {path}"]
		FileNotFound { #[span] path: Path },
		#[number = "1"]
		PermissionDenied(Path),
	},
	#[number = "9"] #[kind = "Warn"]
	SymlinkLoop,
}`
	tax, bag, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if tax.Name.Name != "Fs" {
		t.Errorf("taxonomy name = %q, want Fs", tax.Name.Name)
	}
	if tax.Generics != "" {
		t.Errorf("generics = %q, want empty", tax.Generics)
	}
	if len(tax.Attrs) != 1 || tax.Attrs[0].Key != "kind" || tax.Attrs[0].Value.Value != "Error" {
		t.Errorf("root attrs = %+v", tax.Attrs)
	}
	if len(tax.Roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(tax.Roots))
	}

	group := mustGroup(t, tax.Roots[0])
	if len(group.Attrs) != 1 || group.Attrs[0].Key != "number" || group.Attrs[0].Value.Value != "0" {
		t.Errorf("group attrs = %+v", group.Attrs)
	}
	if len(group.Children) != 2 {
		t.Fatalf("group children = %d, want 2", len(group.Children))
	}

	fnf := mustLeaf(t, group.Children[0])
	if fnf.Name.Name != "FileNotFound" {
		t.Errorf("leaf name = %q", fnf.Name.Name)
	}
	if len(fnf.Attrs) != 1 || fnf.Attrs[0].Key != "msg" || fnf.Attrs[0].Value.Value != "file not found: {path}" {
		t.Errorf("leaf attrs = %+v", fnf.Attrs)
	}
	if fnf.Shape.Kind != ast.ShapeNamed || fnf.Shape.Len() != 1 {
		t.Fatalf("shape = %v with %d fields", fnf.Shape.Kind, fnf.Shape.Len())
	}
	if f := fnf.Shape.Fields[0]; f.Name != "path" || f.Type.Text != "Path" {
		t.Errorf("field = %+v", f)
	}
	if !fnf.SpanField.Set || fnf.SpanField.Index != 0 {
		t.Errorf("span mark = %+v, want set at index 0", fnf.SpanField)
	}

	pd := mustLeaf(t, group.Children[1])
	if pd.Shape.Kind != ast.ShapePositional || pd.Shape.Len() != 1 {
		t.Fatalf("shape = %v with %d fields", pd.Shape.Kind, pd.Shape.Len())
	}
	if pd.Shape.Fields[0].Name != "" || pd.Shape.Fields[0].Type.Text != "Path" {
		t.Errorf("positional field = %+v", pd.Shape.Fields[0])
	}
	if pd.SpanField.Set {
		t.Errorf("positional leaf unexpectedly has a span mark")
	}

	sl := mustLeaf(t, tax.Roots[1])
	if sl.Name.Name != "SymlinkLoop" || sl.Shape.Kind != ast.ShapeUnit {
		t.Errorf("unit leaf = %+v", sl)
	}
	if len(sl.Attrs) != 2 {
		t.Errorf("unit leaf attrs = %d, want 2", len(sl.Attrs))
	}
}

func TestParseGenerics(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Fs {}", ""},
		{"Wrapper<T> {}", "<T>"},
		{"Wrapper<T, E> {}", "<T, E>"},
		{"Wrapper<T: Display, E: Into<Box<str>>> {}", "<T: Display, E: Into<Box<str>>>"},
	}
	for _, tt := range tests {
		tax, _, err := parseSrc(t, tt.src)
		if err != nil {
			t.Errorf("%q: %v", tt.src, err)
			continue
		}
		if tax.Generics != tt.want {
			t.Errorf("%q: generics = %q, want %q", tt.src, tax.Generics, tt.want)
		}
	}
}

func TestParseTypeText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"plain", "Fs { A(Path) }", []string{"Path"}},
		{"two", "Fs { A(Path, String) }", []string{"Path", "String"}},
		{"generic comma", "Fs { A(Option<int, string>, Path) }", []string{"Option<int, string>", "Path"}},
		{"slice", "Fs { A([]byte) }", []string{"[]byte"}},
		{"pointer", "Fs { A(*Config) }", []string{"*Config"}},
		{"dotted", "Fs { A { src: io.Error } }", []string{"io.Error"}},
		{"double colon path", "Fs { A { src: std::io::Error } }", []string{"std::io::Error"}},
		{"trailing comma", "Fs { A(Path,) }", []string{"Path"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, _, err := parseSrc(t, tt.src)
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			leaf := mustLeaf(t, tax.Roots[0])
			if leaf.Shape.Len() != len(tt.want) {
				t.Fatalf("fields = %d, want %d", leaf.Shape.Len(), len(tt.want))
			}
			for i, want := range tt.want {
				if got := leaf.Shape.Fields[i].Type.Text; got != want {
					t.Errorf("field %d type = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"empty file", "", diag.ParseExpectTaxonomyName},
		{"missing body", "Fs", diag.ParseUnexpectedToken},
		{"unclosed body", "Fs {", diag.ParseUnclosedBody},
		{"trailing junk", "Fs {} extra", diag.ParseUnexpectedToken},
		{"missing comma", "Fs { A B }", diag.ParseExpectComma},
		{"unclosed attr", `#[kind Fs {}`, diag.ParseUnclosedAttr},
		{"missing attr key", `#[= "x"] Fs {}`, diag.ParseExpectAttrKey},
		{"missing attr value", `#[msg = ] Fs {}`, diag.ParseExpectAttrValue},
		{"duplicate span mark", "Fs { A { #[span] p: P, #[span] q: Q } }", diag.ParseDuplicateSpanField},
		{"msg on field", `Fs { A { #[msg = "x"] p: P } }`, diag.ParseBadFieldAttr},
		{"span with value", `Fs { A(#[span = "v"] P) }`, diag.ParseBadFieldAttr},
		{"missing colon", "Fs { A { p P } }", diag.ParseUnexpectedToken},
		{"missing field type", "Fs { A { p: } }", diag.ParseExpectFieldType},
		{"unclosed positional", "Fs { A(", diag.ParseUnclosedFields},
		{"unclosed named", "Fs { A { p: T", diag.ParseUnclosedFields},
		{"unclosed generics", "Wrapper<T {", diag.ParseUnclosedGenerics},
		{"stray comma", "Fs { , }", diag.ParseUnexpectedToken},
		{"unknown char", "Fs { @ }", diag.ParseUnknownChar},
		{"unterminated string", `#[msg = "abc] Fs {}`, diag.ParseUnterminatedString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, bag, err := parseSrc(t, tt.src)
			if err == nil {
				t.Fatalf("ParseFile succeeded with %+v, want error", tax)
			}
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error is %T, want *diag.Error", err)
			}
			if de.Diag.Code != tt.code {
				t.Errorf("code = %s, want %s", de.Diag.Code.ID(), tt.code.ID())
			}
			if !bag.HasErrors() {
				t.Errorf("bag has no errors")
			}
		})
	}
}

func TestDuplicateSpanMarkNote(t *testing.T) {
	_, _, err := parseSrc(t, "Fs { A { #[span] p: P, #[span] q: Q } }")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error is %T, want *diag.Error", err)
	}
	if len(de.Diag.Notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(de.Diag.Notes))
	}
	if de.Diag.Notes[0].Msg != "first span marker is here" {
		t.Errorf("note = %q", de.Diag.Notes[0].Msg)
	}
	// Note должен указывать на первый маркер, который стоит раньше.
	if de.Diag.Notes[0].Span.Start >= de.Diag.Primary.Start {
		t.Errorf("note span %v is not before primary %v", de.Diag.Notes[0].Span, de.Diag.Primary)
	}
}

func TestDiagnosticSpanAtEOF(t *testing.T) {
	_, _, err := parseSrc(t, "Fs")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error is %T, want *diag.Error", err)
	}
	want := source.Span{File: de.Diag.Primary.File, Start: 2, End: 2}
	if de.Diag.Primary != want {
		t.Errorf("primary = %v, want zero-width span after 'Fs' (%v)", de.Diag.Primary, want)
	}
}

func TestEmptyGroupWarning(t *testing.T) {
	_, bag, err := parseSrc(t, "Fs { {} }")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if !bag.HasWarnings() {
		t.Fatal("expected an empty-group warning")
	}
	if got := bag.Items()[0].Code; got != diag.ParseEmptyGroup {
		t.Errorf("code = %s, want %s", got.ID(), diag.ParseEmptyGroup.ID())
	}
}

func TestFirstErrorOnly(t *testing.T) {
	_, bag, err := parseSrc(t, "Fs { @ @ @ }")
	if err == nil {
		t.Fatal("want error")
	}
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("reported %d errors, want exactly the first one", errs)
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	src := `// заголовок файла
#[kind = "Error"] /* между */ Fs {
	A, // хвостовой комментарий
	/* блок
	   на две строки */
	B,
}`
	tax, _, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(tax.Roots) != 2 {
		t.Errorf("roots = %d, want 2", len(tax.Roots))
	}
}

func TestUnitLeafKeepsUnitShape(t *testing.T) {
	tax, _, err := parseSrc(t, "Fs { OnlyOne }")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	leaf := mustLeaf(t, tax.Roots[0])
	if leaf.Shape.Kind != ast.ShapeUnit || leaf.Shape.Len() != 0 {
		t.Errorf("shape = %v/%d, want unit", leaf.Shape.Kind, leaf.Shape.Len())
	}
}

func TestEmptyFieldListsKeepTheirKind(t *testing.T) {
	tax, _, err := parseSrc(t, "Fs { A {}, B() }")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	a := mustLeaf(t, tax.Roots[0])
	if a.Shape.Kind != ast.ShapeNamed || a.Shape.Len() != 0 {
		t.Errorf("A shape = %v/%d, want empty named", a.Shape.Kind, a.Shape.Len())
	}
	b := mustLeaf(t, tax.Roots[1])
	if b.Shape.Kind != ast.ShapePositional || b.Shape.Len() != 0 {
		t.Errorf("B shape = %v/%d, want empty positional", b.Shape.Kind, b.Shape.Len())
	}
}

func TestAttrValueEscapes(t *testing.T) {
	src := `#[msg = "a\nb \"q\" c\\d \q"]
Fs { A }`
	tax, _, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	want := "a\nb \"q\" c\\d q"
	if got := tax.Attrs[0].Value.Value; got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}
