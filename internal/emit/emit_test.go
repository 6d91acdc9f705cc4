package emit_test

import (
	"errors"
	"strings"
	"testing"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/diag"
	"errtax/internal/emit"
	"errtax/internal/msgfmt"
	"errtax/internal/parser"
	"errtax/internal/source"
)

func compile(t *testing.T, src string) (*emit.Artifact, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.etx", []byte(src))
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	tax, err := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	art, err := emit.Emit(tax, rep)
	return art, bag, err
}

func mustCompile(t *testing.T, src string) *emit.Artifact {
	t.Helper()
	art, bag, err := compile(t, src)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	return art
}

const fileTaxonomy = `#[kind = "Error"] #[msg = "Errors."]
FileError {
	#[number = "0"] #[msg = "File-Related Errors."]
	{
		#[number = "0"] #[msg = "File {path:?} not found."]
		FileNotFound { #[span] path: Path },
		#[number = "1"] #[msg = "Path {0:?} does not point to a file."]
		NotAFile(Path),
	},
	#[number = "1"] #[msg = "Access Denied."]
	{
		#[number = "0"] #[msg = "Access Denied."]
		AccessDenied,
	},
}`

func TestEmitDescriptors(t *testing.T) {
	art := mustCompile(t, fileTaxonomy)
	if art.Name != "FileError" || art.Generics != "" {
		t.Errorf("artifact header = %q %q", art.Name, art.Generics)
	}
	if len(art.Descriptors) != 3 {
		t.Fatalf("descriptors = %d, want 3", len(art.Descriptors))
	}

	fnf := art.Descriptors[0]
	if fnf.Ident != "FileNotFound" || fnf.Code != "E00" || fnf.Number != "00" {
		t.Errorf("FileNotFound = %q code %q number %q", fnf.Ident, fnf.Code, fnf.Number)
	}
	if fnf.Kind != errtax.KindError {
		t.Errorf("kind = %v", fnf.Kind)
	}
	if !fnf.SpanRule.FromField || fnf.SpanRule.Index != 0 || fnf.SpanRule.Name != "path" {
		t.Errorf("span rule = %+v", fnf.SpanRule)
	}
	msg := fnf.Message.Render(msgfmt.Args{Named: map[string]any{"path": "fs.etx"}})
	if msg != `File "fs.etx" not found.` {
		t.Errorf("rendered msg = %q", msg)
	}

	naf := art.Descriptors[1]
	if naf.Code != "E01" || naf.SpanRule.FromField {
		t.Errorf("NotAFile = code %q rule %+v", naf.Code, naf.SpanRule)
	}
	if naf.Shape.Kind != ast.ShapePositional {
		t.Errorf("NotAFile shape = %v", naf.Shape.Kind)
	}

	ad := art.Descriptors[2]
	if ad.Ident != "AccessDenied" || ad.Code != "E10" || ad.Shape.Kind != ast.ShapeUnit {
		t.Errorf("AccessDenied = %+v", ad)
	}
}

func TestEmitDocs(t *testing.T) {
	art := mustCompile(t, fileTaxonomy)
	want := []string{
		"- `E0`: File-Related Errors.",
		"  - `E00`(**FileNotFound**): File {path:?} not found.",
		"  - `E01`(**NotAFile**): Path {0:?} does not point to a file.",
		"- `E1`: Access Denied.",
		"  - `E10`(**AccessDenied**): Access Denied.",
	}
	got := strings.Split(strings.TrimRight(art.DocMarkdown(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("doc lines:\n%s\nwant %d lines", art.DocMarkdown(), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmitDocsGroupWithoutMsg(t *testing.T) {
	art := mustCompile(t, `Fs {
	#[number = "7"]
	{
		#[msg = "x"] A,
	},
}`)
	if art.Docs[0].String() != "- `E7`" {
		t.Errorf("group line = %q", art.Docs[0].String())
	}
	if art.Docs[1].String() != "  - `E7`(**A**): x" {
		t.Errorf("leaf line = %q", art.Docs[1].String())
	}
}

func TestMissingMessage(t *testing.T) {
	_, bag, err := compile(t, `Fs { Bare }`)
	if err == nil {
		t.Fatal("Emit succeeded without a message")
	}
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error is %T", err)
	}
	if de.Diag.Code != diag.EmitMissingMsg {
		t.Errorf("code = %s, want %s", de.Diag.Code.ID(), diag.EmitMissingMsg.ID())
	}
	if !bag.HasErrors() {
		t.Error("reporter saw nothing")
	}
}

func TestLabelFallsBackToMsg(t *testing.T) {
	art := mustCompile(t, `Fs { #[msg = "boom {0}"] A(Path) }`)
	d := art.Descriptors[0]
	args := msgfmt.Args{Positional: []any{"x"}}
	if d.Label.Render(args) != d.Message.Render(args) {
		t.Errorf("label %q != msg %q", d.Label.Render(args), d.Message.Render(args))
	}
}

func TestExplicitLabel(t *testing.T) {
	art := mustCompile(t, `Fs { #[msg = "file {path} missing"] #[label = "not found"] A { path: Path } }`)
	d := art.Descriptors[0]
	if got := d.Label.Render(msgfmt.Args{}); got != "not found" {
		t.Errorf("label = %q", got)
	}
}

func TestInheritedLabel(t *testing.T) {
	art := mustCompile(t, `#[label = "here"]
Fs { #[msg = "boom"] A }`)
	if got := art.Descriptors[0].Label.Render(msgfmt.Args{}); got != "here" {
		t.Errorf("label = %q", got)
	}
}

func TestNestedDescriptor(t *testing.T) {
	art := mustCompile(t, `Fs {
	#[number = "01"] #[msg = "{0}"] #[nested]
	FileError(InnerError),
}`)
	d := art.Descriptors[0]
	if !d.Nested {
		t.Error("descriptor is not nested")
	}
	if d.Code != "E01" {
		t.Errorf("code = %q", d.Code)
	}
	// Сообщение целиком делегирует полю.
	if got := d.Message.Render(msgfmt.Args{Positional: []any{"inner says hi"}}); got != "inner says hi" {
		t.Errorf("rendered = %q", got)
	}
}

func TestDoubledBracesStayLiteral(t *testing.T) {
	art := mustCompile(t, `Fs { #[msg = "{{0}} not found."] A(Path) }`)
	got := art.Descriptors[0].Message.Render(msgfmt.Args{Positional: []any{"value"}})
	if got != "{0} not found." {
		t.Errorf("rendered = %q", got)
	}
}

func TestDeepNumberConcatenation(t *testing.T) {
	art := mustCompile(t, `#[kind = "Warn"]
Fs {
	#[number = "1"]
	{
		#[number = "2"]
		{
			#[number = "34"] #[msg = "deep"]
			Deep,
		},
	},
}`)
	d := art.Descriptors[0]
	if d.Code != "W1234" {
		t.Errorf("code = %q, want W1234", d.Code)
	}
}

func TestEmptyNumberMakesBareCode(t *testing.T) {
	art := mustCompile(t, `Fs { #[msg = "m"] A }`)
	if got := art.Descriptors[0].Code; got != "E" {
		t.Errorf("code = %q, want bare E", got)
	}
}

func TestTemplateErrorPropagates(t *testing.T) {
	_, _, err := compile(t, `Fs { #[msg = "oops {missing}"] A { path: Path } }`)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error is %T", err)
	}
	if de.Diag.Code != diag.TemplateUnknownField {
		t.Errorf("code = %s", de.Diag.Code.ID())
	}
}

func TestInheritedTemplateErrorPointsAtAncestor(t *testing.T) {
	src := `#[msg = "bad {ref}"]
Fs {
	A { other: Path },
}`
	_, _, err := compile(t, src)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error is %T", err)
	}
	// Span должен указывать на литерал предка, а не на лист.
	wantStart := uint32(strings.Index(src, `"bad {ref}"`))
	if de.Diag.Primary.Start != wantStart {
		t.Errorf("primary starts at %d, want %d", de.Diag.Primary.Start, wantStart)
	}
}

func TestPositionalSpanRule(t *testing.T) {
	art := mustCompile(t, `Fs { #[msg = "m"] A(Path, #[span] Span) }`)
	rule := art.Descriptors[0].SpanRule
	if !rule.FromField || rule.Index != 1 || rule.Name != "" {
		t.Errorf("rule = %+v, want positional index 1", rule)
	}
}

func TestEmitAllowsDuplicateCodes(t *testing.T) {
	art := mustCompile(t, `Fs {
	#[number = "1"] #[msg = "a"] A,
	#[number = "1"] #[msg = "b"] B,
}`)
	if len(art.Descriptors) != 2 {
		t.Fatalf("descriptors = %d", len(art.Descriptors))
	}
}

func TestCheckUniqueCodes(t *testing.T) {
	art := mustCompile(t, `Fs {
	#[number = "1"] #[msg = "a"] A,
	#[number = "1"] #[msg = "b"] B,
	#[number = "2"] #[msg = "c"] C,
	#[number = "1"] #[msg = "d"] D,
}`)
	dups := emit.CheckUniqueCodes(art)
	if len(dups) != 2 {
		t.Fatalf("found %d duplicates, want 2 (B and D)", len(dups))
	}
	for _, d := range dups {
		if d.Severity != diag.SevWarning {
			t.Errorf("severity = %v, want warning", d.Severity)
		}
		if d.Code != diag.EmitDuplicateCode {
			t.Errorf("code = %s", d.Code.ID())
		}
		if len(d.Notes) != 1 || d.Notes[0].Msg != "first use is here" {
			t.Errorf("notes = %+v", d.Notes)
		}
		if !strings.Contains(d.Message, "E1") || !strings.Contains(d.Message, "variant A") {
			t.Errorf("message = %q", d.Message)
		}
	}
}

func TestCheckUniqueCodesClean(t *testing.T) {
	art := mustCompile(t, fileTaxonomy)
	if dups := emit.CheckUniqueCodes(art); len(dups) != 0 {
		t.Errorf("unexpected duplicates: %v", dups)
	}
}
