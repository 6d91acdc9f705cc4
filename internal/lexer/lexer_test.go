package lexer_test

import (
	"testing"

	"errtax/internal/diag"
	"errtax/internal/lexer"
	"errtax/internal/source"
	"errtax/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

// ErrorCount возвращает количество ошибок
func (r *testReporter) ErrorCount() int {
	count := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			count++
		}
	}
	return count
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.etx", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	opts := lexer.Options{Reporter: reporter}
	lx := lexer.New(file, opts)

	return lx, reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens проверяет последовательность токенов
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	// убираем EOF из сравнения
	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nErrors: %d",
			len(expected), len(tokens), input, reporter.ErrorCount())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)",
				i, expected[i], tok.Kind, tok.Text)
		}
	}
}

// expectSingleToken проверяет, что вход создаёт ровно один токен
func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
}

func TestIdentifiers(t *testing.T) {
	expectSingleToken(t, "FileNotFound", token.Ident, "FileNotFound")
	expectSingleToken(t, "path", token.Ident, "path")
	expectSingleToken(t, "_internal", token.Ident, "_internal")
	expectSingleToken(t, "msg", token.Ident, "msg")
	expectSingleToken(t, "x42", token.Ident, "x42")
}

func TestUnicodeIdentifiers(t *testing.T) {
	expectSingleToken(t, "ошибка", token.Ident, "ошибка")
	expectSingleToken(t, "путь2", token.Ident, "путь2")
	expectSingleToken(t, "文件", token.Ident, "文件")
}

func TestStrings(t *testing.T) {
	expectSingleToken(t, `"File Not Found"`, token.StringLit, `"File Not Found"`)
	expectSingleToken(t, `"File {path:?} Not Found"`, token.StringLit, `"File {path:?} Not Found"`)
	expectSingleToken(t, `"escaped \" quote"`, token.StringLit, `"escaped \" quote"`)
	expectSingleToken(t, `"左大括号 {{"`, token.StringLit, `"左大括号 {{"`)
	expectSingleToken(t, `""`, token.StringLit, `""`)
}

func TestUnterminatedString(t *testing.T) {
	lx, reporter := makeTestLexer(`"no closing quote`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if reporter.diagnostics[0].Code != diag.ParseUnterminatedString {
		t.Errorf("Expected ParseUnterminatedString, got %v", reporter.diagnostics[0].Code)
	}
}

func TestNewlineInString(t *testing.T) {
	lx, reporter := makeTestLexer("\"broken\nstring\"")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if reporter.diagnostics[0].Code != diag.ParseNewlineInString {
		t.Errorf("Expected ParseNewlineInString, got %v", reporter.diagnostics[0].Code)
	}
}

func TestAttributeSequence(t *testing.T) {
	expectTokens(t, `#[msg = "File Not Found"]`, []token.Kind{
		token.Hash, token.LBracket, token.Ident, token.Assign,
		token.StringLit, token.RBracket,
	})
}

func TestFlagAttribute(t *testing.T) {
	expectTokens(t, `#[span]`, []token.Kind{
		token.Hash, token.LBracket, token.Ident, token.RBracket,
	})
}

func TestNamedFields(t *testing.T) {
	expectTokens(t, `FileNotFound { path: Path }`, []token.Kind{
		token.Ident, token.LBrace, token.Ident, token.Colon,
		token.Ident, token.RBrace,
	})
}

func TestPositionalFields(t *testing.T) {
	expectTokens(t, `NotAFile(Path, string)`, []token.Kind{
		token.Ident, token.LParen, token.Ident, token.Comma,
		token.Ident, token.RParen,
	})
}

func TestTypeTextTokens(t *testing.T) {
	expectTokens(t, `meta: []byte`, []token.Kind{
		token.Ident, token.Colon, token.LBracket, token.RBracket, token.Ident,
	})
	expectTokens(t, `at: errtax.SimpleSpan`, []token.Kind{
		token.Ident, token.Colon, token.Ident, token.Dot, token.Ident,
	})
	expectTokens(t, `ref: *Config`, []token.Kind{
		token.Ident, token.Colon, token.Star, token.Ident,
	})
}

func TestGenerics(t *testing.T) {
	expectTokens(t, `FileSystemError<T> {`, []token.Kind{
		token.Ident, token.Lt, token.Ident, token.Gt, token.LBrace,
	})
}

func TestLineComments(t *testing.T) {
	lx, _ := makeTestLexer("// comment\nAccessDenied")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "AccessDenied" {
		t.Fatalf("Expected AccessDenied ident, got %v %q", tok.Kind, tok.Text)
	}
	// Комментарий и перевод строки лежат в Leading.
	var sawComment bool
	for _, tv := range tok.Leading {
		if tv.Kind == token.TriviaLineComment {
			sawComment = true
			if tv.Text != "// comment" {
				t.Errorf("Expected comment text, got %q", tv.Text)
			}
		}
	}
	if !sawComment {
		t.Error("Expected leading line comment trivia")
	}
}

func TestBlockComments(t *testing.T) {
	lx, reporter := makeTestLexer("/* outer /* nested */ still */ msg")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "msg" {
		t.Fatalf("Expected msg ident after nested block comment, got %v %q", tok.Kind, tok.Text)
	}
	if reporter.ErrorCount() != 0 {
		t.Errorf("Expected no errors, got %d", reporter.ErrorCount())
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* never closed")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("Expected EOF after trailing comment, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if reporter.diagnostics[0].Code != diag.ParseUnterminatedBlockComment {
		t.Errorf("Expected ParseUnterminatedBlockComment, got %v", reporter.diagnostics[0].Code)
	}
}

func TestUnknownChar(t *testing.T) {
	lx, reporter := makeTestLexer("$")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if reporter.diagnostics[0].Code != diag.ParseUnknownChar {
		t.Errorf("Expected ParseUnknownChar, got %v", reporter.diagnostics[0].Code)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Text != n.Text {
		t.Errorf("Peek/Next mismatch: %v %q vs %v %q", p.Kind, p.Text, n.Kind, n.Text)
	}
	second := lx.Next()
	if second.Text != "b" {
		t.Errorf("Expected second ident 'b', got %q", second.Text)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("")
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("Call %d: expected EOF, got %v", i, tok.Kind)
		}
	}
}

func TestSpansMatchText(t *testing.T) {
	input := `#[number = "0"]`
	lx, _ := makeTestLexer(input)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		got := input[tok.Span.Start:tok.Span.End]
		if got != tok.Text {
			t.Errorf("Span/Text mismatch: span covers %q, text is %q", got, tok.Text)
		}
	}
}

func TestFullTaxonomySnippet(t *testing.T) {
	input := `
#[kind = "Error"]
Fs {
    #[number = "0"]
    #[msg = "File {path:?} Not Found"]
    FileNotFound { #[span] path: Path },
    AccessDenied,
}
`
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if reporter.ErrorCount() != 0 {
		t.Fatalf("Expected clean lex, got %d errors", reporter.ErrorCount())
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatal("Expected trailing EOF")
	}
	// Быстрая проверка начала потока: '#' '[' kind '=' "Error" ']' Fs '{'
	wantHead := []token.Kind{
		token.Hash, token.LBracket, token.Ident, token.Assign,
		token.StringLit, token.RBracket, token.Ident, token.LBrace,
	}
	for i, want := range wantHead {
		if tokens[i].Kind != want {
			t.Errorf("Token %d: expected %v, got %v (%q)", i, want, tokens[i].Kind, tokens[i].Text)
		}
	}
}
