package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("errors.etx", []byte("Fs {}"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("errors.etx")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("errors.etx", []byte("Fs { AccessDenied, }"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("errors.etx")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старая версия остаётся доступной по своему ID.
	file1 := fs.Get(id1)
	if string(file1.Content) != "Fs {}" {
		t.Errorf("Expected first file content 'Fs {}', got %q", string(file1.Content))
	}

	file2 := fs.Get(id2)
	if string(file2.Content) != "Fs { AccessDenied, }" {
		t.Errorf("Expected second file content to survive, got %q", string(file2.Content))
	}

	if file1.Path != "errors.etx" || file2.Path != "errors.etx" {
		t.Error("Expected both files to have the same path")
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files in set, got %d", fs.Len())
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" → LineIdx = [1,3]
	id := fs.AddVirtual("a.etx", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Errorf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}

	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

// TestCRLFNormalization проверяет нормализацию CRLF
func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)

	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}

	expected := []byte("a\nb\n")
	if string(normalized) != string(expected) {
		t.Errorf("Expected normalized content %q, got %q", string(expected), string(normalized))
	}

	// Одиночные \r не трогаем.
	loneCR := []byte("a\rb")
	kept, changed := normalizeCRLF(loneCR)
	if changed {
		t.Error("Expected lone CR to be kept as is")
	}
	if string(kept) != "a\rb" {
		t.Errorf("Expected %q, got %q", "a\rb", string(kept))
	}
}

// TestBOMRemoval проверяет удаление BOM
func TestBOMRemoval(t *testing.T) {
	bomContent := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	withoutBOM, hadBOM := removeBOM(bomContent)

	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}

	expected := []byte{'x', '\n'}
	if string(withoutBOM) != string(expected) {
		t.Errorf("Expected content without BOM %q, got %q", string(expected), string(withoutBOM))
	}

	short := []byte{0xEF, 0xBB}
	if _, had := removeBOM(short); had {
		t.Error("Expected two-byte prefix to be left alone")
	}
}

// TestResolve проверяет разрешение позиций, включая UTF-8 текст.
func TestResolve(t *testing.T) {
	fs := NewFileSet()

	// "α\n" — α занимает 2 байта
	content := []byte("α\n")
	id := fs.AddVirtual("greek.etx", content)

	span := Span{File: id, Start: 0, End: 1}
	start, end := fs.Resolve(span)

	if (start != LineCol{Line: 1, Col: 1}) {
		t.Errorf("Expected start 1:1, got %+v", start)
	}
	if (end != LineCol{Line: 1, Col: 2}) {
		t.Errorf("Expected end 1:2, got %+v", end)
	}

	// Вторая строка: "a\nb\n", 'b' на позиции 2.
	id2 := fs.AddVirtual("two.etx", []byte("a\nb\n"))
	start, end = fs.Resolve(Span{File: id2, Start: 2, End: 3})
	if (start != LineCol{Line: 2, Col: 1}) {
		t.Errorf("Expected start 2:1, got %+v", start)
	}
	if (end != LineCol{Line: 2, Col: 2}) {
		t.Errorf("Expected end 2:2, got %+v", end)
	}
}

func TestToLineCol(t *testing.T) {
	// "a\nb\n" → lineIdx = [1,3]
	lineIdx := []uint32{1, 3}

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}}, // 'a'
		{1, LineCol{Line: 1, Col: 2}}, // первый \n принадлежит строке 1
		{2, LineCol{Line: 2, Col: 1}}, // 'b'
		{3, LineCol{Line: 2, Col: 2}}, // второй \n
		{4, LineCol{Line: 3, Col: 1}}, // EOF
	}

	for _, tt := range tests {
		got := toLineCol(lineIdx, tt.off)
		if got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	// Файл без переводов строк.
	if got := toLineCol(nil, 7); (got != LineCol{Line: 1, Col: 8}) {
		t.Errorf("toLineCol on empty index = %+v, want 1:8", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.etx", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("snip.etx", []byte("FileNotFound { path: Path }"))
	file := fs.Get(id)

	if got := file.Snippet(Span{File: id, Start: 0, End: 12}); got != "FileNotFound" {
		t.Errorf("Snippet = %q, want %q", got, "FileNotFound")
	}
	// Выход за границы файла обрезается.
	if got := file.Snippet(Span{File: id, Start: 15, End: 999}); got != "path: Path }" {
		t.Errorf("clamped Snippet = %q, want %q", got, "path: Path }")
	}
	if got := file.Snippet(Span{File: id, Start: 5, End: 5}); got != "" {
		t.Errorf("empty Snippet = %q, want empty", got)
	}
}

// TestEdgeCases проверяет граничные случаи построения LineIdx.
func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	// Пустой файл
	id1 := fs.AddVirtual("empty.etx", []byte{})
	file1 := fs.Get(id1)
	if len(file1.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for empty file, got length %d", len(file1.LineIdx))
	}

	// Файл без переводов строк
	id2 := fs.AddVirtual("no_newlines.etx", []byte("hello"))
	file2 := fs.Get(id2)
	if len(file2.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for file without newlines, got length %d", len(file2.LineIdx))
	}

	// Файл только с переводом строки
	id3 := fs.AddVirtual("only_newline.etx", []byte("\n"))
	file3 := fs.Get(id3)
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
}

func TestLoad(t *testing.T) {
	fs := NewFileSet()
	path := filepath.Join(t.TempDir(), "load.etx")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.LineIdx[0] != 1 || file.LineIdx[1] != 3 {
		t.Errorf("Expected LineIdx [1 3], got %v", file.LineIdx)
	}
}

func TestLoadBOM(t *testing.T) {
	fs := NewFileSet()
	path := filepath.Join(t.TempDir(), "bom.etx")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\nb\n"), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected BOM to be stripped, got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
}

func TestLoadCRLF(t *testing.T) {
	fs := NewFileSet()
	path := filepath.Join(t.TempDir(), "crlf.etx")
	if err := os.WriteFile(path, []byte("a\r\nb\r\n"), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected CRLF to be normalized, got %q", string(file.Content))
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
}
