package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addGrammarSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.etx файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".etx" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
	// добавляем хотя бы один минимальный пример на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("Tax { Leaf }\n"))
}

// addGrammarSeeds covers every construct of the taxonomy grammar so the
// fuzzer starts from valid shapes and mutates outward.
func addGrammarSeeds(f *testing.F) {
	seeds := []string{
		`Tax { A, B }`,
		`#[kind = "Error"] #[msg = "top"] Tax { #[number = "1"] Leaf }`,
		`Tax { { A, B }, C }`,
		`Tax { Leaf { #[span] path: Path, line: u32 } }`,
		`Tax { Pair(Str, u32) }`,
		`Tax<Sp> { Spanned { at: Sp } }`,
		`#[msg = "File {path:?} not found."] Tax { F { path: Str } }`,
		`#[msg = "literal {{braces}} kept"] Tax { U }`,
		`#[nested] Tax { Wrap(Inner) }`,
		"// comment\nTax { /* block */ Leaf }\n",
		`Tax { Ошибка { имя: Строка } }`,
		`#[label = "short"] #[msg = "long form"] Tax { L }`,
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
