package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const manifestFixture = `# test manifest
[package]
name = "payments"

[generate]
out = "gen/errors"
package = "payerrs"

[check]
strict_codes = true
`

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, manifestName)
	if err := os.WriteFile(path, []byte(manifestFixture), 0o600); err != nil {
		t.Fatalf("write %s: %v", manifestName, err)
	}

	manifest, ok, err := loadManifest(root)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if !ok {
		t.Fatal("expected a manifest")
	}
	if manifest.Root != root {
		t.Errorf("Root = %q, want %q", manifest.Root, root)
	}
	cfg := manifest.Config
	if cfg.Package.Name != "payments" {
		t.Errorf("package.name = %q", cfg.Package.Name)
	}
	if cfg.Generate.Out != "gen/errors" || cfg.Generate.Package != "payerrs" {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if !cfg.Check.StrictCodes {
		t.Error("check.strict_codes = false, want true")
	}
}

func TestLoadManifest_UpwardDiscovery(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(root, manifestName)
	if err := os.WriteFile(path, []byte("[package]\nname = \"demo\"\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", manifestName, err)
	}

	manifest, ok, err := loadManifest(nested)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if !ok {
		t.Fatal("expected the manifest two levels up")
	}
	if manifest.Path != path {
		t.Errorf("Path = %q, want %q", manifest.Path, path)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, ok, err := loadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if ok {
		t.Fatal("expected no manifest in an empty temp dir")
	}
}

func TestLoadManifestConfig_Validation(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"no package table", "[generate]\nout = \"x\"\n", "missing [package]"},
		{"empty name", "[package]\nname = \"  \"\n", "missing [package].name"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), manifestName)
			if err := os.WriteFile(path, []byte(tc.data), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := loadManifestConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestOutputTarget(t *testing.T) {
	cases := []struct {
		input   string
		out     string
		dirMode bool
		want    string
	}{
		{filepath.Join("src", "fs.etx"), "", false, filepath.Join("src", "fs.go")},
		{filepath.Join("src", "fs.etx"), filepath.Join("gen", "fs_gen.go"), false, filepath.Join("gen", "fs_gen.go")},
		{filepath.Join("src", "fs.etx"), "gen", true, filepath.Join("gen", "fs.go")},
	}
	for _, tc := range cases {
		if got := outputTarget(tc.input, tc.out, tc.dirMode); got != tc.want {
			t.Errorf("outputTarget(%q, %q, %v) = %q, want %q", tc.input, tc.out, tc.dirMode, got, tc.want)
		}
	}
}
