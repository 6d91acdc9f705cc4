package msgfmt

import "testing"

func TestKindOfRef(t *testing.T) {
	tests := []struct {
		in   string
		want refKind
	}{
		{"0", refPositional},
		{"42", refPositional},
		{"path", refNamed},
		{"_x9", refNamed},
		{"_", refNamed},
		{"путь", refNamed},
		{"文件", refNamed},
		{"0x", refInvalid},
		{"a-b", refInvalid},
		{"a b", refInvalid},
		{"9путь", refInvalid},
	}
	for _, tt := range tests {
		if got := kindOfRef(tt.in); got != tt.want {
			t.Errorf("kindOfRef(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
