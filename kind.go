package errtax

// Kind classifies a diagnostic as an error or a warning. The zero
// value is KindError: taxonomies that never set a kind produce errors.
type Kind uint8

const (
	KindError Kind = iota
	KindWarn
)

// Short returns the single-letter code prefix: "E" or "W".
func (k Kind) Short() string {
	if k == KindWarn {
		return "W"
	}
	return "E"
}

func (k Kind) String() string {
	if k == KindWarn {
		return "Warn"
	}
	return "Error"
}

// ParseKind recognizes the four spellings taxonomy sources may use.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "Error", "error":
		return KindError, true
	case "Warn", "warn":
		return KindWarn, true
	}
	return KindError, false
}
