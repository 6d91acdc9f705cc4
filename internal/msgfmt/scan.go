package msgfmt

import (
	"sync"
	"unicode"
	"unicode/utf8"
)

type refKind uint8

const (
	refInvalid refKind = iota
	refPositional
	refNamed
)

const (
	classDigit uint8 = 1 << iota
	classIdentStart
	classIdentCont
)

// refClass — общая ASCII-таблица классификации для сканера ссылок.
// Строится один раз и после этого не меняется.
var refClass = sync.OnceValue(func() *[256]uint8 {
	var t [256]uint8
	for c := '0'; c <= '9'; c++ {
		t[c] = classDigit | classIdentCont
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = classIdentStart | classIdentCont
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = classIdentStart | classIdentCont
	}
	t['_'] = classIdentStart | classIdentCont
	return &t
})

// kindOfRef classifies a placeholder reference: a run of decimal
// digits is positional, a valid identifier (Unicode letters allowed)
// is named, anything else is malformed.
func kindOfRef(s string) refKind {
	table := refClass()
	digits := true
	ident := true
	first := true
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			cls := table[c]
			if cls&classDigit == 0 {
				digits = false
			}
			if first {
				if cls&classIdentStart == 0 {
					ident = false
				}
			} else if cls&classIdentCont == 0 {
				ident = false
			}
			i++
		} else {
			digits = false
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				ident = false
			} else if first {
				if !unicode.IsLetter(r) {
					ident = false
				}
			} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				ident = false
			}
			i += size
		}
		first = false
	}
	switch {
	case digits:
		return refPositional
	case ident:
		return refNamed
	}
	return refInvalid
}
