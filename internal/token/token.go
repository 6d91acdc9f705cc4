package token

import (
	"errtax/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Hash, Assign, Comma, Colon, Dot, Star, Lt, Gt,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTypeText reports whether the token may appear inside verbatim field
// type text (identifiers, qualification dots, pointers, slices, generics).
func (t Token) IsTypeText() bool {
	switch t.Kind {
	case Ident, Dot, Star, Lt, Gt, LBracket, RBracket:
		return true
	default:
		return false
	}
}
