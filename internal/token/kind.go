package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (node names, field names,
	// attribute keys, and bare type names).
	Ident
	// StringLit represents a double-quoted string literal token.
	StringLit

	// Hash represents the hash punctuation token.
	Hash // #
	// Assign represents the assign punctuation token.
	Assign // =
	// Comma represents the comma punctuation token.
	Comma // ,
	// Colon represents the colon punctuation token.
	Colon // :
	// Dot represents the dot punctuation token.
	Dot // .
	// Star represents the star punctuation token.
	Star // *
	// Lt represents the left angle bracket token.
	Lt // <
	// Gt represents the right angle bracket token.
	Gt // >
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:   "invalid",
	EOF:       "end of file",
	Ident:     "identifier",
	StringLit: "string literal",
	Hash:      "'#'",
	Assign:    "'='",
	Comma:     "','",
	Colon:     "':'",
	Dot:       "'.'",
	Star:      "'*'",
	Lt:        "'<'",
	Gt:        "'>'",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
}

// String returns the human-readable name used in parser expectations.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
