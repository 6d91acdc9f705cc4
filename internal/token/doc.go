// Package token defines lexical token kinds and trivia for taxonomy sources.
// Invariants:
//   - Token.Text is a copy of the original source slice.
//   - Token.Span matches Text exactly (Start..End).
//   - Attributes are lexed as '#' (Kind: Hash) + '[' + ... + ']'; no
//     per-attribute token kinds. Attribute keys (kind, number, msg, label,
//     span, nested) are plain Ident tokens classified later.
//   - The DSL has no keywords: every name, including attribute keys, is Ident.
//   - Comments (// and /* */) are trivia and never appear in the main
//     token stream.
package token
