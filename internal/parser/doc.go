// Package parser turns a token stream into an *ast.Taxonomy.
//
// Парсер простой рекурсивный спуск без восстановления: первая
// синтаксическая ошибка фиксируется и разбор останавливается.
// Предупреждения (пустая группа и т.п.) не прерывают разбор.
//
// Grammar sketch:
//
//	file    := attr* IDENT generics? '{' nodes '}' EOF
//	nodes   := (node ',')* node?
//	node    := attr* (group | leaf)
//	group   := '{' nodes '}'
//	leaf    := IDENT fields?
//	fields  := '{' named (',' named)* ','? '}'
//	        |  '(' unnamed (',' unnamed)* ','? ')'
//	named   := attr* IDENT ':' type
//	unnamed := attr* type
//	attr    := '#' '[' IDENT ('=' STRING)? ']'
//
// Type text is captured verbatim: tokens are consumed while bracket
// depth stays balanced and joined back through the source file, so
// `map[string]Option<int, string>` survives untouched.
package parser
