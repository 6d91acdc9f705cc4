// Package msgfmt compiles and renders message templates.
//
// Шаблон — это строка с плейсхолдерами `{имя}` или `{индекс}`,
// опционально с суффиксом `{ссылка:суффикс}`. Суффикс хранится как
// есть и не интерпретируется, кроме `?` (отладочный вывод: строки в
// кавычках). `{{` и `}}` — литеральные скобки.
//
// Compile validates every placeholder against the variant's declared
// field shape, so a template that names a missing field or indexes
// past the payload fails at taxonomy compile time, not at render
// time. Unit variants admit only placeholder-free templates.
package msgfmt
