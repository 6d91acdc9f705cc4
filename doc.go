// Package errtax is the runtime every generated taxonomy depends on.
//
// Сгенерированные варианты реализуют Diagnostic; всё остальное здесь —
// инфраструктура вокруг него: Span/SimpleSpan привязывают ошибку к
// исходному тексту, Indexer/LineIndex переводят байтовые смещения в
// строки и колонки, WriteReport печатает отчёт с подчёркиванием.
//
// The package has no dependency on the compiler internals, so user
// binaries embedding generated errors pull in only this runtime.
package errtax
