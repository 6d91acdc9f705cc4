// Package gen materializes a compiled taxonomy as one Go source file.
//
// Файл содержит: блок документации над запечатанным интерфейсом,
// по структуре на вариант, методы Kind/Number/Code/PrimarySpan/
// PrimaryMessage/PrimaryLabel/Error и неэкспортируемый метод-печать.
//
// Field types are copied verbatim from the taxonomy source; making
// them resolvable in the generated package is the author's job. The
// span-marked field is the one exception: it is always typed
// errtax.SimpleSpan. Generated code depends on stdlib fmt and the
// errtax runtime package only.
package gen
