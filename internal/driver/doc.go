// Package driver wires the taxonomy pipeline together: load source,
// parse, resolve attributes, emit descriptors.
//
// Каждый файл проходит конвейер целиком и независимо; Compile обслуживает
// один файл, CompileDir гоняет файлы каталога параллельно. Первый фатальный
// диагноз файла останавливает его конвейер, но не соседние файлы.
//
// DiskCache хранит готовые артефакты по хешу содержимого, чтобы повторная
// генерация кода не перекомпилировала неизменённые таксономии.
package driver
