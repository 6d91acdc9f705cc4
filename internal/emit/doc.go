// Package emit folds a resolved taxonomy walk into the final Artifact:
// упорядоченный список дескрипторов вариантов плюс дерево документации.
//
// Правила на лист: отсутствующий msg — фатальная ошибка эмиссии; msg и
// label компилируются против формы полей листа; label без явного
// значения переиспользует уже скомпилированный msg листа как есть.
// Kind по умолчанию Error, если ни один предок его не задал.
//
// Дубликаты кодов здесь легальны: их ищет отдельный проход
// CheckUniqueCodes, который Emit никогда не запускает сам.
package emit
