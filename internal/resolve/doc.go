// Package resolve turns raw node attributes into per-node Configs.
//
// Правила наследования:
//
//   - kind, msg, label — ближайший предок-или-сам, своё значение
//     перекрывает унаследованное;
//   - number — конкатенация фрагментов от корня к листу, пустые
//     фрагменты ничего не добавляют;
//   - nested — строго на самом узле, не наследуется;
//   - depth — глубина узла: атрибуты корня дают глубину 1, узлы
//     верхнего уровня сидят на глубине 2.
//
// Walk is a pull iterator over the tree in declaration (pre-)order,
// one Item per node, groups included. Attribute validation happens
// during the walk; the first bad attribute stops it.
package resolve
