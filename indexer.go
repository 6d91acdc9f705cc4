package errtax

import (
	"sort"
	"unicode/utf8"
)

// Indexer resolves byte offsets inside a source text. Lines and
// columns are zero-based.
type Indexer interface {
	// LineColAt returns the line and column of the byte offset pos.
	LineColAt(pos int) (line, col int)

	// LineSpanAt returns the start and end offsets of the line that
	// contains pos. The end includes the trailing newline.
	LineSpanAt(pos int) (start, end int)

	// SpanWithContextLines widens [start, end) to whole lines plus up
	// to before/after extra lines on each side, clamped to the text.
	// A zero context keeps just the lines the span touches.
	SpanWithContextLines(start, end, before, after int) (int, int)
}

// LineIndex is an Indexer that stores the ending offset of every
// line, trailing newline included. The text is treated as if it had
// one implicit newline at the end, so ends is never empty and offsets
// past the text resolve to the final, empty line.
type LineIndex struct {
	ends []int
}

// NewLineIndex scans text once and records line boundaries. Besides
// '\n' and "\r\n" the scan recognizes the remaining Unicode line
// breaks: '\r', '\v', '\f', U+0085, U+2028 and U+2029.
func NewLineIndex(text string) *LineIndex {
	var ends []int
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		switch r {
		case '\n', '\v', '\f', '\u0085', '\u2028', '\u2029':
			ends = append(ends, i)
		case '\r':
			if i < len(text) && text[i] == '\n' {
				i++
			}
			ends = append(ends, i)
		}
	}
	ends = append(ends, len(text))
	return &LineIndex{ends: ends}
}

// search находит позицию в ends; found — точное попадание в границу
// строки (то есть pos стоит в начале следующей строки).
func (ix *LineIndex) search(pos int) (i int, found bool) {
	if pos < 0 {
		pos = 0
	}
	i = sort.SearchInts(ix.ends, pos)
	found = i < len(ix.ends) && ix.ends[i] == pos
	return i, found
}

func (ix *LineIndex) lineStartAt(pos int) int {
	i, found := ix.search(pos)
	switch {
	case found:
		return ix.ends[i]
	case i == 0:
		return 0
	default:
		return ix.ends[i-1]
	}
}

func (ix *LineIndex) lineAt(pos int) int {
	i, found := ix.search(pos)
	if found {
		return i + 1
	}
	return i
}

func (ix *LineIndex) LineColAt(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	}
	i, found := ix.search(pos)
	switch {
	case found:
		return i + 1, 0
	case i == 0:
		return 0, pos
	default:
		return i, pos - ix.ends[i-1]
	}
}

func (ix *LineIndex) LineSpanAt(pos int) (start, end int) {
	i, found := ix.search(pos)
	switch {
	case found && i+1 == len(ix.ends):
		return ix.ends[i], ix.ends[i]
	case found:
		return ix.ends[i], ix.ends[i+1]
	case i == 0:
		return 0, ix.ends[0]
	case i == len(ix.ends):
		return ix.ends[i-1], ix.ends[i-1]
	default:
		return ix.ends[i-1], ix.ends[i]
	}
}

func (ix *LineIndex) SpanWithContextLines(start, end, before, after int) (int, int) {
	var s int
	if before == 0 {
		s = ix.lineStartAt(start)
	} else if t := ix.lineAt(start) - before; t <= 0 {
		s = 0
	} else {
		s = ix.ends[t-1]
	}

	var e int
	if after == 0 {
		_, e = ix.LineSpanAt(end)
	} else {
		t := ix.lineAt(end) + after
		if last := len(ix.ends) - 1; t > last {
			t = last
		}
		e = ix.ends[t]
	}
	return s, e
}
