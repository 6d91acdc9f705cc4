package errtax

import "fmt"

// Span is a located slice of some source text. Offsets are byte
// offsets into SourceText and the interval is half-open.
type Span interface {
	Start() int
	End() int

	// URI names the source, usually a file path.
	URI() string

	// SourceText returns the full text the offsets point into.
	SourceText() string

	// SourceIndex returns the line index of the source text.
	SourceIndex() Indexer
}

// SimpleSpan is the Span implementation generated variants carry.
// Нулевое значение означает «нет привязки к исходнику»; отчёт в этом
// случае ограничивается заголовком.
type SimpleSpan struct {
	uri    string
	source string
	index  *LineIndex
	start  int
	end    int
}

// NewSimpleSpan builds a span over source and indexes it once, so
// copies of the span share the same line index.
func NewSimpleSpan(uri, source string, start, end int) SimpleSpan {
	return SimpleSpan{
		uri:    uri,
		source: source,
		index:  NewLineIndex(source),
		start:  start,
		end:    end,
	}
}

func (s SimpleSpan) Start() int { return s.start }

func (s SimpleSpan) End() int { return s.end }

func (s SimpleSpan) URI() string { return s.uri }

func (s SimpleSpan) SourceText() string { return s.source }

// SourceIndex returns the prebuilt index; spans assembled without
// NewSimpleSpan (the zero value included) index their source on the
// spot.
func (s SimpleSpan) SourceIndex() Indexer {
	if s.index != nil {
		return s.index
	}
	return NewLineIndex(s.source)
}

// IsZero reports whether the span carries no location.
func (s SimpleSpan) IsZero() bool {
	return s.uri == "" && s.source == "" && s.start == 0 && s.end == 0
}

// String renders the span as uri:line:col with one-based positions,
// which is what a span interpolated into a message looks like.
func (s SimpleSpan) String() string {
	if s.IsZero() {
		return "<no location>"
	}
	line, col := s.SourceIndex().LineColAt(s.start)
	uri := s.uri
	if uri == "" {
		uri = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", uri, line+1, col+1)
}
