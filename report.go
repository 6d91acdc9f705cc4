package errtax

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// ReportOptions управляет видом отчёта.
type ReportOptions struct {
	// Color turns ANSI styling on.
	Color bool

	// Context is how many extra lines to show before and after the
	// span.
	Context int
}

// WriteReport prints d the way compiler diagnostics are usually
// shown: a severity header, the file locus and the offending lines
// with the primary span underlined and labeled.
//
//	error[E00]: File "fs.etx" not found
//	 --> fs.etx:3:9
//	  |
//	3 |     FileNotFound { path: Path },
//	  |         ^~~~ the file that was missing
//	  |
//
// A span without a location shortens the report to the header.
func WriteReport(w io.Writer, d Diagnostic, opts ReportOptions) error {
	p := &reportPrinter{w: w, styles: newReportStyles(d.Kind(), opts.Color)}

	severity := "error"
	if d.Kind() == KindWarn {
		severity = "warning"
	}
	p.printf("%s: %s\n",
		p.styles.head.Sprintf("%s[%s]", severity, d.Code()),
		p.styles.msg.Sprint(d.PrimaryMessage()))

	span := d.PrimarySpan()
	if span == nil || (span.URI() == "" && span.SourceText() == "") {
		return p.err
	}

	idx := span.SourceIndex()
	text := span.SourceText()
	line, col := idx.LineColAt(span.Start())

	if text == "" {
		p.printf(" %s %s:%d:%d\n", p.styles.frame.Sprint("-->"), span.URI(), line+1, col+1)
		return p.err
	}

	lo, hi := idx.SpanWithContextLines(span.Start(), span.End(), opts.Context, opts.Context)

	// Ширина колонки с номерами строк: по последней отображаемой строке.
	lastLine, _ := idx.LineColAt(max(hi-1, lo))
	gutter := len(strconv.Itoa(lastLine + 1))

	p.printf("%s%s %s:%d:%d\n", strings.Repeat(" ", gutter), p.styles.frame.Sprint("-->"), span.URI(), line+1, col+1)
	p.pipe(gutter)

	for off := lo; off < hi; {
		ls, le := idx.LineSpanAt(off)
		if le <= off {
			break
		}
		no, _ := idx.LineColAt(ls)
		raw := strings.TrimRight(text[ls:min(le, len(text))], "\r\n\v\f  ")
		p.printf("%*d %s %s\n", gutter, no+1, p.styles.frame.Sprint("|"), expandTabs(raw))

		if ls <= span.Start() && span.Start() < le {
			p.underline(gutter, raw, span.Start()-ls, span.End()-ls, d.PrimaryLabel())
		}
		off = le
	}
	p.pipe(gutter)
	return p.err
}

type reportStyles struct {
	head  *color.Color // severity and code
	msg   *color.Color
	frame *color.Color // gutter, pipes and the arrow
	mark  *color.Color // the underline and its label
}

func newReportStyles(kind Kind, enabled bool) reportStyles {
	sev := color.New(color.FgRed, color.Bold)
	if kind == KindWarn {
		sev = color.New(color.FgYellow, color.Bold)
	}
	s := reportStyles{
		head:  sev,
		msg:   color.New(color.Bold),
		frame: color.New(color.FgCyan),
		mark:  sev,
	}
	// Явное включение/выключение: глобальная автодетекция TTY не должна
	// влиять на вывод, его вид выбирает вызывающая сторона.
	for _, c := range []*color.Color{s.head, s.msg, s.frame, s.mark} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

type reportPrinter struct {
	w      io.Writer
	styles reportStyles
	err    error
}

func (p *reportPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *reportPrinter) pipe(gutter int) {
	p.printf("%s%s\n", pad(gutter), p.styles.frame.Sprint("|"))
}

// underline prints the ^~~~ marker row under one snippet line.
// start/end — смещения внутри строки; конец обрезается по её длине.
func (p *reportPrinter) underline(gutter int, raw string, start, end int, label string) {
	start = min(start, len(raw))
	end = min(end, len(raw))

	indent := runewidth.StringWidth(expandTabs(raw[:start]))
	width := runewidth.StringWidth(expandTabs(raw[start:max(end, start)]))
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if label != "" {
		marker += " " + label
	}
	p.printf("%s%s %s%s\n", pad(gutter), p.styles.frame.Sprint("|"),
		strings.Repeat(" ", indent), p.styles.mark.Sprint(marker))
}

func pad(gutter int) string {
	return strings.Repeat(" ", gutter+1)
}

// expandTabs keeps underline math and the printed line in agreement.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
