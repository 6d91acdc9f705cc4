package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"errtax/internal/diag"
	"errtax/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с
// аналогичным форматом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	st := newPrettyStyles(opts.Color)
	items := bag.Items()
	for i := range items {
		writeDiagnostic(w, &items[i], fs, opts, st)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, st prettyStyles) {
	sev := st.severity(d.Severity)
	writeHeader(w, fs, d.Primary, opts.PathMode,
		sev.Sprint(d.Severity.String()),
		sev.Sprint(d.Code.ID()),
		st.message.Sprint(d.Message))
	writeSnippet(w, fs, d.Primary, int(opts.Context), sev)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		writeHeader(w, fs, note.Span, opts.PathMode, st.note.Sprint("NOTE"), "", note.Msg)
		writeSnippet(w, fs, note.Span, 0, st.note)
	}
}

// writeHeader prints the locus line. code пустой у заметок.
func writeHeader(w io.Writer, fs *source.FileSet, sp source.Span, mode PathMode, sev, code, msg string) {
	start, _ := fs.Resolve(sp)
	if code != "" {
		sev += " " + code
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", displayPath(fs, sp.File, mode), start.Line, start.Col, sev, msg)
}

// writeSnippet prints the span line (with ctx lines around it) and the
// ^~~~ marker. Многострочный span подчёркивается до конца своей первой
// строки.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, ctx int, mark *color.Color) {
	f := fs.Get(sp.File)
	if len(f.Content) == 0 {
		return
	}
	start, _ := fs.Resolve(sp)
	spanLine := int(start.Line)
	lastLine := len(f.LineIdx) + 1

	for ln := spanLine - ctx; ln <= spanLine+ctx; ln++ {
		if ln < 1 || ln > lastLine {
			continue
		}
		text := f.GetLine(uint32(ln))
		fmt.Fprintf(w, "    %s\n", expandTabs(text))

		if ln != spanLine {
			continue
		}
		from := int(start.Col) - 1
		if from > len(text) {
			from = len(text)
		}
		to := from + int(sp.Len())
		if to > len(text) {
			to = len(text)
		}
		indent := runewidth.StringWidth(expandTabs(text[:from]))
		width := runewidth.StringWidth(expandTabs(text[from:max(to, from)]))
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", indent),
			mark.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

type prettyStyles struct {
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	note    *color.Color
	message *color.Color
}

func newPrettyStyles(enabled bool) prettyStyles {
	st := prettyStyles{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgCyan),
		message: color.New(color.Bold),
	}
	for _, c := range []*color.Color{st.err, st.warn, st.info, st.note, st.message} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return st
}

func (st prettyStyles) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return st.err
	case diag.SevWarning:
		return st.warn
	default:
		return st.info
	}
}

// expandTabs keeps the marker row aligned with the printed line.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
