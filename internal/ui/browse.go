package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/emit"
	"errtax/internal/msgfmt"
)

type browseRow struct {
	code  string
	ident string
	label string
	kind  errtax.Kind
	desc  *emit.VariantDescriptor
}

type browseModel struct {
	taxonomy string
	rows     []browseRow
	visible  []int // индексы rows, прошедшие фильтр
	cursor   int   // позиция курсора внутри visible
	filter   textinput.Model
	typing   bool // фокус в строке фильтра
	width    int
	height   int
}

// NewBrowseModel returns a Bubble Tea model that lists the compiled
// variants of one taxonomy: cursor navigation, '/' filter, detail pane
// for the selected variant.
func NewBrowseModel(art *emit.Artifact) tea.Model {
	filter := textinput.New()
	filter.Placeholder = "code, name or label"
	filter.Prompt = "/"
	filter.CharLimit = 64

	rows := make([]browseRow, 0, len(art.Descriptors))
	for i := range art.Descriptors {
		d := &art.Descriptors[i]
		rows = append(rows, browseRow{
			code:  d.Code,
			ident: d.Ident,
			label: d.Label.Render(msgfmt.Args{}),
			kind:  d.Kind,
			desc:  d,
		})
	}

	m := &browseModel{
		taxonomy: art.Name + art.Generics,
		rows:     rows,
		filter:   filter,
		width:    80,
		height:   24,
	}
	m.applyFilter()
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.visible) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "/":
			m.typing = true
			return m, m.filter.Focus()
		}
		return m, nil
	}
	return m, nil
}

// updateFilter routes keys into the filter input while it holds focus.
func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.typing = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.typing = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes visible rows and keeps the cursor in range.
func (m *browseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, row := range m.rows {
		if query == "" || rowMatches(row, query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func rowMatches(row browseRow, query string) bool {
	return strings.Contains(strings.ToLower(row.code), query) ||
		strings.Contains(strings.ToLower(row.ident), query) ||
		strings.Contains(strings.ToLower(row.label), query)
}

func (m *browseModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	header := fmt.Sprintf("%s — %d variant(s)", m.taxonomy, len(m.rows))
	if len(m.visible) != len(m.rows) {
		header += fmt.Sprintf(", %d shown", len(m.visible))
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if m.typing || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("  no variants match"))
		b.WriteString("\n")
	}

	nameWidth := m.width - 16
	if nameWidth < 20 {
		nameWidth = 20
	}
	for pos, idx := range m.visible {
		row := m.rows[idx]
		marker := "  "
		if pos == m.cursor {
			marker = "> "
		}
		code := styleKind(row.kind).Render(fmt.Sprintf("%-4s", row.code))
		line := fmt.Sprintf("%s%s %s", marker, code, truncate(row.ident, nameWidth))
		if pos == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if sel := m.selected(); sel != nil {
		b.WriteString("\n")
		b.WriteString(m.detailView(sel))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · / filter · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *browseModel) selected() *emit.VariantDescriptor {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.rows[m.visible[m.cursor]].desc
}

// detailView renders the pane below the listing for one descriptor.
func (m *browseModel) detailView(d *emit.VariantDescriptor) string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	line := func(key, value string) string {
		return fmt.Sprintf("%s %s", keyStyle.Render(fmt.Sprintf("%-7s", key)), value)
	}

	lines := []string{
		line("code", fmt.Sprintf("%s (%s)", d.Code, d.Kind)),
		line("msg", d.Message.Source),
	}
	if d.Label.Source != d.Message.Source {
		lines = append(lines, line("label", d.Label.Source))
	}
	lines = append(lines, line("shape", shapeText(d.Shape)))
	lines = append(lines, line("span", spanRuleText(d.SpanRule)))
	if d.Nested {
		lines = append(lines, line("nested", "wraps its payload diagnostics"))
	}

	body := strings.Join(lines, "\n")
	width := m.width - 4
	if width > 0 {
		pane = pane.Width(width)
	}
	return pane.Render(body)
}

func shapeText(shape ast.FieldShape) string {
	switch shape.Kind {
	case ast.ShapeUnit:
		return "unit"
	case ast.ShapeNamed:
		parts := make([]string, len(shape.Fields))
		for i, f := range shape.Fields {
			parts[i] = f.Name + ": " + f.Type.Text
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case ast.ShapePositional:
		parts := make([]string, len(shape.Fields))
		for i, f := range shape.Fields {
			parts[i] = f.Type.Text
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return shape.Kind.String()
}

func spanRuleText(rule emit.SpanRule) string {
	if !rule.FromField {
		return "default (empty span)"
	}
	if rule.Name != "" {
		return fmt.Sprintf("field %q", rule.Name)
	}
	return fmt.Sprintf("field %d", rule.Index)
}

func styleKind(kind errtax.Kind) lipgloss.Style {
	if kind == errtax.KindWarn {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
