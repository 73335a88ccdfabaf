// Package render draws node and edge tables for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(Highlight)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(Highlight)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Italic(true).Foreground(Subtle)
)

// Table renders t with at most maxRows rows; maxRows <= 0 renders every row. Null cells
// are blank.
func Table(t *table.Table, maxRows int) string {
	if t == nil {
		return noteStyle.Render("(no table)")
	}
	n := t.Len()
	if maxRows > 0 {
		n = min(n, maxRows)
	}

	rows := make([][]string, 0, n)
	for r := range t.Slice(0, n).Rows() {
		cells := make([]string, 0, r.Len())
		for _, k := range r.Keys() {
			v, _ := r.Get(k)
			cells = append(cells, Cell(v))
		}
		rows = append(rows, cells)
	}

	out := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Subtle)).
		Headers(t.Columns()...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()

	if hidden := t.Len() - n; hidden > 0 {
		out += "\n" + noteStyle.Render(fmt.Sprintf("… %d more rows", hidden))
	}
	return out
}

// Graph renders the node and edge tables of g under titled headings.
func Graph(g graph.Graph, maxRows int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("nodes (%s)", rowCount(g.Nodes()))))
	b.WriteString("\n")
	b.WriteString(Table(g.Nodes(), maxRows))
	b.WriteString("\n\n")
	b.WriteString(TitleStyle.Render(fmt.Sprintf("edges (%s)", rowCount(g.Edges()))))
	b.WriteString("\n")
	b.WriteString(Table(g.Edges(), maxRows))
	b.WriteString("\n")
	return b.String()
}

// Cell formats one value; null is the empty string.
func Cell(v any) string {
	if table.IsNull(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func rowCount(t *table.Table) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("%d rows", t.Len())
}
