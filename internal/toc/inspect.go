package toc

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// headerStyle for table headers and the project title line
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// chapterStyle for chapter titles in the outline
	chapterStyle = lipgloss.NewStyle().
			Bold(true)

	// warnStyle marks chapters taller than the section ceiling
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// cellStyle pads ordinary table cells
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// borderStyle frames the summary table
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// FormatOutline writes the tree as an indented outline. The title line is
// skipped when the project has no title.
func FormatOutline(w io.Writer, title string, tree *Tree) {
	if title != "" {
		fmt.Fprintln(w, headerStyle.Render(title))
	}
	for _, ch := range tree.Chapters {
		fmt.Fprintln(w, chapterStyle.Render(ch.Title))
		for _, sec := range ch.Children {
			fmt.Fprintf(w, "  %s\n", sec.Title)
			for _, sub := range sec.Children {
				fmt.Fprintf(w, "    %s\n", dimStyle.Render("- "+sub.Title))
			}
		}
	}
}

// FormatSummary writes the per-chapter placement table: estimated heights,
// column index, and vertical offset. Chapters taller than the section
// ceiling are highlighted.
func FormatSummary(w io.Writer, tree *Tree, asn *ColumnAssignment, cfg LayoutConfig) {
	oversized := make(map[int]bool)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case oversized[row]:
				return warnStyle.Padding(0, 1)
			default:
				return cellStyle
			}
		}).
		Headers("#", "CHAPTER", "SECTIONS", "HEIGHT", "COLUMN", "OFFSET")

	for i, ch := range tree.Chapters {
		h := effectiveHeight(ch, cfg)
		if h > cfg.SectionMaxHeight {
			oversized[i] = true
		}
		col, offset := "-", "-"
		if p, ok := asn.Placement(ch); ok {
			col = fmt.Sprintf("%d", p.Column)
			offset = fmt.Sprintf("%.2f", p.Offset)
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			ch.Title,
			fmt.Sprintf("%d", len(ch.Children)),
			fmt.Sprintf("%.2f", h),
			col,
			offset,
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d chapters in %d columns (max height %.2fcm, %s)",
		len(tree.Chapters), asn.Columns(), cfg.SectionMaxHeight, cfg.BalanceMode)))
}
