package toc

import (
	"fmt"
	"strings"
)

// Fixed render geometry (cm). The CLI exposes none of these.
const (
	columnGutterCm = 0.5
	rowGapCm       = 1.0
	sectionInsetCm = 0.15 // section boxes sit inside their chapter box
	bulletIndentCm = 0.35 // subsection bullets sit inside their section box
)

// texEscaper neutralizes TeX specials in titles. strings.Replacer works in
// a single pass, so the braces inserted for backslash are not re-escaped.
var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// Render emits the diagram as a standalone TeX document. Positions derive
// only from cumulative heights and column indexes, so output is
// byte-identical for identical tree, assignment, and configuration.
func Render(tree *Tree, asn *ColumnAssignment, cfg LayoutConfig) string {
	var sb strings.Builder
	cols := asn.Columns()

	sb.WriteString("% Generated by qmdtools toc\n")
	fmt.Fprintf(&sb, "%% chapters: %d  columns: %d  mode: %s\n", len(tree.Chapters), cols, cfg.BalanceMode)
	sb.WriteString("\\documentclass[10pt, border=5mm]{standalone}\n")
	sb.WriteString("\\usepackage{tikz}\n")
	sb.WriteString("\\usetikzlibrary{positioning}\n")
	sb.WriteString("\\begin{document}\n")
	sb.WriteString("\\begin{tikzpicture}[\n")
	sb.WriteString("  chapter/.style={draw=black, rounded corners=1pt, fill=blue!8, thick},\n")
	sb.WriteString("  chaptertitle/.style={font=\\bfseries\\small, inner sep=1pt},\n")
	sb.WriteString("  section/.style={draw=black!70, fill=blue!3, thin},\n")
	sb.WriteString("  sectiontitle/.style={font=\\small, inner sep=1pt},\n")
	sb.WriteString("  subsection/.style={font=\\scriptsize, inner sep=1pt},\n")
	sb.WriteString("  colsep/.style={dashed, draw=gray!60, thin},\n")
	sb.WriteString("  rowsep/.style={draw=gray!80, semithick},\n")
	sb.WriteString("  debugbox/.style={draw=red!40, thin},\n")
	sb.WriteString("  debuglabel/.style={font=\\tiny, text=red!70, inner sep=0.5pt},\n")
	sb.WriteString("]\n")

	rows := 0
	if cols > 0 {
		rows = (cols + cfg.MaxColumnsPerRow - 1) / cfg.MaxColumnsPerRow
	}

	// Row height is the section ceiling or the tallest column in the row,
	// whichever is larger: an oversized chapter stretches its whole row.
	rowHeights := make([]float64, rows)
	for c := 0; c < cols; c++ {
		r := c / cfg.MaxColumnsPerRow
		if rowHeights[r] < cfg.SectionMaxHeight {
			rowHeights[r] = cfg.SectionMaxHeight
		}
		if h := asn.ColumnHeight(c); h > rowHeights[r] {
			rowHeights[r] = h
		}
	}
	rowTops := make([]float64, rows)
	for r := 1; r < rows; r++ {
		rowTops[r] = rowTops[r-1] - rowHeights[r-1] - rowGapCm
	}

	for c := 0; c < cols; c++ {
		r := c / cfg.MaxColumnsPerRow
		x := float64(c%cfg.MaxColumnsPerRow) * (cfg.ColumnWidth + columnGutterCm)
		for _, ch := range asn.Column(c) {
			p, _ := asn.Placement(ch)
			if cfg.Debug {
				fmt.Fprintf(&sb, "%% chapter %d: %s (column %d, height %.2f)\n",
					ch.SourceOrder, ch.Title, c, effectiveHeight(ch, cfg))
			}
			renderChapter(&sb, ch, x, rowTops[r]-p.Offset, cfg)
		}
	}

	renderSeparators(&sb, cols, rows, rowHeights, rowTops, cfg)

	sb.WriteString("\\end{tikzpicture}\n")
	sb.WriteString("\\end{document}\n")
	return sb.String()
}

func renderChapter(sb *strings.Builder, ch *DocNode, x, y float64, cfg LayoutConfig) {
	w := cfg.ColumnWidth
	h := effectiveHeight(ch, cfg)
	fmt.Fprintf(sb, "\\draw[chapter] (%.2f,%.2f) rectangle (%.2f,%.2f);\n", x, y, x+w, y-h)
	fmt.Fprintf(sb, "\\node[chaptertitle, anchor=north west, text width=%.2fcm] at (%.2f,%.2f) {%s};\n",
		w-2*textInsetCm, x+textInsetCm, y-boxPaddingCm/2, texEscaper.Replace(ch.Title))

	cy := y - titleHeight(ch.Title, w)
	for _, sec := range ch.Children {
		renderSection(sb, sec, x, cy, cfg)
		cy -= sec.Height(cfg)
	}
	if cfg.Debug {
		debugMark(sb, x, y, x+w, y-h, ch.Depth, h)
	}
}

func renderSection(sb *strings.Builder, sec *DocNode, x, y float64, cfg LayoutConfig) {
	w := cfg.ColumnWidth
	sh := sec.Height(cfg)
	x0 := x + sectionInsetCm
	x1 := x + w - sectionInsetCm
	fmt.Fprintf(sb, "\\draw[section] (%.2f,%.2f) rectangle (%.2f,%.2f);\n", x0, y, x1, y-sh)
	fmt.Fprintf(sb, "\\node[sectiontitle, anchor=north west, text width=%.2fcm] at (%.2f,%.2f) {%s};\n",
		x1-x0-2*textInsetCm, x0+textInsetCm, y-boxPaddingCm/2, texEscaper.Replace(sec.Title))

	sy := y - titleHeight(sec.Title, w)
	for _, sub := range sec.Children {
		subH := sub.Height(cfg)
		fmt.Fprintf(sb, "\\node[subsection, anchor=north west, text width=%.2fcm] at (%.2f,%.2f) {\\textbullet\\ %s};\n",
			x1-x0-bulletIndentCm-textInsetCm, x0+bulletIndentCm, sy-boxPaddingCm/2, texEscaper.Replace(sub.Title))
		if cfg.Debug {
			debugMark(sb, x0+bulletIndentCm, sy, x1, sy-subH, sub.Depth, subH)
		}
		sy -= subH
	}
	if cfg.Debug {
		debugMark(sb, x0, y, x1, y-sh, sec.Depth, sh)
	}
}

// debugMark outlines a node's estimated extent and labels it with depth
// and height so balancing decisions can be checked visually.
func debugMark(sb *strings.Builder, x0, y0, x1, y1 float64, depth int, h float64) {
	fmt.Fprintf(sb, "\\draw[debugbox] (%.2f,%.2f) rectangle (%.2f,%.2f);\n", x0, y0, x1, y1)
	fmt.Fprintf(sb, "\\node[debuglabel, anchor=north east] at (%.2f,%.2f) {d%d %.2f};\n", x1, y0, depth, h)
}

func renderSeparators(sb *strings.Builder, cols, rows int, rowHeights, rowTops []float64, cfg LayoutConfig) {
	for c := 0; c+1 < cols; c++ {
		r := c / cfg.MaxColumnsPerRow
		if (c+1)/cfg.MaxColumnsPerRow != r {
			continue // row boundary, no vertical separator
		}
		xs := float64(c+1)*(cfg.ColumnWidth+columnGutterCm) - columnGutterCm/2
		fmt.Fprintf(sb, "\\draw[colsep] (%.2f,%.2f) -- (%.2f,%.2f);\n", xs, rowTops[r], xs, rowTops[r]-rowHeights[r])
	}

	if rows < 2 {
		return
	}
	perRow := cols
	if perRow > cfg.MaxColumnsPerRow {
		perRow = cfg.MaxColumnsPerRow
	}
	width := float64(perRow)*cfg.ColumnWidth + float64(perRow-1)*columnGutterCm
	for r := 0; r+1 < rows; r++ {
		ys := rowTops[r] - rowHeights[r] - rowGapCm/2
		fmt.Fprintf(sb, "\\draw[rowsep] (0.00,%.2f) -- (%.2f,%.2f);\n", ys, width, ys)
	}
}
