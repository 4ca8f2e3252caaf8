package toc

import (
	"strings"
	"testing"
)

func renderFixture(t *testing.T, heights []float64, cfg LayoutConfig) (string, *Tree, *ColumnAssignment) {
	t.Helper()
	tree := &Tree{Chapters: presetChapters(heights...)}
	a := stableBalancer{}.Assign(tree.Chapters, cfg)
	return Render(tree, a, cfg), tree, a
}

func TestRenderDocumentShell(t *testing.T) {
	cfg := DefaultLayoutConfig()
	out, _, _ := renderFixture(t, []float64{3, 3}, cfg)

	for _, want := range []string{
		"% Generated by qmdtools toc",
		"\\documentclass[10pt, border=5mm]{standalone}",
		"\\usepackage{tikz}",
		"\\begin{tikzpicture}",
		"\\draw[chapter]",
		"\\end{tikzpicture}",
		"\\end{document}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, "\\draw[chapter]"); got != 2 {
		t.Errorf("chapter boxes = %d, want 2", got)
	}
}

func TestRenderEscapesTitles(t *testing.T) {
	cfg := DefaultLayoutConfig()
	tree := &Tree{Chapters: []*DocNode{{
		Title: `Profit & Loss 50%_x {y} #2 ~a^b \z`,
		Depth: 1,
	}}}
	a := stableBalancer{}.Assign(tree.Chapters, cfg)
	out := Render(tree, a, cfg)

	want := `Profit \& Loss 50\%\_x \{y\} \#2 \textasciitilde{}a\textasciicircum{}b \textbackslash{}z`
	if !strings.Contains(out, want) {
		t.Errorf("escaped title %q not found in output", want)
	}
	if strings.Contains(out, "50%_") {
		t.Error("raw TeX specials leaked into output")
	}
}

func TestRenderDeterministic(t *testing.T) {
	docs := []Document{
		{ID: "a.qmd", Text: "# Alpha\n## One\n### Deep\n## Two"},
		{ID: "b.qmd", Text: "# Beta\n## Three"},
	}
	cfg := DefaultLayoutConfig()
	tree := mustBuild(t, docs, cfg, -1)
	b, err := NewBalancer(cfg.BalanceMode)
	if err != nil {
		t.Fatalf("NewBalancer() error = %v", err)
	}

	first := Render(tree, b.Assign(tree.Chapters, cfg), cfg)
	second := Render(tree, b.Assign(tree.Chapters, cfg), cfg)
	if first != second {
		t.Error("repeated renders of the same tree differ")
	}
}

func TestRenderDebugAnnotations(t *testing.T) {
	docs := []Document{{ID: "a.qmd", Text: "# Alpha\n## One\n### Deep"}}

	cfg := DefaultLayoutConfig()
	tree := mustBuild(t, docs, cfg, -1)
	a := stableBalancer{}.Assign(tree.Chapters, cfg)
	plain := Render(tree, a, cfg)
	if strings.Contains(plain, "\\draw[debugbox]") || strings.Contains(plain, "% chapter ") {
		t.Error("debug annotations present without Debug set")
	}

	cfg.Debug = true
	debug := Render(tree, a, cfg)
	if !strings.Contains(debug, "% chapter 0: Alpha") {
		t.Error("debug output missing chapter comment")
	}
	if !strings.Contains(debug, "\\draw[debugbox]") {
		t.Error("debug output missing extent boxes")
	}
}

func TestRenderRowWrap(t *testing.T) {
	cfg := DefaultLayoutConfig()
	cfg.SectionMaxHeight = 10
	cfg.MaxColumnsPerRow = 2

	// Three full columns wrap onto two rows.
	out, _, _ := renderFixture(t, []float64{9, 9, 9}, cfg)

	if got := strings.Count(out, "\\draw[rowsep]"); got != 1 {
		t.Errorf("row separators = %d, want 1", got)
	}
	// Only columns sharing a row get a vertical separator between them.
	if got := strings.Count(out, "\\draw[colsep]"); got != 1 {
		t.Errorf("column separators = %d, want 1", got)
	}
}

func TestRenderEmptyTree(t *testing.T) {
	cfg := DefaultLayoutConfig()
	out := Render(&Tree{}, newColumnAssignment(), cfg)

	if !strings.Contains(out, "\\begin{document}") || !strings.Contains(out, "\\end{document}") {
		t.Error("empty tree should still render a complete document")
	}
	if strings.Contains(out, "\\draw[chapter]") {
		t.Error("empty tree rendered chapter boxes")
	}
}
