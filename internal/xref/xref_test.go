package xref

import (
	"os"
	"path/filepath"
	"testing"
)

func byKind(matches []Match, kind string) []Match {
	var out []Match
	for _, m := range matches {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func TestScanTextAttrID(t *testing.T) {
	matches := scanText("/book", "intro.qmd", "# Intro {#sec-intro}\ntext")

	defs := byKind(matches, KindAttrID)
	if len(defs) != 1 {
		t.Fatalf("got %d attr defs, want 1", len(defs))
	}
	m := defs[0]
	if m.Label != "sec-intro" || m.Prefix != "sec" {
		t.Errorf("label = %q prefix = %q, want sec-intro/sec", m.Label, m.Prefix)
	}
	if m.Line != 1 || m.ColStart != 11 || m.ColEnd != 20 {
		t.Errorf("position = %d:%d-%d, want 1:11-20", m.Line, m.ColStart, m.ColEnd)
	}
	if m.Text != "{#sec-intro" {
		t.Errorf("text = %q, want {#sec-intro", m.Text)
	}
	if m.Header != "Intro" {
		t.Errorf("header = %q, want Intro", m.Header)
	}
}

func TestScanTextChunkLabelInsideFence(t *testing.T) {
	text := "```{r}\n#| label: fig-plot\nplot(x)\n```\n"
	matches := scanText("/book", "a.qmd", text)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Kind != KindChunkLabel || m.Label != "fig-plot" || m.Line != 2 {
		t.Errorf("match = %+v, want chunk_label fig-plot at line 2", m)
	}
}

func TestScanTextFenceHidesProseMatches(t *testing.T) {
	text := "```\n# H {#sec-hidden}\nsee @sec-hidden\n```\nsee @sec-shown"
	matches := scanText("/book", "a.qmd", text)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Label != "sec-shown" || matches[0].Kind != KindXref {
		t.Errorf("match = %+v, want xref sec-shown", matches[0])
	}
}

func TestScanTextCitationSkipped(t *testing.T) {
	matches := scanText("/book", "a.qmd", "see @sec-intro and [@smith2020]")

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Label != "sec-intro" {
		t.Errorf("label = %q, want sec-intro", matches[0].Label)
	}
}

func TestScanTextHeaderContext(t *testing.T) {
	text := "## Methods {#sec-m}\nsee @fig-x\n## Results\nsee @fig-y"
	matches := scanText("/book", "a.qmd", text)

	want := map[string]string{"sec-m": "Methods", "fig-x": "Methods", "fig-y": "Results"}
	for _, m := range matches {
		if h := want[m.Label]; m.Header != h {
			t.Errorf("header for %q = %q, want %q", m.Label, m.Header, h)
		}
	}
}

func TestScanTextMultipleOnLine(t *testing.T) {
	matches := scanText("/book", "a.qmd", "see @fig-a and @fig-b")

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Label != "fig-a" || matches[1].Label != "fig-b" {
		t.Errorf("labels = %q, %q, want fig-a, fig-b", matches[0].Label, matches[1].Label)
	}
	if matches[0].ColStart >= matches[1].ColStart {
		t.Error("matches not in column order")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.qmd", "# A {#sec-a}\nsee @sec-b")
	write(filepath.Join("sub", "b.qmd"), "# B {#sec-b}")
	write("notes.md", "# ignored {#sec-no}")

	matches, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(matches), matches)
	}
	if matches[0].RelPath != "a.qmd" {
		t.Errorf("RelPath = %q, want a.qmd", matches[0].RelPath)
	}
	if want := filepath.Join("sub", "b.qmd"); matches[2].RelPath != want {
		t.Errorf("RelPath = %q, want %q", matches[2].RelPath, want)
	}
}

func defMatch(file, label, kind string, line int) Match {
	return Match{RelPath: file, File: file, Label: label, Kind: kind, Line: line}
}

func refMatch(file, label string, line int) Match {
	return Match{RelPath: file, File: file, Label: label, Kind: KindXref, Line: line}
}

func TestValidateClean(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "sec-a", KindAttrID, 1),
		refMatch("b.qmd", "sec-a", 3),
	}, false)

	if !res.OK {
		t.Error("OK = false, want true")
	}
	if len(res.Duplicates)+len(res.Collisions)+len(res.Undefined)+len(res.Unused) != 0 {
		t.Errorf("clean input produced findings: %+v", res)
	}
}

func TestValidateDuplicates(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "sec-x", KindAttrID, 1),
		defMatch("a.qmd", "sec-x", KindAttrID, 9),
	}, false)

	if res.OK {
		t.Error("OK = true, want false")
	}
	if len(res.Duplicates) != 1 || len(res.Duplicates[0].Matches) != 2 {
		t.Fatalf("Duplicates = %+v, want one issue with two matches", res.Duplicates)
	}
	if len(res.Collisions) != 0 {
		t.Errorf("Collisions = %+v, want none for a single file", res.Collisions)
	}
	// Matches inside an issue are sorted by position.
	if res.Duplicates[0].Matches[0].Line != 1 {
		t.Error("issue matches not sorted by line")
	}
}

func TestValidateCollisions(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "sec-x", KindAttrID, 1),
		defMatch("b.qmd", "sec-x", KindAttrID, 2),
	}, false)

	if res.OK {
		t.Error("OK = true, want false")
	}
	if len(res.Collisions) != 1 {
		t.Fatalf("Collisions = %+v, want one", res.Collisions)
	}
	if len(res.Duplicates) != 0 {
		t.Errorf("Duplicates = %+v, want none", res.Duplicates)
	}
}

func TestValidateUndefined(t *testing.T) {
	res := Validate([]Match{refMatch("a.qmd", "sec-ghost", 4)}, false)

	if res.OK {
		t.Error("OK = true, want false")
	}
	if len(res.Undefined) != 1 || res.Undefined[0].Label != "sec-ghost" {
		t.Fatalf("Undefined = %+v, want sec-ghost", res.Undefined)
	}
}

func TestValidateUnusedIsInformational(t *testing.T) {
	res := Validate([]Match{defMatch("a.qmd", "sec-quiet", KindAttrID, 1)}, false)

	if !res.OK {
		t.Error("OK = false, want true: unused labels do not fail the audit")
	}
	if len(res.Unused) != 1 {
		t.Fatalf("Unused = %+v, want one", res.Unused)
	}
}

func TestValidateBadPrefixStrict(t *testing.T) {
	matches := []Match{
		defMatch("a.qmd", "foo-x", KindAttrID, 1),
		refMatch("a.qmd", "foo-x", 2),
	}

	lax := Validate(matches, false)
	if !lax.OK {
		t.Error("lax OK = false, want true")
	}
	if len(lax.BadPrefix) != 1 {
		t.Fatalf("BadPrefix = %+v, want one", lax.BadPrefix)
	}

	strict := Validate(matches, true)
	if strict.OK {
		t.Error("strict OK = true, want false")
	}
}

func TestValidateCrossKind(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "fig-x", KindAttrID, 1),
		defMatch("a.qmd", "fig-x", KindChunkLabel, 5),
	}, false)

	if len(res.CrossKind) != 1 {
		t.Fatalf("CrossKind = %+v, want one", res.CrossKind)
	}
	if res.CrossKind[0].Kind != "" {
		t.Errorf("mixed-kind issue Kind = %q, want empty", res.CrossKind[0].Kind)
	}
}

func TestValidateSortedByLabel(t *testing.T) {
	res := Validate([]Match{
		refMatch("a.qmd", "sec-z", 1),
		refMatch("a.qmd", "sec-a", 2),
	}, false)

	if len(res.Undefined) != 2 {
		t.Fatalf("Undefined = %+v, want two", res.Undefined)
	}
	if res.Undefined[0].Label != "sec-a" || res.Undefined[1].Label != "sec-z" {
		t.Errorf("labels = %q, %q, want sec-a, sec-z", res.Undefined[0].Label, res.Undefined[1].Label)
	}
}
