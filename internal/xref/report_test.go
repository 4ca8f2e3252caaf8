package xref

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatReport(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "sec-a", KindAttrID, 1),
		refMatch("a.qmd", "sec-ghost", 2),
	}, false)

	var buf bytes.Buffer
	FormatReport(&buf, res)
	out := buf.String()

	for _, want := range []string{
		"cross-reference audit",
		"1 definitions, 1 references",
		"undefined references",
		"sec-ghost",
		"a.qmd:2:",
		"problems found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReportClean(t *testing.T) {
	res := Validate([]Match{
		defMatch("a.qmd", "sec-a", KindAttrID, 1),
		refMatch("a.qmd", "sec-a", 2),
	}, false)

	var buf bytes.Buffer
	FormatReport(&buf, res)

	if !strings.Contains(buf.String(), "ok") {
		t.Errorf("clean report missing ok badge:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "undefined references") {
		t.Error("clean report lists empty sections")
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	res := Validate([]Match{
		{RelPath: "a.qmd", File: "a.qmd", Label: "sec-a", Kind: KindAttrID,
			Line: 1, ColStart: 11, ColEnd: 16, Text: "{#sec-a", Prefix: "sec", Header: "A"},
		refMatch("b.qmd", "sec-a", 3),
	}, false)

	prefix := filepath.Join(dir, "labels")
	if err := WriteCSV(prefix, res); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	f, err := os.Open(prefix + "_defs.csv")
	if err != nil {
		t.Fatalf("defs csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse defs csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("defs csv has %d rows, want header plus one", len(rows))
	}
	if rows[0][0] != "path" || rows[0][4] != "label" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "a.qmd" || rows[1][4] != "sec-a" || rows[1][1] != "1" {
		t.Errorf("def row = %v", rows[1])
	}

	if _, err := os.Stat(prefix + "_refs.csv"); err != nil {
		t.Errorf("refs csv: %v", err)
	}
}
