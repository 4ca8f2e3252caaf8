package xref

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// FormatReport writes the human-readable audit summary. Blocking
// findings come first, informational ones after, each label with the
// locations involved.
func FormatReport(w io.Writer, res *Result) {
	fmt.Fprintln(w, titleStyle.Render("cross-reference audit"))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d definitions, %d references", len(res.Defs), len(res.Refs))))

	sections := []struct {
		name   string
		style  lipgloss.Style
		issues []Issue
	}{
		{"duplicate labels", failStyle, res.Duplicates},
		{"colliding labels", failStyle, res.Collisions},
		{"undefined references", failStyle, res.Undefined},
		{"unrecognized prefixes", warnStyle, res.BadPrefix},
		{"cross-kind definitions", infoStyle, res.CrossKind},
		{"unused labels", infoStyle, res.Unused},
	}
	for _, s := range sections {
		if len(s.issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", s.style.Render(s.name), len(s.issues))
		for _, is := range s.issues {
			fmt.Fprintf(w, "  %s\n", labelStyle.Render(is.Label))
			for _, m := range is.Matches {
				loc := fmt.Sprintf("%s:%d:%d", m.RelPath, m.Line, m.ColStart)
				fmt.Fprintf(w, "    %s %s\n", loc, dimStyle.Render(m.Kind))
			}
		}
	}

	fmt.Fprintln(w)
	if res.OK {
		fmt.Fprintln(w, okStyle.Render("ok"))
	} else {
		fmt.Fprintln(w, failStyle.Render("problems found"))
	}
}

// WriteCSV dumps definitions and references to {prefix}_defs.csv and
// {prefix}_refs.csv for spreadsheet triage.
func WriteCSV(prefix string, res *Result) error {
	if err := writeMatchCSV(prefix+"_defs.csv", res.Defs); err != nil {
		return err
	}
	return writeMatchCSV(prefix+"_refs.csv", res.Refs)
}

func writeMatchCSV(path string, matches []Match) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"path", "line", "col_start", "col_end", "label", "kind", "prefix", "header", "text",
	}); err != nil {
		f.Close()
		return err
	}
	for _, m := range matches {
		if err := w.Write([]string{
			m.RelPath,
			strconv.Itoa(m.Line),
			strconv.Itoa(m.ColStart),
			strconv.Itoa(m.ColEnd),
			m.Label,
			m.Kind,
			m.Prefix,
			m.Header,
			m.Text,
		}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
