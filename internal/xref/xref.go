// Package xref audits cross-reference labels across a directory of
// Quarto documents: where labels are defined, where they are referenced,
// and which definitions clash or dangle.
package xref

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/mynl/qmdtools/internal/project"
)

// Match kinds. Attribute identifiers and chunk labels define labels;
// @-style cross-references use them.
const (
	KindAttrID     = "attr_id"
	KindChunkLabel = "chunk_label"
	KindXref       = "xref"
)

// KnownPrefixes are the label prefixes Quarto gives reference semantics.
var KnownPrefixes = map[string]bool{
	"sec": true, "fig": true, "tbl": true, "eq": true, "lst": true,
	"algo": true, "thm": true, "lem": true, "cor": true, "def": true,
	"prp": true, "exm": true, "app": true, "ch": true,
}

var (
	fenceRe      = regexp.MustCompile("^(`{3,}|~{3,})")
	headingRe    = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	headingAttrs = regexp.MustCompile(`\s*\{[^{}]*\}\s*$`)
	attrIDRe     = regexp.MustCompile(`\{#([A-Za-z0-9:_\-\.]+)`)
	chunkRe      = regexp.MustCompile(`^\s*#\|\s*label\s*:\s*([A-Za-z0-9:_\-\.]+)\s*$`)
	xrefRe       = regexp.MustCompile(`@([A-Za-z0-9:_\-\.]+)`)
)

// Match is one label occurrence. Line is 1-based; ColStart and ColEnd
// are 1-based byte columns delimiting the label itself, half open.
type Match struct {
	Dir      string
	File     string
	RelPath  string
	Line     int
	ColStart int
	ColEnd   int
	Text     string // raw matched text, label plus its decoration
	Label    string
	Kind     string
	Prefix   string // label prefix before the first dash, "" when none
	Header   string // nearest preceding heading, "" before the first
}

// ScanDir walks root for .qmd files and returns every label occurrence
// in them, in file and line order.
func ScanDir(root string) ([]Match, error) {
	files, err := project.FindQMD(root)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		matches = append(matches, scanText(filepath.Dir(path), rel, string(data))...)
	}
	return matches, nil
}

// scanText scans one document. Fenced code hides attribute identifiers
// and references, but chunk labels live inside executable fences, so
// those are collected everywhere.
func scanText(dir, rel, text string) []Match {
	var matches []Match
	file := filepath.Base(rel)
	header := ""
	inFence := false

	add := func(lineNo int, span []int, line, label, kind string) {
		matches = append(matches, Match{
			Dir:      dir,
			File:     file,
			RelPath:  rel,
			Line:     lineNo,
			ColStart: span[2] + 1,
			ColEnd:   span[3] + 1,
			Text:     line[span[0]:span[1]],
			Label:    label,
			Kind:     kind,
			Prefix:   labelPrefix(label),
			Header:   header,
		})
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		lineNo := i + 1

		if m := chunkRe.FindStringSubmatchIndex(line); m != nil {
			add(lineNo, m, line, line[m[2]:m[3]], KindChunkLabel)
			continue
		}
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if h := headingRe.FindStringSubmatch(line); h != nil {
			header = strings.TrimSpace(headingAttrs.ReplaceAllString(h[1], ""))
		}
		for _, m := range attrIDRe.FindAllStringSubmatchIndex(line, -1) {
			add(lineNo, m, line, line[m[2]:m[3]], KindAttrID)
		}
		for _, m := range xrefRe.FindAllStringSubmatchIndex(line, -1) {
			// [@key] is a citation, not a cross-reference.
			if m[0] > 0 && line[m[0]-1] == '[' {
				continue
			}
			add(lineNo, m, line, line[m[2]:m[3]], KindXref)
		}
	}
	return matches
}

func labelPrefix(label string) string {
	if i := strings.IndexByte(label, '-'); i > 0 {
		return label[:i]
	}
	return ""
}

// Issue groups the matches behind one finding about one label.
type Issue struct {
	Label   string
	Kind    string
	Matches []Match
}

// Result is the audit outcome. Duplicates, collisions, and undefined
// references always count against OK; bad prefixes only under strict.
// Cross-kind definitions and unused labels are informational.
type Result struct {
	Defs       []Match
	Refs       []Match
	Duplicates []Issue // same label defined twice in one file
	Collisions []Issue // same label defined in several files
	CrossKind  []Issue // same label defined by both mechanisms
	Undefined  []Issue // referenced but never defined
	Unused     []Issue // defined but never referenced
	BadPrefix  []Issue // defined with an unrecognized prefix
	OK         bool
}

// Validate checks every label occurrence against the others.
func Validate(matches []Match, strict bool) *Result {
	res := &Result{}
	defs := make(map[string][]Match)
	refs := make(map[string][]Match)
	for _, m := range matches {
		if m.Kind == KindXref {
			res.Refs = append(res.Refs, m)
			refs[m.Label] = append(refs[m.Label], m)
		} else {
			res.Defs = append(res.Defs, m)
			defs[m.Label] = append(defs[m.Label], m)
		}
	}

	for label, ds := range defs {
		byFile := make(map[string][]Match)
		kinds := make(map[string]bool)
		for _, d := range ds {
			byFile[d.RelPath] = append(byFile[d.RelPath], d)
			kinds[d.Kind] = true
		}

		var dups []Match
		for _, fileDefs := range byFile {
			if len(fileDefs) > 1 {
				dups = append(dups, fileDefs...)
			}
		}
		if len(dups) > 0 {
			res.Duplicates = append(res.Duplicates, issue(label, dups))
		}
		if len(byFile) > 1 {
			res.Collisions = append(res.Collisions, issue(label, ds))
		}
		if len(kinds) > 1 {
			res.CrossKind = append(res.CrossKind, issue(label, ds))
		}
		if len(refs[label]) == 0 {
			res.Unused = append(res.Unused, issue(label, ds))
		}
		if p := labelPrefix(label); !KnownPrefixes[p] {
			res.BadPrefix = append(res.BadPrefix, issue(label, ds))
		}
	}
	for label, rs := range refs {
		if len(defs[label]) == 0 {
			res.Undefined = append(res.Undefined, issue(label, rs))
		}
	}

	for _, issues := range [][]Issue{
		res.Duplicates, res.Collisions, res.CrossKind,
		res.Undefined, res.Unused, res.BadPrefix,
	} {
		slices.SortFunc(issues, func(a, b Issue) int { return cmp.Compare(a.Label, b.Label) })
	}

	res.OK = len(res.Duplicates) == 0 &&
		len(res.Collisions) == 0 &&
		len(res.Undefined) == 0 &&
		(!strict || len(res.BadPrefix) == 0)
	return res
}

func issue(label string, ms []Match) Issue {
	ms = slices.Clone(ms)
	slices.SortFunc(ms, func(a, b Match) int {
		return cmp.Or(
			cmp.Compare(a.RelPath, b.RelPath),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.ColStart, b.ColStart),
		)
	})
	kind := ms[0].Kind
	for _, m := range ms[1:] {
		if m.Kind != kind {
			kind = ""
			break
		}
	}
	return Issue{Label: label, Kind: kind, Matches: ms}
}
