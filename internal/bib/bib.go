// Package bib trims a project's BibTeX bibliographies down to the
// entries its documents actually cite.
package bib

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/mynl/qmdtools/internal/project"
)

var citationRe = regexp.MustCompile(`@([A-Za-z0-9:_\-\.]+)`)

var fenceRe = regexp.MustCompile("^(`{3,}|~{3,})")

// xrefPrefixes are @-keys that are cross-references, not citations.
var xrefPrefixes = map[string]bool{
	"sec": true, "fig": true, "tbl": true, "eq": true, "ch": true,
	"def": true, "thm": true, "exr": true, "exm": true, "lem": true,
	"prp": true, "nte": true, "sol": true, "REF": true,
}

// Citations collects the sorted set of citation keys used across the
// given document texts. Fenced code is skipped, @-keys glued to a word
// are not citations (emails, decorators), and keys with a
// cross-reference prefix belong to xref, not to the bibliography.
func Citations(texts []string) []string {
	seen := make(map[string]bool)
	for _, text := range texts {
		inFence := false
		for _, line := range strings.Split(text, "\n") {
			if fenceRe.MatchString(line) {
				inFence = !inFence
				continue
			}
			if inFence {
				continue
			}
			for _, m := range citationRe.FindAllStringSubmatchIndex(line, -1) {
				if m[0] > 0 && wordByte(line[m[0]-1]) {
					continue
				}
				key := line[m[2]:m[3]]
				if xrefPrefixes[keyPrefix(key)] {
					continue
				}
				seen[key] = true
			}
		}
	}
	var keys []string
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func wordByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '@':
		return true
	}
	return false
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, '-'); i > 0 {
		return key[:i]
	}
	return ""
}

// Paths resolves the bibliography files declared in the documents' front
// matter, relative to each document, first declaration wins.
func Paths(files []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		fm := project.ParseFrontMatter(string(data))
		for _, b := range fm.Bibliography {
			p := b
			if !filepath.IsAbs(p) {
				p = filepath.Join(filepath.Dir(f), p)
			}
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

// Load parses and merges the given BibTeX files.
func Load(paths []string) (*bibtex.BibTex, error) {
	merged := bibtex.NewBibTex()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open bibliography: %w", err)
		}
		bt, err := bibtex.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		for _, e := range bt.Entries {
			merged.AddEntry(e)
		}
	}
	return merged, nil
}

// Trim returns a bibliography holding only the cited entries, ordered by
// cite name. When the same name is defined twice the first entry wins.
func Trim(bt *bibtex.BibTex, cited []string) *bibtex.BibTex {
	byName := make(map[string]*bibtex.BibEntry, len(bt.Entries))
	for _, e := range bt.Entries {
		if byName[e.CiteName] == nil {
			byName[e.CiteName] = e
		}
	}

	names := slices.Clone(cited)
	slices.Sort(names)

	out := bibtex.NewBibTex()
	for _, name := range names {
		if e := byName[name]; e != nil {
			out.AddEntry(e)
		}
	}
	return out
}

// Missing lists cited keys with no bibliography entry, sorted.
func Missing(bt *bibtex.BibTex, cited []string) []string {
	have := make(map[string]bool, len(bt.Entries))
	for _, e := range bt.Entries {
		have[e.CiteName] = true
	}
	var missing []string
	for _, c := range cited {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	slices.Sort(missing)
	return missing
}

// Unused lists bibliography entries never cited, sorted.
func Unused(bt *bibtex.BibTex, cited []string) []string {
	want := make(map[string]bool, len(cited))
	for _, c := range cited {
		want[c] = true
	}
	seen := make(map[string]bool)
	var unused []string
	for _, e := range bt.Entries {
		if !want[e.CiteName] && !seen[e.CiteName] {
			seen[e.CiteName] = true
			unused = append(unused, e.CiteName)
		}
	}
	slices.Sort(unused)
	return unused
}

// WriteBib writes the bibliography in BibTeX form.
func WriteBib(path string, bt *bibtex.BibTex) error {
	return os.WriteFile(path, []byte(bt.String()), 0o644)
}
