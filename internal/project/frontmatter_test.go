package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		front string
		body  string
	}{
		{
			"basic block",
			"---\ntitle: T\n---\nbody",
			"---\ntitle: T\n---",
			"body",
		},
		{
			"no block",
			"# Heading\nbody",
			"",
			"# Heading\nbody",
		},
		{
			"unterminated block is body",
			"---\ntitle: T\nbody",
			"",
			"---\ntitle: T\nbody",
		},
		{
			"delimiter must open the file",
			"\n---\ntitle: T\n---\n",
			"",
			"\n---\ntitle: T\n---\n",
		},
		{
			"empty input",
			"",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body := SplitFrontMatter(tt.text)
			require.Equal(t, tt.front, front)
			require.Equal(t, tt.body, body)
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	fm := ParseFrontMatter("---\ntitle: My Chapter\nbibliography: refs.bib\n---\nbody")
	require.Equal(t, "My Chapter", fm.Title)
	require.Equal(t, StringList{"refs.bib"}, fm.Bibliography)
}

func TestParseFrontMatterBibliographyList(t *testing.T) {
	fm := ParseFrontMatter("---\nbibliography:\n  - a.bib\n  - b.bib\n---\n")
	require.Equal(t, StringList{"a.bib", "b.bib"}, fm.Bibliography)
}

func TestParseFrontMatterDegrades(t *testing.T) {
	require.Equal(t, FrontMatter{}, ParseFrontMatter("no front matter"))
	require.Equal(t, FrontMatter{}, ParseFrontMatter("---\ntitle: [unclosed\n---\n"))
}

func TestFindQMD(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.qmd"), "# B\n")
	writeFile(t, filepath.Join(dir, "sub", "a.qmd"), "# A\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "not counted\n")

	files, err := FindQMD(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "b.qmd"),
		filepath.Join(dir, "sub", "a.qmd"),
	}, files)
}

func TestFindQMDMissingRoot(t *testing.T) {
	_, err := FindQMD(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
