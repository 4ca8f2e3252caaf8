// Package project locates Quarto book projects and turns them into an
// ordered list of document sources. Resolution picks the project base
// directory from whatever the user pointed at; discovery applies the
// explicit-files, glob-patterns, manifest precedence to produce the
// reading order.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Context is the resolved location of a project: where its documents
// live and how they were selected.
type Context struct {
	// BaseDir anchors patterns, explicit files, and manifest chapters.
	BaseDir string
	// ProjectFile is the _quarto.yml manifest path, empty when none exists.
	ProjectFile string
	// Patterns are glob patterns relative to BaseDir, tried before the manifest.
	Patterns []string
	// Explicit files are used as-is and take precedence over everything.
	Explicit []string
}

var manifestNames = []string{"_quarto.yml", "_quarto.yaml"}

// Resolve maps the input path to a project context. A directory is taken
// as the project base; a manifest path forces manifest mode; a .qmd file
// narrows the project to that single document; any other file selects
// its parent directory.
func Resolve(input string, patterns, explicit []string) (Context, error) {
	info, err := os.Stat(input)
	if err != nil {
		return Context{}, fmt.Errorf("resolve %s: %w", input, err)
	}

	ctx := Context{Patterns: patterns, Explicit: explicit}
	switch {
	case info.IsDir():
		ctx.BaseDir = input
		ctx.ProjectFile = findManifest(input)
	case isManifestName(filepath.Base(input)):
		ctx.BaseDir = filepath.Dir(input)
		ctx.ProjectFile = input
	case filepath.Ext(input) == ".qmd":
		// A single document is its own project: patterns from the
		// command line would drag in siblings, so they are dropped.
		ctx.BaseDir = filepath.Dir(input)
		ctx.Patterns = nil
		if len(ctx.Explicit) == 0 {
			ctx.Explicit = []string{filepath.Base(input)}
		}
	default:
		ctx.BaseDir = filepath.Dir(input)
		ctx.ProjectFile = findManifest(ctx.BaseDir)
	}
	return ctx, nil
}

func isManifestName(name string) bool {
	for _, m := range manifestNames {
		if name == m {
			return true
		}
	}
	return false
}

// findManifest returns the manifest path inside dir, preferring the .yml
// spelling, or the empty string.
func findManifest(dir string) string {
	for _, m := range manifestNames {
		p := filepath.Join(dir, m)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
