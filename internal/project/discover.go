package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one document feeding the pipeline, with the include files it
// pulls in. Includes matter for dependency reporting, not for reading
// order: expansion re-discovers them while splicing.
type Source struct {
	Path     string
	Includes []string
}

// manifest mirrors the subset of _quarto.yml the pipeline needs. Chapter
// entries are kept as raw nodes because Quarto allows both plain paths
// and part groupings in the same list.
type manifest struct {
	Title string `yaml:"title"`
	Book  struct {
		Title    string      `yaml:"title"`
		Chapters []yaml.Node `yaml:"chapters"`
	} `yaml:"book"`
}

type part struct {
	Part     string   `yaml:"part"`
	Chapters []string `yaml:"chapters"`
}

// Discover produces the project's documents in reading order and its
// title, if one is known. Explicit files win over patterns, patterns win
// over the manifest; only the manifest carries a project title and
// include information.
func Discover(ctx Context) ([]Source, string, error) {
	if len(ctx.Explicit) > 0 {
		var sources []Source
		for _, f := range ctx.Explicit {
			sources = append(sources, Source{Path: ctx.join(f)})
		}
		return sources, "", nil
	}

	if len(ctx.Patterns) > 0 {
		var sources []Source
		for _, pat := range ctx.Patterns {
			matches, err := filepath.Glob(filepath.Join(ctx.BaseDir, pat))
			if err != nil {
				return nil, "", fmt.Errorf("pattern %q: %w", pat, err)
			}
			slices.Sort(matches)
			for _, m := range matches {
				sources = append(sources, Source{Path: m})
			}
		}
		if len(sources) == 0 {
			return nil, "", fmt.Errorf("no documents match patterns %v under %s", ctx.Patterns, ctx.BaseDir)
		}
		return sources, "", nil
	}

	return discoverManifest(ctx)
}

func discoverManifest(ctx Context) ([]Source, string, error) {
	if ctx.ProjectFile == "" {
		return nil, "", fmt.Errorf("no project file found in %s and no files or patterns given", ctx.BaseDir)
	}
	data, err := os.ReadFile(ctx.ProjectFile)
	if err != nil {
		return nil, "", fmt.Errorf("read project file: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", ctx.ProjectFile, err)
	}

	var chapters []string
	for _, node := range m.Book.Chapters {
		switch node.Kind {
		case yaml.ScalarNode:
			var s string
			if err := node.Decode(&s); err != nil {
				return nil, "", fmt.Errorf("parse %s: %w", ctx.ProjectFile, err)
			}
			chapters = append(chapters, s)
		case yaml.MappingNode:
			var p part
			if err := node.Decode(&p); err != nil {
				return nil, "", fmt.Errorf("parse %s: %w", ctx.ProjectFile, err)
			}
			chapters = append(chapters, p.Chapters...)
		}
	}
	if len(chapters) == 0 {
		return nil, "", fmt.Errorf("project file %s lists no chapters", ctx.ProjectFile)
	}

	title := m.Book.Title
	if title == "" {
		title = m.Title
	}

	var sources []Source
	for _, ch := range chapters {
		path := ctx.join(ch)
		sources = append(sources, Source{Path: path, Includes: scanIncludes(path)})
	}
	return sources, title, nil
}

// scanIncludes lists the include targets a chapter file references,
// resolved relative to the file. Unreadable chapters yield no includes;
// expansion will surface the real error.
func scanIncludes(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var includes []string
	for _, line := range strings.Split(string(data), "\n") {
		if m := includePattern.FindStringSubmatch(line); m != nil {
			includes = append(includes, filepath.Join(filepath.Dir(path), trimIncludeTarget(m[1])))
		}
	}
	return includes
}

func (c Context) join(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
