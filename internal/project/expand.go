package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// includePattern matches a Quarto include shortcode alone on its line:
// {{< include _body.qmd >}}.
var includePattern = regexp.MustCompile(`^\s*\{\{\<\s*include\s+([^>]+?)\s*\>\}\}\s*$`)

// Expand reads a document and splices every include shortcode in place,
// recursively. The root document keeps its front matter; included files
// have theirs stripped so the result stays a single valid document. A
// file reached twice is not spliced again: the directive is replaced
// with a comment and expansion continues.
func Expand(path string) (string, error) {
	lines, err := expandFile(path, make(map[string]bool), true)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func expandFile(path string, visited map[string]bool, root bool) ([]string, error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if visited[key] {
		return []string{fmt.Sprintf("<!-- cyclic include of %s skipped -->", path)}, nil
	}
	visited[key] = true

	data, err := os.ReadFile(path)
	if err != nil {
		if root {
			return nil, fmt.Errorf("expand %s: %w", path, err)
		}
		return nil, fmt.Errorf("include %s: %w", path, err)
	}
	text := string(data)
	if !root {
		_, text = SplitFrontMatter(text)
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := includePattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		target := filepath.Join(filepath.Dir(path), trimIncludeTarget(m[1]))
		sub, err := expandFile(target, visited, false)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func trimIncludeTarget(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
