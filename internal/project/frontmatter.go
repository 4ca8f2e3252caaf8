package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the subset of document metadata the tools read.
type FrontMatter struct {
	Title        string     `yaml:"title"`
	Bibliography StringList `yaml:"bibliography"`
}

// StringList accepts both YAML spellings of a file list: a single scalar
// or a sequence.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v string
		if err := value.Decode(&v); err != nil {
			return err
		}
		*s = StringList{v}
		return nil
	case yaml.SequenceNode:
		var vs []string
		if err := value.Decode(&vs); err != nil {
			return err
		}
		*s = StringList(vs)
		return nil
	default:
		return fmt.Errorf("expected string or list, got YAML kind %d", value.Kind)
	}
}

// SplitFrontMatter cuts a document into its leading --- delimited YAML
// block and the body. The front half includes both delimiter lines. A
// missing or unterminated block returns the whole text as body.
func SplitFrontMatter(text string) (front, body string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", text
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[:i+1], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", text
}

// ParseFrontMatter extracts the metadata block of a document. Documents
// without front matter, and blocks that fail to parse as YAML, yield the
// zero value: metadata is advisory, never fatal.
func ParseFrontMatter(text string) FrontMatter {
	front, _ := SplitFrontMatter(text)
	if front == "" {
		return FrontMatter{}
	}
	lines := strings.Split(front, "\n")
	inner := strings.Join(lines[1:len(lines)-1], "\n")

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(inner), &fm); err != nil {
		return FrontMatter{}
	}
	return fm
}

// FindQMD walks root and returns every .qmd file under it, in lexical
// order.
func FindQMD(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".qmd" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
