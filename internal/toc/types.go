package toc

import (
	"encoding/json"
)

// HeadingRecord is one heading found during extraction.
// Level 0 marks the synthetic record carrying a document's front-matter
// title; real ATX headings have levels 1 through 6.
type HeadingRecord struct {
	Level int
	Title string
	Label string // cross-reference identifier, empty when none
}

// Document pairs a document identifier with its raw text. The identifier
// is the project-relative path, used for display and for synthesizing a
// chapter title when the document has none.
type Document struct {
	ID   string
	Text string
}

// DocNode is a node of the built document model: a chapter (depth 1),
// section (depth 2), or subsection (depth 3).
type DocNode struct {
	Title           string     `json:"title"`
	Label           string     `json:"label,omitempty"`
	Depth           int        `json:"depth"`
	SourceOrder     int        `json:"source_order"`
	EstimatedHeight float64    `json:"estimated_height,omitempty"`
	Children        []*DocNode `json:"nodes,omitempty"`

	heightDone bool
}

// Tree is the chapter forest for one build pass, chapters in project
// reading order.
type Tree struct {
	Chapters []*DocNode `json:"chapters"`
}

// String returns a JSON representation of the node for debugging.
func (n *DocNode) String() string {
	b, _ := json.MarshalIndent(n, "", "  ")
	return string(b)
}

// String returns a JSON representation of the tree.
func (t *Tree) String() string {
	b, _ := json.MarshalIndent(t, "", "  ")
	return string(b)
}

// Walk traverses the subtree in depth-first order, calling fn for each node.
func (n *DocNode) Walk(fn func(*DocNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Walk traverses every node of the tree in depth-first order.
func (t *Tree) Walk(fn func(*DocNode)) {
	for _, ch := range t.Chapters {
		ch.Walk(fn)
	}
}

// NodeCount returns the total number of nodes in the tree.
func (t *Tree) NodeCount() int {
	count := 0
	t.Walk(func(*DocNode) { count++ })
	return count
}

// SectionCount returns the number of depth-2 nodes in the tree.
func (t *Tree) SectionCount() int {
	count := 0
	t.Walk(func(n *DocNode) {
		if n.Depth == 2 {
			count++
		}
	})
	return count
}
