package toc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// maxTreeDepth is the deepest level the model represents: chapter,
// section, subsection.
const maxTreeDepth = 3

// Build assembles the chapter forest from the project's documents, in
// reading order. Configuration is assumed validated (see Generate).
// Cancellation is honored only between per-document extraction runs,
// never inside the later stages.
//
// promote selects one document by its 1-based position in reading order
// and builds a more detailed tree for it alone: headings shift one level
// up and every heading landing at chapter level starts a new chapter, so
// the promoted chapter reads as a book of its own sections. -1 disables
// promotion.
func Build(ctx context.Context, docs []Document, cfg LayoutConfig, promote int) (*Tree, error) {
	if promote != -1 {
		if promote < 1 || promote > len(docs) {
			return nil, fmt.Errorf("promote chapter %d out of range: project has %d documents", promote, len(docs))
		}
		docs = docs[promote-1 : promote]
	}

	shift := 0
	if cfg.UpLevel {
		shift++
	}
	multi := false
	if promote != -1 {
		shift++
		multi = true
	}

	b := &treeBuilder{cfg: cfg, shift: shift, multi: multi}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.begin(doc.ID)
		for rec := range Extract(doc.Text) {
			b.add(rec)
		}
		b.end()
	}
	return &Tree{Chapters: b.chapters}, nil
}

type treeBuilder struct {
	cfg      LayoutConfig
	shift    int
	multi    bool // promotion: every chapter-level heading starts a chapter
	order    int
	chapters []*DocNode

	// per-document state
	docID    string
	docTitle string
	chapter  *DocNode
	section  *DocNode
	titled   bool
}

func (b *treeBuilder) begin(id string) {
	b.docID = id
	b.docTitle = ""
	b.chapter = nil
	b.section = nil
	b.titled = false
}

func (b *treeBuilder) add(rec HeadingRecord) {
	if rec.Level == 0 {
		if b.docTitle == "" {
			b.docTitle = rec.Title
		}
		return
	}

	eff := rec.Level - b.shift
	if eff < 1 {
		eff = 1
	}
	if eff > b.cfg.maxDepth() {
		// Dropped, not merged upward.
		return
	}

	switch eff {
	case 1:
		if b.multi {
			b.closeChapter()
			b.chapter = b.newNode(rec.Title, rec.Label, 1)
			b.titled = true
			return
		}
		if b.titled {
			// One chapter per document; later chapter-level headings are dropped.
			return
		}
		b.ensureChapter()
		b.chapter.Title, b.chapter.Label = rec.Title, rec.Label
		b.titled = true
	case 2:
		if b.cfg.omitted(rec.Title, rec.Label) {
			// The omitted section also swallows its subsections.
			b.section = nil
			return
		}
		b.ensureChapter()
		b.section = b.newNode(rec.Title, rec.Label, 2)
		b.chapter.Children = append(b.chapter.Children, b.section)
	case 3:
		if b.section == nil {
			// No implicit sections: an orphan subsection is dropped.
			return
		}
		if b.cfg.omitted(rec.Title, rec.Label) {
			return
		}
		b.section.Children = append(b.section.Children, b.newNode(rec.Title, rec.Label, 3))
	}
}

// end closes the document. Outside promotion every document contributes
// exactly one chapter, even when it has no headings at all.
func (b *treeBuilder) end() {
	if !b.multi {
		b.ensureChapter()
	}
	b.closeChapter()
}

func (b *treeBuilder) ensureChapter() {
	if b.chapter == nil {
		b.chapter = b.newNode("", "", 1)
	}
}

// closeChapter finishes the open chapter: fills in the fallback title when
// no chapter-level heading supplied one, then appends it unless omitted.
func (b *treeBuilder) closeChapter() {
	if b.chapter == nil {
		return
	}
	if b.chapter.Title == "" {
		b.chapter.Title = b.fallbackTitle()
	}
	if !b.cfg.omitted(b.chapter.Title, b.chapter.Label) {
		b.chapters = append(b.chapters, b.chapter)
	}
	b.chapter = nil
	b.section = nil
	b.titled = false
}

// fallbackTitle names a chapter with no usable heading: the front-matter
// title when present, otherwise the document file stem.
func (b *treeBuilder) fallbackTitle() string {
	if b.docTitle != "" {
		return b.docTitle
	}
	base := filepath.Base(b.docID)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (b *treeBuilder) newNode(title, label string, depth int) *DocNode {
	n := &DocNode{Title: title, Label: label, Depth: depth, SourceOrder: b.order}
	b.order++
	return n
}
