// Package toc builds compact table-of-contents diagrams for Quarto book
// projects.
//
// # Overview
//
// The package turns a project's ordered document texts into a standalone
// TikZ picture of the book's structure: chapters, their sections, and
// subsection bullet lists, packed into height-limited columns. It is a
// strictly forward pipeline; no stage depends on a later one.
//
// # Pipeline
//
//   - Heading extraction: a line scanner with explicit prose / fence /
//     comment states yields HeadingRecord values per document. Fenced code
//     and HTML comments are opaque; malformed markup under-extracts rather
//     than erroring.
//
//   - Model building: the ordered (document, headings) pairs become a
//     forest of chapter-rooted DocNode trees, three levels deep. Every
//     document contributes one chapter, synthesized from front matter or
//     the file name when no level-1 heading exists.
//
//   - Height estimation: a pure character-width model maps each title to a
//     wrapped line count and a height in centimeters, memoized per node.
//
//   - Balancing: a Balancer assigns whole chapters to columns under the
//     section-max-height ceiling, either in reading order ("stable") or by
//     first-fit-decreasing packing ("first-fit-decreasing").
//
//   - Rendering: the balanced assignment is emitted as a deterministic
//     standalone TeX document of positioned boxes and text runs.
//
// # Usage
//
//	cfg := toc.DefaultLayoutConfig()
//	out, err := toc.Generate(ctx, docs, cfg, -1)
//
// or, to write straight to disk:
//
//	err := toc.WriteFile(ctx, "toc.tex", docs, cfg, -1)
//
// Build exposes the intermediate tree for inspection, and FormatSummary
// renders the per-chapter placement table shown by the CLI in debug mode.
//
// # Architecture
//
//   - types.go: HeadingRecord, Document, DocNode, Tree
//   - config.go: LayoutConfig, dimension and balance-mode parsing
//   - scan.go: heading extraction state machine
//   - tree.go: document model builder
//   - height.go: height estimation
//   - balance.go: column assignment strategies
//   - render.go: TikZ emission
//   - inspect.go: styled debug output
package toc
