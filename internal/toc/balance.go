package toc

import (
	"cmp"
	"fmt"
	"slices"
)

// Placement locates one chapter inside a ColumnAssignment.
type Placement struct {
	Column int
	// Offset is the cumulative effective height of the chapters placed
	// above this one in its column.
	Offset float64
}

// ColumnAssignment maps every chapter to a column. It is built once by a
// Balancer, read by the renderer, and never persisted. The tree itself is
// not annotated: the assignment is the only output of balancing.
type ColumnAssignment struct {
	placements map[*DocNode]Placement
	columns    [][]*DocNode
	heights    []float64
}

func newColumnAssignment() *ColumnAssignment {
	return &ColumnAssignment{placements: make(map[*DocNode]Placement)}
}

func (a *ColumnAssignment) place(ch *DocNode, col int, h float64) {
	for len(a.columns) <= col {
		a.columns = append(a.columns, nil)
		a.heights = append(a.heights, 0)
	}
	a.placements[ch] = Placement{Column: col, Offset: a.heights[col]}
	a.columns[col] = append(a.columns[col], ch)
	a.heights[col] += h
}

// Placement returns the chapter's placement, if it was assigned.
func (a *ColumnAssignment) Placement(ch *DocNode) (Placement, bool) {
	p, ok := a.placements[ch]
	return p, ok
}

// Columns returns the number of columns used.
func (a *ColumnAssignment) Columns() int { return len(a.columns) }

// Column returns the chapters of column i, top to bottom.
func (a *ColumnAssignment) Column(i int) []*DocNode { return a.columns[i] }

// ColumnHeight returns the cumulative effective height of column i.
func (a *ColumnAssignment) ColumnHeight(i int) float64 { return a.heights[i] }

// Balancer assigns whole chapters to columns under the section-max-height
// ceiling. Chapters are atomic: one is never split across columns.
type Balancer interface {
	Name() string
	Assign(chapters []*DocNode, cfg LayoutConfig) *ColumnAssignment
}

// NewBalancer returns the balancer for the given mode.
func NewBalancer(mode BalanceMode) (Balancer, error) {
	switch mode {
	case BalanceStable:
		return stableBalancer{}, nil
	case BalanceFFD, "ffd":
		return ffdBalancer{}, nil
	default:
		return nil, fmt.Errorf("unknown balance mode: %q", mode)
	}
}

// stableBalancer fills the current column in reading order and advances to
// a fresh column when the next chapter would overflow it. An exact fit
// stays in the current column. Order is preserved: a chapter's column
// index never decreases along reading order.
type stableBalancer struct{}

func (stableBalancer) Name() string { return string(BalanceStable) }

func (stableBalancer) Assign(chapters []*DocNode, cfg LayoutConfig) *ColumnAssignment {
	a := newColumnAssignment()
	col := 0
	for _, ch := range chapters {
		h := effectiveHeight(ch, cfg)
		if col < len(a.heights) && a.heights[col] > 0 && a.heights[col]+h > cfg.SectionMaxHeight {
			col++
		}
		a.place(ch, col, h)
	}
	return a
}

// ffdBalancer packs a descending-height scratch order (stable sort, so
// equal heights keep reading order) into the first column with room,
// opening a new column when none fits. Reading order across columns is
// sacrificed for balance; a chapter taller than the ceiling ends up alone
// in its own column rather than being dropped.
type ffdBalancer struct{}

func (ffdBalancer) Name() string { return string(BalanceFFD) }

func (ffdBalancer) Assign(chapters []*DocNode, cfg LayoutConfig) *ColumnAssignment {
	a := newColumnAssignment()
	scratch := make([]*DocNode, len(chapters))
	copy(scratch, chapters)
	slices.SortStableFunc(scratch, func(x, y *DocNode) int {
		return cmp.Compare(effectiveHeight(y, cfg), effectiveHeight(x, cfg))
	})
	for _, ch := range scratch {
		h := effectiveHeight(ch, cfg)
		col := -1
		for i := range a.heights {
			if a.heights[i]+h <= cfg.SectionMaxHeight {
				col = i
				break
			}
		}
		if col == -1 {
			col = len(a.heights)
		}
		a.place(ch, col, h)
	}
	return a
}
