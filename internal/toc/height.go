package toc

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// Layout constants in centimeters, calibrated for the 10pt standalone
// rendering the diagram is typeset with.
const (
	charsPerCm   = 4.5  // average glyphs per horizontal centimeter
	lineHeightCm = 0.5  // vertical advance per wrapped title line
	boxPaddingCm = 0.26 // vertical padding around one title box
	textInsetCm  = 0.2  // horizontal inset between box edge and text
)

// titleLines estimates how many lines a title needs when wrapped to the
// column width. Width is measured in terminal cells so East Asian glyphs
// count double.
func titleLines(title string, columnWidth float64) int {
	perLine := (columnWidth - 2*textInsetCm) * charsPerCm
	if perLine < 1 {
		perLine = 1
	}
	w := runewidth.StringWidth(title)
	if w == 0 {
		return 1
	}
	return int(math.Ceil(float64(w) / perLine))
}

// titleHeight is the vertical space of a single node's title box.
func titleHeight(title string, columnWidth float64) float64 {
	return float64(titleLines(title, columnWidth))*lineHeightCm + boxPaddingCm
}

// Height returns the estimated rendered height of the node in centimeters:
// its own title plus all descendants, children fully inlined. The value is
// computed once on first read and cached on the node, so the balancer's
// repeated queries stay O(1).
func (n *DocNode) Height(cfg LayoutConfig) float64 {
	if n.heightDone {
		return n.EstimatedHeight
	}
	h := titleHeight(n.Title, cfg.ColumnWidth)
	for _, child := range n.Children {
		h += child.Height(cfg)
	}
	n.EstimatedHeight = h
	n.heightDone = true
	return h
}

// effectiveHeight is the height a chapter occupies in a column: the
// estimate, floored by the configured chapter minimum.
func effectiveHeight(ch *DocNode, cfg LayoutConfig) float64 {
	h := ch.Height(cfg)
	if h < cfg.ChapterMinHeight {
		return cfg.ChapterMinHeight
	}
	return h
}
