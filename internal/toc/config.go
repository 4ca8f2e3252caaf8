package toc

import (
	"fmt"
	"strconv"
	"strings"
)

// BalanceMode selects the column packing strategy.
type BalanceMode string

const (
	// BalanceStable fills columns in project reading order.
	BalanceStable BalanceMode = "stable"
	// BalanceFFD packs tallest chapters first into the first column with room.
	BalanceFFD BalanceMode = "first-fit-decreasing"
)

// ParseBalanceMode normalizes a balance mode name. "ffd" is accepted as
// the short spelling of first-fit-decreasing.
func ParseBalanceMode(s string) (BalanceMode, error) {
	switch s {
	case "stable":
		return BalanceStable, nil
	case "ffd", "first-fit-decreasing":
		return BalanceFFD, nil
	default:
		return "", fmt.Errorf("unknown balance mode: %q (want stable or ffd)", s)
	}
}

// LayoutConfig carries every knob of the pipeline. It is passed by value
// to each stage; invocations never share mutable configuration.
// Dimensions are centimeters.
type LayoutConfig struct {
	ColumnWidth      float64
	SectionMaxHeight float64
	ChapterMinHeight float64 // 0 means "auto": no floor
	MaxColumnsPerRow int
	MaxLevels        int // -1 means all levels
	UpLevel          bool
	BalanceMode      BalanceMode
	OmitTitles       map[string]bool
	Debug            bool
}

// DefaultLayoutConfig returns the configuration matching the CLI defaults.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		ColumnWidth:      5,
		SectionMaxHeight: 8,
		ChapterMinHeight: 0,
		MaxColumnsPerRow: 12,
		MaxLevels:        -1,
		BalanceMode:      BalanceStable,
	}
}

// Validate rejects unusable configurations before any extraction runs.
func (c LayoutConfig) Validate() error {
	switch {
	case c.ColumnWidth <= 0:
		return fmt.Errorf("column width must be positive, got %g", c.ColumnWidth)
	case c.SectionMaxHeight <= 0:
		return fmt.Errorf("section max height must be positive, got %g", c.SectionMaxHeight)
	case c.ChapterMinHeight < 0:
		return fmt.Errorf("chapter min height must not be negative, got %g", c.ChapterMinHeight)
	case c.MaxColumnsPerRow < 1:
		return fmt.Errorf("max columns per row must be at least 1, got %d", c.MaxColumnsPerRow)
	case c.MaxLevels == 0 || c.MaxLevels < -1:
		return fmt.Errorf("max levels must be -1 or positive, got %d", c.MaxLevels)
	}
	if _, err := ParseBalanceMode(string(c.BalanceMode)); err != nil {
		return err
	}
	return nil
}

// maxDepth clamps MaxLevels to the depths the model supports.
func (c LayoutConfig) maxDepth() int {
	if c.MaxLevels < 0 || c.MaxLevels > maxTreeDepth {
		return maxTreeDepth
	}
	return c.MaxLevels
}

// omitted reports whether a heading with this title and label is dropped.
func (c LayoutConfig) omitted(title, label string) bool {
	if len(c.OmitTitles) == 0 {
		return false
	}
	if c.OmitTitles[title] {
		return true
	}
	return label != "" && c.OmitTitles[label]
}

// OmitSet builds the omit lookup from a flag-style list of titles/labels.
func OmitSet(titles []string) map[string]bool {
	if len(titles) == 0 {
		return nil
	}
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return set
}

// ParseDimension parses a TeX-style dimension string ("5cm", "55mm",
// "2in", "40pt", or a bare number meaning centimeters) into centimeters.
func ParseDimension(s string) (float64, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	unit := "cm"
	for _, u := range []string{"cm", "mm", "in", "pt"} {
		if strings.HasSuffix(v, u) {
			unit = u
			v = strings.TrimSpace(strings.TrimSuffix(v, u))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	switch unit {
	case "mm":
		f /= 10
	case "in":
		f *= 2.54
	case "pt":
		f *= 2.54 / 72
	}
	return f, nil
}
