package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mynl/qmdtools/internal/project"
	"github.com/mynl/qmdtools/internal/toc"
)

var tocFiles []string
var tocPatterns []string
var tocMaxColumns int
var tocColumnWidth string
var tocSectionMax string
var tocChapterMin string
var tocMaxLevels int
var tocUpLevel bool
var tocBalance string
var tocPromote int
var tocOmit []string
var tocDebug bool

var tocCmd = &cobra.Command{
	Use:   "toc INPUT_PATH OUTPUT_FILE",
	Short: "Render a table of contents diagram",
	Long: `Render a Quarto project's table of contents as a one-page TikZ diagram.

INPUT_PATH is a project directory, a _quarto.yml manifest, or a single
.qmd document. Chapters come from the manifest's reading order unless
explicit files (-f) or glob patterns (-g) narrow the selection. The
diagram is written to OUTPUT_FILE as a standalone TeX document.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		cfg, err := tocConfig()
		if err != nil {
			return err
		}

		pctx, err := project.Resolve(input, tocPatterns, tocFiles)
		if err != nil {
			return err
		}
		sources, title, err := project.Discover(pctx)
		if err != nil {
			return err
		}

		docs := make([]toc.Document, 0, len(sources))
		for _, src := range sources {
			text, err := project.Expand(src.Path)
			if err != nil {
				return err
			}
			id := src.Path
			if rel, relErr := filepath.Rel(pctx.BaseDir, src.Path); relErr == nil {
				id = rel
			}
			docs = append(docs, toc.Document{ID: id, Text: text})
		}

		if err := toc.WriteFile(cmd.Context(), output, docs, cfg, tocPromote); err != nil {
			return err
		}

		if tocDebug {
			tree, err := toc.Build(cmd.Context(), docs, cfg, tocPromote)
			if err != nil {
				return err
			}
			balancer, err := toc.NewBalancer(cfg.BalanceMode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			toc.FormatOutline(out, title, tree)
			toc.FormatSummary(out, tree, balancer.Assign(tree.Chapters, cfg), cfg)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
		return nil
	},
}

// tocConfig builds the layout configuration from the flag values.
func tocConfig() (toc.LayoutConfig, error) {
	cfg := toc.DefaultLayoutConfig()

	var err error
	if cfg.ColumnWidth, err = toc.ParseDimension(tocColumnWidth); err != nil {
		return cfg, fmt.Errorf("column width: %w", err)
	}
	if cfg.SectionMaxHeight, err = toc.ParseDimension(tocSectionMax); err != nil {
		return cfg, fmt.Errorf("section max height: %w", err)
	}
	if tocChapterMin != "auto" {
		if cfg.ChapterMinHeight, err = toc.ParseDimension(tocChapterMin); err != nil {
			return cfg, fmt.Errorf("chapter min height: %w", err)
		}
	}
	if cfg.BalanceMode, err = toc.ParseBalanceMode(tocBalance); err != nil {
		return cfg, err
	}
	cfg.MaxColumnsPerRow = tocMaxColumns
	cfg.MaxLevels = tocMaxLevels
	cfg.UpLevel = tocUpLevel
	cfg.OmitTitles = toc.OmitSet(tocOmit)
	cfg.Debug = tocDebug
	return cfg, nil
}

func init() {
	tocCmd.Flags().StringArrayVarP(&tocFiles, "file", "f", nil, "Explicit .qmd file, relative to the project (repeatable)")
	tocCmd.Flags().StringArrayVarP(&tocPatterns, "pattern", "g", nil, "Glob pattern selecting chapter files (repeatable)")
	tocCmd.Flags().IntVarP(&tocMaxColumns, "max-columns-per-row", "c", 12, "Columns per diagram row before wrapping")
	tocCmd.Flags().StringVarP(&tocColumnWidth, "column-width", "w", "5cm", "Column width (cm, mm, in, pt)")
	tocCmd.Flags().StringVarP(&tocSectionMax, "section-max-height", "H", "8cm", "Column height ceiling before a new column starts")
	tocCmd.Flags().StringVarP(&tocChapterMin, "chapter-min-height", "m", "auto", "Minimum chapter box height, or auto")
	tocCmd.Flags().IntVarP(&tocMaxLevels, "max-levels", "v", -1, "Deepest heading level to include (-1 = all)")
	tocCmd.Flags().BoolVarP(&tocUpLevel, "up-level", "u", false, "Shift every heading up one level")
	tocCmd.Flags().StringVarP(&tocBalance, "balance-mode", "b", "stable", "Column packing: stable or ffd")
	tocCmd.Flags().IntVarP(&tocPromote, "promote-chapter", "p", -1, "Expand only this chapter (1-based), its sections become chapters")
	tocCmd.Flags().StringArrayVarP(&tocOmit, "omit", "o", nil, "Title or label to leave out of the diagram (repeatable)")
	tocCmd.Flags().BoolVarP(&tocDebug, "debug", "d", false, "Annotate the diagram and print the outline and column table")

	rootCmd.AddCommand(tocCmd)
}
