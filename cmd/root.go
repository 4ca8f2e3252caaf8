package cmd

import (
	"fmt"
	"os"

	"github.com/mynl/qmdtools/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qmdtools",
	Short: "Tools for Quarto book projects",
	Long: `qmdtools works on Quarto (.qmd) book projects: it renders a one-page
table of contents diagram as TikZ, audits cross-reference labels across
the project, and trims BibTeX bibliographies to the entries the
documents actually cite.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("qmdtools %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
