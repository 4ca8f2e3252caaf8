package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mynl/qmdtools/internal/bib"
	"github.com/mynl/qmdtools/internal/project"
)

var bibOut string
var bibCSVOut string
var bibWinEncoding string

var bibtexCmd = &cobra.Command{
	Use:   "bibtex PROJECT_ROOT",
	Short: "Trim the bibliography to the entries the project cites",
	Long: `Collect every citation key used in a Quarto project, load the
bibliographies its documents declare, and write a trimmed BibTeX file
holding only the cited entries. Keys cited but missing from the
bibliography, and entries never cited, are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("project root must be a directory: %s", root)
		}
		if bibWinEncoding != "" && bibWinEncoding != "cp1252" {
			return fmt.Errorf("unsupported encoding %q (want cp1252)", bibWinEncoding)
		}

		pctx, err := project.Resolve(root, nil, nil)
		if err != nil {
			return err
		}
		sources, _, err := project.Discover(pctx)
		if err != nil {
			return err
		}

		var files []string
		for _, src := range sources {
			files = append(files, src.Path)
			files = append(files, src.Includes...)
		}
		texts := make([]string, 0, len(files))
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return err
			}
			texts = append(texts, string(data))
		}

		cited := bib.Citations(texts)
		paths, err := bib.Paths(files)
		if err != nil {
			return err
		}
		full, err := bib.Load(paths)
		if err != nil {
			return err
		}

		trimmed := bib.Trim(full, cited)
		if err := bib.WriteBib(bibOut, trimmed); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote trimmed BibTeX to %s with %d entries\n", bibOut, len(trimmed.Entries))

		if missing := bib.Missing(full, cited); len(missing) > 0 {
			fmt.Fprintf(out, "%d cited keys missing from the bibliography: %s\n",
				len(missing), strings.Join(missing, ", "))
		}
		if unused := bib.Unused(full, cited); len(unused) > 0 {
			fmt.Fprintf(out, "%d bibliography entries never cited\n", len(unused))
		}

		if bibCSVOut != "" {
			if err := bib.WriteCSV(bibCSVOut, trimmed, bibWinEncoding == "cp1252"); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", bibCSVOut)
		}
		return nil
	},
}

func init() {
	bibtexCmd.Flags().StringVarP(&bibOut, "bib-out", "b", "", "Output path for the trimmed BibTeX file (required)")
	bibtexCmd.Flags().StringVarP(&bibCSVOut, "df-out", "d", "", "Also write the trimmed entries as CSV to this path")
	bibtexCmd.Flags().StringVarP(&bibWinEncoding, "win-encoding", "w", "", "Encode the CSV for Windows tools (cp1252)")
	bibtexCmd.MarkFlagRequired("bib-out")

	rootCmd.AddCommand(bibtexCmd)
}
