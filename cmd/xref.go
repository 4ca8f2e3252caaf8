package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mynl/qmdtools/internal/xref"
)

var xrefOutPrefix string
var xrefWriteCSV bool
var xrefStrict bool

var xrefCmd = &cobra.Command{
	Use:   "xref DIR",
	Short: "Audit cross-reference labels under a directory",
	Long: `Scan every .qmd file under DIR for label definitions (heading
attributes and chunk labels) and @-references, then report duplicates,
collisions across files, and references to labels that do not exist.
Unused labels are informational; unrecognized prefixes fail the audit
only under --strict.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := xref.ScanDir(args[0])
		if err != nil {
			return err
		}
		res := xref.Validate(matches, xrefStrict)
		xref.FormatReport(cmd.OutOrStdout(), res)

		if xrefWriteCSV {
			if err := xref.WriteCSV(xrefOutPrefix, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s_defs.csv and %s_refs.csv\n", xrefOutPrefix, xrefOutPrefix)
		}

		if !res.OK {
			cmd.SilenceUsage = true
			return errors.New("cross-reference problems found")
		}
		return nil
	},
}

func init() {
	xrefCmd.Flags().StringVarP(&xrefOutPrefix, "out-prefix", "o", "qmd_labels", "Prefix for the CSV output files")
	xrefCmd.Flags().BoolVarP(&xrefWriteCSV, "write-csv", "w", false, "Write definitions and references to CSV")
	xrefCmd.Flags().BoolVar(&xrefStrict, "strict", false, "Fail on unrecognized label prefixes too")

	rootCmd.AddCommand(xrefCmd)
}
