// Package export provides the export command.
package export

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"
	"fjacquet/agri-potential/internal/validation"

	"github.com/spf13/cobra"
)

var (
	year   int
	table  string
	output string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the match or snapshot table of a year to CSV",
	Long: `Write the year's customer matches or potential snapshots to a CSV file using the configured
delimiter. Null values are written as empty cells.

Example:
  agri-potential export --year 2023 --table snapshots --output snapshots_2023.csv`,
	RunE: exportFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	Cmd.Flags().StringVarP(&table, "table", "t", "snapshots", "Table to export (matches or snapshots)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file")
	_ = Cmd.MarkFlagRequired("output")
}

func exportFunc(cmd *cobra.Command, _ []string) error {
	if err := validation.IsValidExportTable(table); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	n, err := c.GetExporter().ExportFile(cmd.Context(), year, table, output)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d %s rows written to %s\n", n, table, output)
	return err
}
