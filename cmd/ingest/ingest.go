// Package ingest provides the import command.
package ingest

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"
	"fjacquet/agri-potential/internal/importer"

	"github.com/spf13/cobra"
)

var (
	year    int
	file    string
	batchID string
	source  string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a subsidy payment export",
	Long: `Import a subsidy payment export into the raw payment table.

Rows are streamed one at a time. Header names may differ between yearly releases; each field is
looked up through a list of known column names. Rows without a beneficiary name are skipped.
Importing the same file twice duplicates its rows; use "clear" first.

Example:
  agri-potential import --year 2023 --file agrarzahlungen_2023.csv`,
	RunE: importFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	Cmd.Flags().StringVarP(&file, "file", "f", "", "Payment export CSV file")
	_ = Cmd.MarkFlagRequired("file")
	Cmd.Flags().StringVar(&batchID, "batch-id", "", "Batch id tagging the imported rows (default: generated)")
	Cmd.Flags().StringVar(&source, "source", "", "Data source tag (default: <tag_prefix>_<year>)")
}

func importFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	res, err := c.GetImporter().Import(cmd.Context(), importer.ImportRequest{
		FilePath:  file,
		Year:      year,
		BatchID:   batchID,
		SourceTag: source,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d rows read, %d inserted, %d skipped\n",
		res.BatchID, res.RowsRead, res.Inserted, res.SkippedTotal())
	return err
}
