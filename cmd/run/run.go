// Package run provides the command running the full pipeline for a year.
package run

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"
	"fjacquet/agri-potential/internal/pipeline"
	"fjacquet/agri-potential/internal/report"

	"github.com/spf13/cobra"
)

var (
	year          int
	file          string
	batchID       string
	source        string
	eurPerHa      string
	replace       bool
	summaryFormat string
)

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for a reference year",
	Long: `Run import, aggregate, match, snapshot and hydrate in that order for one reference year.
The run stops at the first failing stage and names it in the error.

Without --replace, running the same file twice for a year duplicates its raw payment rows.

Example:
  agri-potential run --year 2023 --file agrarzahlungen_2023.csv --replace`,
	RunE: runFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	Cmd.Flags().StringVarP(&file, "file", "f", "", "Payment export CSV file")
	_ = Cmd.MarkFlagRequired("file")
	Cmd.Flags().StringVar(&batchID, "batch-id", "", "Batch id tagging the imported rows (default: generated)")
	Cmd.Flags().StringVar(&source, "source", "", "Data source tag (default: <tag_prefix>_<year>)")
	common.AddEurPerHaFlag(Cmd, &eurPerHa)
	Cmd.Flags().BoolVar(&replace, "replace", false, "Delete the year's raw payment rows before importing")
	Cmd.Flags().StringVar(&summaryFormat, "summary", "", "Print a run summary as json or yaml")
}

func runFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	override, err := common.ParseEurPerHa(eurPerHa)
	if err != nil {
		return err
	}

	result, err := c.GetPipeline().Run(cmd.Context(), pipeline.RunRequest{
		Year:          year,
		FilePath:      file,
		BatchID:       batchID,
		SourceTag:     source,
		EurPerHa:      override,
		ReplaceImport: replace,
	})
	if err != nil {
		return err
	}

	if summaryFormat == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"year %d: %d rows imported (batch %s), %d customers matched, %d snapshots, %d customers hydrated\n",
			result.Year, result.Import.Inserted, result.Import.BatchID,
			result.Match.Matched, result.Snapshot.Processed, result.Hydrate.Updated)
		return err
	}

	out, err := c.GetReportGenerator().GenerateReport(report.NewRunSummary(result), summaryFormat)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
