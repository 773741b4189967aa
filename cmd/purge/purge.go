// Package purge provides the command deleting imported payment rows.
package purge

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var (
	year    int
	batchID string
)

// Cmd represents the clear command
var Cmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete imported payment rows of a year",
	Long: `Delete the raw payment rows of a year, or of a single import batch, so the year can be
imported again without duplicates.

Example:
  agri-potential clear --year 2023 --batch-id 6f1c...`,
	RunE: clearFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	Cmd.Flags().StringVar(&batchID, "batch-id", "", "Only delete the rows of this batch")
}

func clearFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	var deleted int64
	if batchID != "" {
		deleted, err = c.GetImporter().ClearBatch(cmd.Context(), year, batchID)
	} else {
		deleted, err = c.GetImporter().ClearYear(cmd.Context(), year)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "year %d: %d payment rows deleted\n", year, deleted)
	return err
}
