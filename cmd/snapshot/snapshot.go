// Package snapshot provides the snapshot command.
package snapshot

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var (
	year     int
	eurPerHa string
)

// Cmd represents the snapshot command
var Cmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Recalculate potential snapshots for a year",
	Long: `Replace the year's potential snapshots: estimated area from the matched subsidy total,
seed, fertilizer and crop protection potential, share of wallet and segment.

Example:
  agri-potential snapshot --year 2023 --eur-per-ha 300`,
	RunE: snapshotFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	common.AddEurPerHaFlag(Cmd, &eurPerHa)
}

func snapshotFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	override, err := common.ParseEurPerHa(eurPerHa)
	if err != nil {
		return err
	}

	res, err := c.GetCalculator().Calculate(cmd.Context(), year, override)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"year %d: %d snapshots at %s EUR/ha, total potential %s EUR, segments A=%d B=%d C=%d\n",
		year, res.Processed, res.EurPerHa.String(), res.TotalPotential.StringFixed(2),
		res.Segments["A"], res.Segments["B"], res.Segments["C"])
	return err
}
