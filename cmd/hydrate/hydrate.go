// Package hydrate provides the hydrate command.
package hydrate

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var year int

// Cmd represents the hydrate command
var Cmd = &cobra.Command{
	Use:   "hydrate",
	Short: "Copy a year's snapshots onto customer records",
	Long: `Overwrite the potential fields of every customer with a snapshot in the year.

Example:
  agri-potential hydrate --year 2023`,
	RunE: hydrateFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
}

func hydrateFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	res, err := c.GetHydrator().Hydrate(cmd.Context(), year)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "year %d: %d customers updated, %d snapshots without customer\n",
		year, res.Updated, res.Missing)
	return err
}
