// Package match provides the match command.
package match

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var year int

// Cmd represents the match command
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Match beneficiaries to active customers",
	Long: `Match the year's aggregated beneficiaries to the active customer directory by exact key
(normalized legal name, postal code, upper-cased city). Re-running updates the existing matches.

Example:
  agri-potential match --year 2023`,
	RunE: matchFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
}

func matchFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	res, err := c.GetMatcher().Match(cmd.Context(), year)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"year %d: %d of %d customers matched (%d ambiguous, %d without name key)\n",
		year, res.Matched, res.Customers, res.Ambiguous, res.EmptyKey)
	return err
}
