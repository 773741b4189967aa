// Package aggregate provides the aggregate command.
package aggregate

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var (
	year int
	top  int
)

// Cmd represents the aggregate command
var Cmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Summarize a year's payments per beneficiary",
	Long: `Sum the year's payment totals per beneficiary (normalized name, postal code and city)
and print the summary. Nothing is written; the matcher runs the same aggregation.

Example:
  agri-potential aggregate --year 2023 --top 10`,
	RunE: aggregateFunc,
}

func init() {
	common.AddYearFlag(Cmd, &year)
	Cmd.Flags().IntVar(&top, "top", 0, "Also print the N beneficiaries with the highest totals")
}

func aggregateFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	rows, summary, err := c.GetAggregator().Aggregate(cmd.Context(), year)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "year %d: %d beneficiaries, %d payments, total %s EUR\n",
		summary.ReferenceYear, summary.Identities, summary.Payments, summary.Total.StringFixed(2)); err != nil {
		return err
	}
	for i := 0; i < top && i < len(rows); i++ {
		r := rows[i]
		total := "n/a"
		if r.TotalAmount.Valid {
			total = r.TotalAmount.Decimal.StringFixed(2)
		}
		if _, err := fmt.Fprintf(out, "%3d. %s | %s | %s: %s EUR (%d payments)\n",
			i+1, r.NormalizedName, r.PostalCode, r.City, total, r.PaymentCount); err != nil {
			return err
		}
	}
	return nil
}
