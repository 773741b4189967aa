// Package common contains shared functionality for command handlers
package common

import (
	"fmt"

	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// AddYearFlag registers the required --year flag.
func AddYearFlag(cmd *cobra.Command, year *int) {
	cmd.Flags().IntVarP(year, "year", "y", 0, "Reference year of the subsidy payments")
	_ = cmd.MarkFlagRequired("year")
}

// CheckYearFlag validates --year when cmd declares it. Commands without the
// flag pass.
func CheckYearFlag(cmd *cobra.Command) error {
	if cmd.Flags().Lookup("year") == nil {
		return nil
	}
	year, err := cmd.Flags().GetInt("year")
	if err != nil {
		return err
	}
	return validation.AssertYear(year)
}

// AddEurPerHaFlag registers the optional --eur-per-ha override.
func AddEurPerHaFlag(cmd *cobra.Command, value *string) {
	cmd.Flags().StringVar(value, "eur-per-ha", "", "Override the EUR per hectare conversion constant")
}

// ParseEurPerHa parses the --eur-per-ha flag. An empty value means no
// override.
func ParseEurPerHa(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid --eur-per-ha value %q: %w", raw, err)
	}
	if err := validation.IsPositiveRate("--eur-per-ha", v); err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(v), nil
}
