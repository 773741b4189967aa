// Package aggregator sums a year's payment records per beneficiary identity.
package aggregator

import (
	"context"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
)

// Source runs the per-identity aggregation query.
type Source interface {
	AggregateBeneficiaries(ctx context.Context, year int) ([]models.AggregatedBeneficiary, error)
}

// Aggregator produces the per-year beneficiary aggregates consumed by the
// matcher.
type Aggregator struct {
	source Source
	logger logging.Logger
}

// New creates an Aggregator.
func New(source Source, logger logging.Logger) *Aggregator {
	return &Aggregator{source: source, logger: logger}
}

// Aggregate returns the year's beneficiary aggregates, ordered by total
// descending and then by identity, along with a summary that is logged.
func (a *Aggregator) Aggregate(ctx context.Context, year int) ([]models.AggregatedBeneficiary, models.AggregateSummary, error) {
	if err := validation.AssertYear(year); err != nil {
		return nil, models.AggregateSummary{}, err
	}

	rows, err := a.source.AggregateBeneficiaries(ctx, year)
	if err != nil {
		return nil, models.AggregateSummary{}, err
	}

	summary := Summarize(year, rows)
	a.logger.Info("Aggregated payment records",
		logging.F(logging.FieldYear, year),
		logging.F("identities", summary.Identities),
		logging.F("payments", summary.Payments),
		logging.F("total", summary.Total.StringFixed(2)))
	return rows, summary, nil
}

// Summarize counts identities and payments and sums the non-null totals.
func Summarize(year int, rows []models.AggregatedBeneficiary) models.AggregateSummary {
	summary := models.AggregateSummary{
		ReferenceYear: year,
		Identities:    len(rows),
		Total:         decimal.Zero,
	}
	for _, r := range rows {
		summary.Payments += r.PaymentCount
		if r.TotalAmount.Valid {
			summary.Total = summary.Total.Add(r.TotalAmount.Decimal)
		}
	}
	return summary
}
