// Package potential turns matched subsidy totals into per-customer sales
// potential snapshots.
package potential

import (
	"context"
	"time"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
)

// Store provides the accepted matches and replaces a year's snapshots.
type Store interface {
	ListAcceptedMatches(ctx context.Context, year int) ([]models.MatchedCustomer, error)
	ReplaceSnapshots(ctx context.Context, year int, snapshots []models.PotentialSnapshot) (int64, error)
}

// SnapshotResult summarizes a calculation run.
type SnapshotResult struct {
	EurPerHa       decimal.Decimal
	Processed      int
	Replaced       int64
	TotalPotential decimal.Decimal
	Segments       map[string]int
}

// Calculator computes potential snapshots for a year.
type Calculator struct {
	store    Store
	eurPerHa decimal.Decimal
	rates    Rates
	logger   logging.Logger
	now      func() time.Time
}

// New creates a Calculator with the default EUR/ha constant and rates.
func New(store Store, eurPerHa decimal.Decimal, rates Rates, logger logging.Logger) *Calculator {
	return &Calculator{
		store:    store,
		eurPerHa: eurPerHa,
		rates:    rates,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Calculate replaces every snapshot of the year with one row per confident,
// accepted match. A valid eurPerHa overrides the configured constant.
func (c *Calculator) Calculate(ctx context.Context, year int, eurPerHa decimal.NullDecimal) (SnapshotResult, error) {
	if err := validation.AssertYear(year); err != nil {
		return SnapshotResult{}, err
	}
	constant := c.eurPerHa
	if eurPerHa.Valid {
		constant = eurPerHa.Decimal
	}
	if err := validation.IsPositiveRate("eur_per_ha", constant); err != nil {
		return SnapshotResult{}, err
	}
	for name, rate := range map[string]decimal.Decimal{
		"seed rate":            c.rates.Seed,
		"fertilizer rate":      c.rates.Fertilizer,
		"crop protection rate": c.rates.CropProtection,
	} {
		if rate.IsNegative() {
			return SnapshotResult{}, validation.IsPositiveRate(name, rate)
		}
	}

	matches, err := c.store.ListAcceptedMatches(ctx, year)
	if err != nil {
		return SnapshotResult{}, err
	}

	createdAt := c.now()
	result := SnapshotResult{
		EurPerHa:       constant,
		TotalPotential: decimal.Zero,
		Segments:       make(map[string]int),
	}
	snapshots := make([]models.PotentialSnapshot, 0, len(matches))
	for _, m := range matches {
		s := Compute(year, m, constant, c.rates)
		s.CreatedAt = createdAt
		snapshots = append(snapshots, s)

		result.TotalPotential = result.TotalPotential.Add(s.PotentialTotalEUR)
		if s.Segment != nil {
			result.Segments[*s.Segment]++
		} else {
			result.Segments["none"]++
		}
	}

	replaced, err := c.store.ReplaceSnapshots(ctx, year, snapshots)
	if err != nil {
		return SnapshotResult{}, err
	}
	result.Processed = len(snapshots)
	result.Replaced = replaced

	c.logger.Info("Potential snapshots calculated",
		logging.F(logging.FieldYear, year),
		logging.F(logging.FieldEurPerHa, constant.String()),
		logging.F(logging.FieldCount, result.Processed),
		logging.F("replaced", replaced),
		logging.F("total_potential", result.TotalPotential.StringFixed(2)),
		logging.F("segments", result.Segments))
	return result, nil
}
