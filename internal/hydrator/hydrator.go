// Package hydrator projects potential snapshots onto customer records.
package hydrator

import (
	"context"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/store"
	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
)

// Store reads snapshots and overwrites customer analytic fields.
type Store interface {
	ListSnapshots(ctx context.Context, year int) ([]models.PotentialSnapshot, error)
	UpdateCustomerPotential(ctx context.Context, customerID string, p store.CustomerPotential) (bool, error)
}

// HydrateResult summarizes a hydration run.
type HydrateResult struct {
	Snapshots int
	Updated   int
	Missing   int
}

// Hydrator copies snapshot fields onto customers.
type Hydrator struct {
	store  Store
	logger logging.Logger
}

// New creates a Hydrator.
func New(store Store, logger logging.Logger) *Hydrator {
	return &Hydrator{store: store, logger: logger}
}

// Hydrate overwrites the analytic fields of every customer that has a
// snapshot in the year. Running it again with the same snapshots changes
// nothing.
func (h *Hydrator) Hydrate(ctx context.Context, year int) (HydrateResult, error) {
	if err := validation.AssertYear(year); err != nil {
		return HydrateResult{}, err
	}

	snapshots, err := h.store.ListSnapshots(ctx, year)
	if err != nil {
		return HydrateResult{}, err
	}

	log := logging.ForStage(h.logger, "hydrate", year)
	result := HydrateResult{Snapshots: len(snapshots)}
	for _, s := range snapshots {
		ok, err := h.store.UpdateCustomerPotential(ctx, s.CustomerID, projection(s))
		if err != nil {
			return result, err
		}
		if !ok {
			result.Missing++
			log.Warn("Snapshot refers to an unknown customer",
				logging.F(logging.FieldCustomerID, s.CustomerID))
			continue
		}
		result.Updated++
	}

	log.Info("Customers hydrated",
		logging.F("snapshots", result.Snapshots),
		logging.F("updated", result.Updated),
		logging.F("missing", result.Missing))
	return result, nil
}

func projection(s models.PotentialSnapshot) store.CustomerPotential {
	return store.CustomerPotential{
		Year:              s.ReferenceYear,
		EstimatedAreaHa:   decimal.NewNullDecimal(s.EstimatedAreaHa),
		PotentialTotalEUR: decimal.NewNullDecimal(s.PotentialTotalEUR),
		ShareOfWallet:     s.ShareOfWallet,
		Segment:           s.Segment,
		UpdatedAt:         s.CreatedAt,
	}
}
