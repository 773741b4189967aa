// Package matcher links aggregated subsidy beneficiaries to active customers
// by exact composite key.
package matcher

import (
	"context"
	"time"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/validation"

	"github.com/shopspring/decimal"
)

// AggregateSource yields the beneficiary aggregates of a year in their
// tie-break order.
type AggregateSource interface {
	Aggregate(ctx context.Context, year int) ([]models.AggregatedBeneficiary, models.AggregateSummary, error)
}

// Store provides the customer directory and persists match decisions.
type Store interface {
	ListActiveCustomers(ctx context.Context) ([]models.DirectoryEntry, error)
	UpsertMatch(ctx context.Context, match *models.CustomerMatch) error
}

// MatchResult summarizes a matching run.
type MatchResult struct {
	Customers     int
	Matched       int
	Unmatched     int
	Ambiguous     int
	EmptyKey      int
	Beneficiaries int
}

// Matcher resolves customers against beneficiary aggregates. Only exact key
// hits are accepted; every hit is confident.
type Matcher struct {
	aggregates AggregateSource
	store      Store
	logger     logging.Logger
}

// New creates a Matcher.
func New(aggregates AggregateSource, store Store, logger logging.Logger) *Matcher {
	return &Matcher{aggregates: aggregates, store: store, logger: logger}
}

// Match upserts one CustomerMatch per active customer whose key hits an
// aggregate of the year. When several aggregates share a key the first one
// in aggregate order wins, that is the highest total. Re-running converges
// to the same rows.
func (m *Matcher) Match(ctx context.Context, year int) (MatchResult, error) {
	if err := validation.AssertYear(year); err != nil {
		return MatchResult{}, err
	}
	start := time.Now()

	customers, err := m.store.ListActiveCustomers(ctx)
	if err != nil {
		return MatchResult{}, err
	}
	aggregates, _, err := m.aggregates.Aggregate(ctx, year)
	if err != nil {
		return MatchResult{}, err
	}

	log := logging.ForStage(m.logger, "match", year)
	index := buildIndex(aggregates)
	result := MatchResult{Customers: len(customers), Beneficiaries: len(aggregates)}

	for _, c := range customers {
		key := Key(c.LegalName, c.PostalCode, c.City)
		if key == "" {
			result.EmptyKey++
			log.Debug("Skipping customer with empty name key",
				logging.F(logging.FieldCustomerID, c.ID))
			continue
		}

		candidates := index[key]
		if len(candidates) == 0 {
			result.Unmatched++
			continue
		}
		if len(candidates) > 1 {
			result.Ambiguous++
			log.Warn("Several beneficiaries share the customer's key; taking the highest total",
				logging.F(logging.FieldCustomerID, c.ID),
				logging.F(logging.FieldMatchKey, key),
				logging.F(logging.FieldCount, len(candidates)))
		}

		chosen := candidates[0]
		match := &models.CustomerMatch{
			ReferenceYear:   year,
			CustomerID:      c.ID,
			BeneficiaryName: chosen.NormalizedName,
			PostalCode:      chosen.PostalCode,
			City:            chosen.City,
			MatchScore:      decimal.NewFromInt(1),
			MatchMethod:     models.MatchMethodExactKey,
			Confident:       true,
			Status:          models.MatchStatusAccepted,
			SubsidyTotal:    chosen.TotalAmount,
			CandidateCount:  len(candidates),
		}
		if err := m.store.UpsertMatch(ctx, match); err != nil {
			return result, err
		}
		result.Matched++
		log.Debug("Customer matched",
			logging.F(logging.FieldCustomerID, c.ID),
			logging.F(logging.FieldBeneficiary, chosen.NormalizedName))
	}

	log.Info("Matching completed",
		logging.F("customers", result.Customers),
		logging.F("beneficiaries", result.Beneficiaries),
		logging.F("matched", result.Matched),
		logging.F("unmatched", result.Unmatched),
		logging.F("ambiguous", result.Ambiguous),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// buildIndex groups aggregates by key, keeping their input order within a
// key.
func buildIndex(aggregates []models.AggregatedBeneficiary) map[string][]models.AggregatedBeneficiary {
	index := make(map[string][]models.AggregatedBeneficiary, len(aggregates))
	for _, a := range aggregates {
		key := Key(a.NormalizedName, a.PostalCode, a.City)
		if key == "" {
			continue
		}
		index[key] = append(index[key], a)
	}
	return index
}
