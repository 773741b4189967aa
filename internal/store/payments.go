package store

import (
	"context"
	"fmt"
	"sort"

	"fjacquet/agri-potential/internal/models"
)

// AppendPayment inserts one raw payment row. Each call commits on its own.
func (s *Store) AppendPayment(ctx context.Context, record *models.PaymentRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}
	return nil
}

// DeletePayments removes the raw rows of a year, or only those of one batch
// when batchID is not empty.
func (s *Store) DeletePayments(ctx context.Context, year int, batchID string) (int64, error) {
	q := s.db.WithContext(ctx).Where("reference_year = ?", year)
	if batchID != "" {
		q = q.Where("batch_id = ?", batchID)
	}
	res := q.Delete(&models.PaymentRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete payment records: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AggregateBeneficiaries sums the payment totals of a year per beneficiary
// identity. Rows are ordered by total descending (null totals last), then by
// name, postal code and city, which makes the order a stable tie-break.
//
// Sums are computed on decimals in Go: SQLite stores numeric columns as REAL
// and would return inexact sums.
func (s *Store) AggregateBeneficiaries(ctx context.Context, year int) ([]models.AggregatedBeneficiary, error) {
	rows, err := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Select("normalized_name, postal_code, city, amount_total").
		Where("reference_year = ? AND normalized_name <> ''", year).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment records: %w", err)
	}
	defer rows.Close()

	type identity struct{ name, postal, city string }
	groups := make(map[identity]*models.AggregatedBeneficiary)
	for rows.Next() {
		var r models.PaymentRecord
		if err := s.db.ScanRows(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to read payment record: %w", err)
		}
		key := identity{r.NormalizedName, r.PostalCode, r.City}
		g, ok := groups[key]
		if !ok {
			g = &models.AggregatedBeneficiary{
				ReferenceYear:  year,
				NormalizedName: r.NormalizedName,
				PostalCode:     r.PostalCode,
				City:           r.City,
			}
			groups[key] = g
		}
		g.TotalAmount = models.SumNullable(g.TotalAmount, r.AmountTotal)
		g.PaymentCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate payment records: %w", err)
	}

	out := make([]models.AggregatedBeneficiary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return aggregateLess(out[i], out[j]) })
	return out, nil
}

// aggregateLess is the tie-break order: valid totals before null ones, larger
// totals first, then name, postal code and city ascending.
func aggregateLess(a, b models.AggregatedBeneficiary) bool {
	if a.TotalAmount.Valid != b.TotalAmount.Valid {
		return a.TotalAmount.Valid
	}
	if a.TotalAmount.Valid {
		if c := a.TotalAmount.Decimal.Cmp(b.TotalAmount.Decimal); c != 0 {
			return c > 0
		}
	}
	if a.NormalizedName != b.NormalizedName {
		return a.NormalizedName < b.NormalizedName
	}
	if a.PostalCode != b.PostalCode {
		return a.PostalCode < b.PostalCode
	}
	return a.City < b.City
}
