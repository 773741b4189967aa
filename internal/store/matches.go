package store

import (
	"context"
	"fmt"

	"fjacquet/agri-potential/internal/models"

	"gorm.io/gorm/clause"
)

// UpsertMatch inserts the match of (year, customer) or overwrites it.
func (s *Store) UpsertMatch(ctx context.Context, match *models.CustomerMatch) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reference_year"}, {Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"beneficiary_name", "postal_code", "city", "match_score", "match_method",
			"confident", "status", "subsidy_total", "candidate_count", "updated_at",
		}),
	}).Create(match).Error
	if err != nil {
		return fmt.Errorf("failed to upsert match for customer %s: %w", match.CustomerID, err)
	}
	return nil
}

// ListMatches returns every match row of a year ordered by customer id.
func (s *Store) ListMatches(ctx context.Context, year int) ([]models.CustomerMatch, error) {
	var matches []models.CustomerMatch
	err := s.db.WithContext(ctx).
		Where("reference_year = ?", year).
		Order("customer_id").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// ListAcceptedMatches returns the confident, accepted matches of a year
// together with the matched customer's prior-year turnover.
func (s *Store) ListAcceptedMatches(ctx context.Context, year int) ([]models.MatchedCustomer, error) {
	var rows []models.MatchedCustomer
	err := s.db.WithContext(ctx).
		Table("customer_matches AS m").
		Select("m.customer_id, m.subsidy_total, c.turnover_last_year").
		Joins("LEFT JOIN customers AS c ON c.id = m.customer_id").
		Where("m.reference_year = ? AND m.confident = ? AND m.status = ?",
			year, true, models.MatchStatusAccepted).
		Order("m.customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted matches: %w", err)
	}
	return rows, nil
}
