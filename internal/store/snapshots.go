package store

import (
	"context"
	"fmt"

	"fjacquet/agri-potential/internal/models"

	"gorm.io/gorm"
)

// ListSnapshots returns the snapshot rows of a year ordered by customer id.
func (s *Store) ListSnapshots(ctx context.Context, year int) ([]models.PotentialSnapshot, error) {
	var snapshots []models.PotentialSnapshot
	err := s.db.WithContext(ctx).
		Where("reference_year = ?", year).
		Order("customer_id").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// ReplaceSnapshots deletes the snapshot rows of a year and inserts the given
// rows in their place, inside one transaction.
func (s *Store) ReplaceSnapshots(ctx context.Context, year int, snapshots []models.PotentialSnapshot) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("reference_year = ?", year).Delete(&models.PotentialSnapshot{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete snapshots: %w", res.Error)
		}
		deleted = res.RowsAffected
		for i := range snapshots {
			if err := tx.Create(&snapshots[i]).Error; err != nil {
				return fmt.Errorf("failed to insert snapshot for customer %s: %w", snapshots[i].CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
