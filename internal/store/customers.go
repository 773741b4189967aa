package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/agri-potential/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerPotential is the set of analytic fields the hydrator overwrites.
type CustomerPotential struct {
	Year              int
	EstimatedAreaHa   decimal.NullDecimal
	PotentialTotalEUR decimal.NullDecimal
	ShareOfWallet     decimal.NullDecimal
	Segment           *string
	UpdatedAt         time.Time
}

// ListActiveCustomers returns the active-customer directory ordered by id.
func (s *Store) ListActiveCustomers(ctx context.Context) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Select("id, legal_name, postal_code, city, turnover_last_year").
		Where("active = ?", true).
		Order("id").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active customers: %w", err)
	}
	return entries, nil
}

// UpsertCustomer inserts a directory entry or refreshes its directory
// fields. Analytic fields are left untouched on update.
func (s *Store) UpsertCustomer(ctx context.Context, customer *models.Customer) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"legal_name", "postal_code", "city", "active", "turnover_last_year", "updated_at",
		}),
	}).Create(customer).Error
	if err != nil {
		return fmt.Errorf("failed to upsert customer %s: %w", customer.ID, err)
	}
	return nil
}

// GetCustomer loads one customer, returning nil when it does not exist.
func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer %s: %w", id, err)
	}
	return &customer, nil
}

// UpdateCustomerPotential overwrites the analytic fields of one customer.
// It reports false when no customer with that id exists.
func (s *Store) UpdateCustomerPotential(ctx context.Context, customerID string, p CustomerPotential) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"potential_year":       p.Year,
			"estimated_area_ha":    p.EstimatedAreaHa,
			"potential_total_eur":  p.PotentialTotalEUR,
			"share_of_wallet":      p.ShareOfWallet,
			"segment":              p.Segment,
			"potential_updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update customer %s: %w", customerID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
