package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the long-lived customer record. The pipeline reads the
// directory fields and overwrites only the potential analytics fields.
type Customer struct {
	ID               string              `gorm:"primaryKey;size:64"`
	LegalName        string              `gorm:"column:legal_name;not null"`
	PostalCode       string              `gorm:"column:postal_code;size:16"`
	City             string              `gorm:"column:city"`
	Active           bool                `gorm:"column:active;not null;index"`
	TurnoverLastYear decimal.NullDecimal `gorm:"column:turnover_last_year;type:numeric"`

	PotentialYear      *int                `gorm:"column:potential_year"`
	EstimatedAreaHa    decimal.NullDecimal `gorm:"column:estimated_area_ha;type:numeric"`
	PotentialTotalEUR  decimal.NullDecimal `gorm:"column:potential_total_eur;type:numeric"`
	ShareOfWallet      decimal.NullDecimal `gorm:"column:share_of_wallet;type:numeric"`
	Segment            *string             `gorm:"column:segment;size:1"`
	PotentialUpdatedAt *time.Time          `gorm:"column:potential_updated_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (Customer) TableName() string { return "customers" }

// DirectoryEntry is the subset of Customer the matcher works on.
type DirectoryEntry struct {
	ID               string
	LegalName        string
	PostalCode       string
	City             string
	TurnoverLastYear decimal.NullDecimal
}
