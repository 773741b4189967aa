package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Capture segments.
const (
	SegmentA = "A"
	SegmentB = "B"
	SegmentC = "C"
)

// PotentialSnapshot is the per-year sales potential estimate of a customer.
// All rows of a year are replaced on every calculation.
type PotentialSnapshot struct {
	ID                         uint64              `gorm:"primaryKey"`
	ReferenceYear              int                 `gorm:"column:reference_year;not null;uniqueIndex:ux_snapshot_year_customer,priority:1"`
	CustomerID                 string              `gorm:"column:customer_id;size:64;not null;uniqueIndex:ux_snapshot_year_customer,priority:2"`
	SubsidyTotal               decimal.NullDecimal `gorm:"column:subsidy_total;type:numeric"`
	EurPerHa                   decimal.Decimal     `gorm:"column:eur_per_ha;type:numeric;not null"`
	EstimatedAreaHa            decimal.Decimal     `gorm:"column:estimated_area_ha;type:numeric;not null"`
	PotentialSeedEUR           decimal.Decimal     `gorm:"column:potential_seed_eur;type:numeric;not null"`
	PotentialFertilizerEUR     decimal.Decimal     `gorm:"column:potential_fertilizer_eur;type:numeric;not null"`
	PotentialCropProtectionEUR decimal.Decimal     `gorm:"column:potential_crop_protection_eur;type:numeric;not null"`
	PotentialTotalEUR          decimal.Decimal     `gorm:"column:potential_total_eur;type:numeric;not null"`
	TurnoverLastYear           decimal.NullDecimal `gorm:"column:turnover_last_year;type:numeric"`
	ShareOfWallet              decimal.NullDecimal `gorm:"column:share_of_wallet;type:numeric"`
	Segment                    *string             `gorm:"column:segment;size:1"`
	CreatedAt                  time.Time
}

// TableName implements gorm's tabler.
func (PotentialSnapshot) TableName() string { return "potential_snapshots" }
