// Package models holds the persisted records of the potential pipeline and
// the read models exchanged between its stages.
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentRecord is one raw row of an external subsidy payment export.
// Rows are appended per import run and never updated.
type PaymentRecord struct {
	ID                 uint64              `gorm:"primaryKey"`
	ReferenceYear      int                 `gorm:"column:reference_year;not null;index:idx_payment_identity,priority:1"`
	SourceTag          string              `gorm:"column:source_tag;size:64;not null"`
	BeneficiaryName    string              `gorm:"column:beneficiary_name;not null"`
	NormalizedName     string              `gorm:"column:normalized_name;not null;index:idx_payment_identity,priority:2"`
	PostalCode         string              `gorm:"column:postal_code;size:16;index:idx_payment_identity,priority:3"`
	City               string              `gorm:"column:city;index:idx_payment_identity,priority:4"`
	Region             string              `gorm:"column:region"`
	MeasureCode        string              `gorm:"column:measure_code;size:64"`
	MeasureDescription string              `gorm:"column:measure_description"`
	AmountEGFL         decimal.NullDecimal `gorm:"column:amount_egfl;type:numeric"`
	AmountELER         decimal.NullDecimal `gorm:"column:amount_eler;type:numeric"`
	AmountCofinancing  decimal.NullDecimal `gorm:"column:amount_cofinancing;type:numeric"`
	AmountTotal        decimal.NullDecimal `gorm:"column:amount_total;type:numeric"`
	BatchID            string              `gorm:"column:batch_id;size:64;not null;index"`
	RawPayload         datatypes.JSON      `gorm:"column:raw_payload"`
	CreatedAt          time.Time
}

// TableName implements gorm's tabler.
func (PaymentRecord) TableName() string { return "payment_records" }

// AggregatedBeneficiary is the per-year sum of payments of one beneficiary
// identity (normalized name, postal code, city). It is derived by query.
type AggregatedBeneficiary struct {
	ReferenceYear  int                 `gorm:"column:reference_year"`
	NormalizedName string              `gorm:"column:normalized_name"`
	PostalCode     string              `gorm:"column:postal_code"`
	City           string              `gorm:"column:city"`
	TotalAmount    decimal.NullDecimal `gorm:"column:total_amount"`
	PaymentCount   int64               `gorm:"column:payment_count"`
}

// AggregateSummary describes one year's aggregation for operational logging.
type AggregateSummary struct {
	ReferenceYear int
	Identities    int
	Payments      int64
	Total         decimal.Decimal
}
