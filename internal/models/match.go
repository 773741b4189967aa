package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Match method and status tags.
const (
	MatchMethodExactKey = "exact_key"
	MatchStatusAccepted = "accepted"
)

// CustomerMatch records that a customer was linked to an aggregated
// beneficiary for one reference year. Unique per (year, customer).
type CustomerMatch struct {
	ID              uint64              `gorm:"primaryKey"`
	ReferenceYear   int                 `gorm:"column:reference_year;not null;uniqueIndex:ux_match_year_customer,priority:1"`
	CustomerID      string              `gorm:"column:customer_id;size:64;not null;uniqueIndex:ux_match_year_customer,priority:2"`
	BeneficiaryName string              `gorm:"column:beneficiary_name;not null"`
	PostalCode      string              `gorm:"column:postal_code;size:16"`
	City            string              `gorm:"column:city"`
	MatchScore      decimal.Decimal     `gorm:"column:match_score;type:numeric;not null"`
	MatchMethod     string              `gorm:"column:match_method;size:32;not null"`
	Confident       bool                `gorm:"column:confident;not null"`
	Status          string              `gorm:"column:status;size:32;not null;index"`
	SubsidyTotal    decimal.NullDecimal `gorm:"column:subsidy_total;type:numeric"`
	CandidateCount  int                 `gorm:"column:candidate_count;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName implements gorm's tabler.
func (CustomerMatch) TableName() string { return "customer_matches" }

// MatchedCustomer joins a confident match with the customer's prior-year
// turnover; it is the snapshot calculator's working set.
type MatchedCustomer struct {
	CustomerID       string              `gorm:"column:customer_id"`
	SubsidyTotal     decimal.NullDecimal `gorm:"column:subsidy_total"`
	TurnoverLastYear decimal.NullDecimal `gorm:"column:turnover_last_year"`
}
