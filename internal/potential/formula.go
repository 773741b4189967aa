package potential

import (
	"fjacquet/agri-potential/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Segment thresholds on share of wallet, in percent.
var (
	segmentAThreshold = decimal.NewFromInt(80)
	segmentBThreshold = decimal.NewFromInt(40)
)

// Rates are the per-hectare category spend rates in EUR.
type Rates struct {
	Seed           decimal.Decimal
	Fertilizer     decimal.Decimal
	CropProtection decimal.Decimal
}

// EstimatedArea converts a subsidy total into hectares. Null and
// non-positive totals yield zero.
func EstimatedArea(subsidyTotal decimal.NullDecimal, eurPerHa decimal.Decimal) decimal.Decimal {
	if !subsidyTotal.Valid || !eurPerHa.IsPositive() {
		return decimal.Zero
	}
	area := subsidyTotal.Decimal.Div(eurPerHa)
	if area.IsNegative() {
		return decimal.Zero
	}
	return area
}

// ShareOfWallet returns turnover as a percentage of the total potential.
// It is null when the potential is not positive or the turnover is unknown.
func ShareOfWallet(turnover decimal.NullDecimal, totalPotential decimal.Decimal) decimal.NullDecimal {
	if !turnover.Valid || !totalPotential.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(turnover.Decimal.Div(totalPotential).Mul(hundred))
}

// SegmentFor maps a share of wallet to A (>= 80), B (>= 40) or C (>= 0).
// Null and negative shares have no segment.
func SegmentFor(share decimal.NullDecimal) *string {
	if !share.Valid {
		return nil
	}
	var segment string
	switch {
	case share.Decimal.GreaterThanOrEqual(segmentAThreshold):
		segment = models.SegmentA
	case share.Decimal.GreaterThanOrEqual(segmentBThreshold):
		segment = models.SegmentB
	case !share.Decimal.IsNegative():
		segment = models.SegmentC
	default:
		return nil
	}
	return &segment
}

// Compute derives the snapshot of one matched customer. CreatedAt is left
// to the caller.
func Compute(year int, match models.MatchedCustomer, eurPerHa decimal.Decimal, rates Rates) models.PotentialSnapshot {
	area := EstimatedArea(match.SubsidyTotal, eurPerHa)
	seed := area.Mul(rates.Seed)
	fertilizer := area.Mul(rates.Fertilizer)
	cropProtection := area.Mul(rates.CropProtection)
	total := seed.Add(fertilizer).Add(cropProtection)
	share := ShareOfWallet(match.TurnoverLastYear, total)

	return models.PotentialSnapshot{
		ReferenceYear:              year,
		CustomerID:                 match.CustomerID,
		SubsidyTotal:               match.SubsidyTotal,
		EurPerHa:                   eurPerHa,
		EstimatedAreaHa:            area,
		PotentialSeedEUR:           seed,
		PotentialFertilizerEUR:     fertilizer,
		PotentialCropProtectionEUR: cropProtection,
		PotentialTotalEUR:          total,
		TurnoverLastYear:           match.TurnoverLastYear,
		ShareOfWallet:              share,
		Segment:                    SegmentFor(share),
	}
}
