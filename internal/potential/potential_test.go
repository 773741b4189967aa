package potential

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"
	"fjacquet/agri-potential/internal/parsererror"
	"fjacquet/agri-potential/internal/store"
	"fjacquet/agri-potential/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

var defaultRates = Rates{Seed: d("50"), Fertilizer: d("150"), CropProtection: d("80")}

func newTestCalculator(s Store) *Calculator {
	c := New(s, d("270"), defaultRates, logging.NewDiscardLogger())
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCompute_MullerExample(t *testing.T) {
	s := Compute(2023, models.MatchedCustomer{
		CustomerID:       "C1",
		SubsidyTotal:     nd("27000"),
		TurnoverLastYear: nd("22400"),
	}, d("270"), defaultRates)

	assert.True(t, s.EstimatedAreaHa.Equal(d("100")))
	assert.True(t, s.PotentialSeedEUR.Equal(d("5000")))
	assert.True(t, s.PotentialFertilizerEUR.Equal(d("15000")))
	assert.True(t, s.PotentialCropProtectionEUR.Equal(d("8000")))
	assert.True(t, s.PotentialTotalEUR.Equal(d("28000")))
	require.True(t, s.ShareOfWallet.Valid)
	assert.True(t, s.ShareOfWallet.Decimal.Equal(d("80")))
	require.NotNil(t, s.Segment)
	assert.Equal(t, models.SegmentA, *s.Segment)
	assert.True(t, s.EurPerHa.Equal(d("270")))
}

func TestEstimatedArea(t *testing.T) {
	tests := []struct {
		name     string
		subsidy  decimal.NullDecimal
		eurPerHa string
		want     string
	}{
		{"positive", nd("27000"), "270", "100"},
		{"doubled constant halves area", nd("27000"), "540", "50"},
		{"zero", nd("0"), "270", "0"},
		{"negative clamps to zero", nd("-500"), "270", "0"},
		{"null", decimal.NullDecimal{}, "270", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimatedArea(tt.subsidy, d(tt.eurPerHa))
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestShareOfWallet(t *testing.T) {
	assert.False(t, ShareOfWallet(nd("100"), d("0")).Valid)
	assert.False(t, ShareOfWallet(nd("100"), d("-1")).Valid)
	assert.False(t, ShareOfWallet(decimal.NullDecimal{}, d("1000")).Valid)

	share := ShareOfWallet(nd("-100"), d("1000"))
	require.True(t, share.Valid)
	assert.True(t, share.Decimal.Equal(d("-10")))
}

func TestSegmentFor(t *testing.T) {
	tests := []struct {
		share decimal.NullDecimal
		want  string
	}{
		{nd("120"), models.SegmentA},
		{nd("80"), models.SegmentA},
		{nd("79.999"), models.SegmentB},
		{nd("40"), models.SegmentB},
		{nd("39.99"), models.SegmentC},
		{nd("0"), models.SegmentC},
		{nd("-0.01"), ""},
		{decimal.NullDecimal{}, ""},
	}
	for _, tt := range tests {
		got := SegmentFor(tt.share)
		if tt.want == "" {
			assert.Nil(t, got, "share %v", tt.share)
			continue
		}
		require.NotNil(t, got, "share %v", tt.share)
		assert.Equal(t, tt.want, *got)
	}
}

func TestCompute_ZeroPotentialHasNoShare(t *testing.T) {
	s := Compute(2023, models.MatchedCustomer{CustomerID: "C1", TurnoverLastYear: nd("1000")}, d("270"), defaultRates)
	assert.True(t, s.PotentialTotalEUR.IsZero())
	assert.False(t, s.ShareOfWallet.Valid)
	assert.Nil(t, s.Segment)
}

func TestCalculate_ReplacesYear(t *testing.T) {
	mock := &store.MockStore{
		Accepted: []models.MatchedCustomer{
			{CustomerID: "C1", SubsidyTotal: nd("27000"), TurnoverLastYear: nd("22400")},
			{CustomerID: "C2", SubsidyTotal: nd("27000")},
		},
		Snapshots: []models.PotentialSnapshot{
			{ReferenceYear: 2023, CustomerID: "stale"},
			{ReferenceYear: 2022, CustomerID: "C1"},
		},
	}

	res, err := newTestCalculator(mock).Calculate(context.Background(), 2023, decimal.NullDecimal{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, int64(1), res.Replaced)
	assert.Equal(t, 1, res.Segments[models.SegmentA])
	assert.Equal(t, 1, res.Segments["none"])
	assert.True(t, res.TotalPotential.Equal(d("56000")))

	rows, err := mock.ListSnapshots(context.Background(), 2023)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), rows[0].CreatedAt)
}

func TestCalculate_OverrideAndValidation(t *testing.T) {
	mock := &store.MockStore{Accepted: []models.MatchedCustomer{{CustomerID: "C1", SubsidyTotal: nd("27000")}}}
	c := newTestCalculator(mock)

	res, err := c.Calculate(context.Background(), 2023, nd("540"))
	require.NoError(t, err)
	assert.True(t, res.EurPerHa.Equal(d("540")))
	assert.True(t, mock.Snapshots[0].EstimatedAreaHa.Equal(d("50")))

	_, err = c.Calculate(context.Background(), 2023, nd("0"))
	require.Error(t, err)

	_, err = c.Calculate(context.Background(), 1999, decimal.NullDecimal{})
	var yearErr *parsererror.InvalidYearError
	require.ErrorAs(t, err, &yearErr)

	bad := New(mock, d("270"), Rates{Seed: d("-1")}, logging.NewDiscardLogger())
	_, err = bad.Calculate(context.Background(), 2023, decimal.NullDecimal{})
	require.Error(t, err)
}

func TestCalculate_StoreErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := newTestCalculator(&store.MockStore{ListAcceptedError: boom}).
		Calculate(context.Background(), 2023, decimal.NullDecimal{})
	require.ErrorIs(t, err, boom)

	_, err = newTestCalculator(&store.MockStore{ReplaceSnapshotsError: boom}).
		Calculate(context.Background(), 2023, decimal.NullDecimal{})
	require.ErrorIs(t, err, boom)
}

func TestCalculate_DeterministicOnStore(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	require.NoError(t, s.UpsertCustomer(ctx, &models.Customer{ID: "C1", LegalName: "Müller GmbH", Active: true,
		TurnoverLastYear: nd("22400")}))
	require.NoError(t, s.UpsertCustomer(ctx, &models.Customer{ID: "C2", LegalName: "Hof", Active: true}))
	for _, m := range []models.CustomerMatch{
		{ReferenceYear: 2023, CustomerID: "C1", BeneficiaryName: "MÜLLER", MatchScore: d("1"),
			MatchMethod: models.MatchMethodExactKey, Confident: true, Status: models.MatchStatusAccepted, SubsidyTotal: nd("27000")},
		{ReferenceYear: 2023, CustomerID: "C2", BeneficiaryName: "HOF", MatchScore: d("1"),
			MatchMethod: models.MatchMethodExactKey, Confident: true, Status: models.MatchStatusAccepted, SubsidyTotal: nd("5400")},
	} {
		m := m
		require.NoError(t, s.UpsertMatch(ctx, &m))
	}

	c := newTestCalculator(s)
	_, err := c.Calculate(ctx, 2023, decimal.NullDecimal{})
	require.NoError(t, err)
	first, err := s.ListSnapshots(ctx, 2023)
	require.NoError(t, err)

	_, err = c.Calculate(ctx, 2023, decimal.NullDecimal{})
	require.NoError(t, err)
	second, err := s.ListSnapshots(ctx, 2023)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].CustomerID, second[i].CustomerID)
		assert.True(t, first[i].PotentialTotalEUR.Equal(second[i].PotentialTotalEUR))
	}
	assert.True(t, second[0].PotentialTotalEUR.Equal(d("28000")))
	require.NotNil(t, second[0].Segment)
	assert.Equal(t, models.SegmentA, *second[0].Segment)
	assert.Nil(t, second[1].Segment)

	_, err = c.Calculate(ctx, 2023, nd("540"))
	require.NoError(t, err)
	doubled, err := s.ListSnapshots(ctx, 2023)
	require.NoError(t, err)
	assert.True(t, doubled[0].EstimatedAreaHa.Equal(first[0].EstimatedAreaHa.Div(d("2"))))
}
