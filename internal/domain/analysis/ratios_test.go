package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyInputs() Inputs {
	return Inputs{
		Income:             1000,
		Expense:            900,
		NetProfit:          100,
		Assets:             1000,
		Liabilities:        400,
		Equity:             600,
		CurrentAssets:      400,
		CurrentLiabilities: 200,
		PrevIncome:         100,
		PrevProfit:         50,
	}
}

func TestComputeRatios(t *testing.T) {
	r := ComputeRatios(healthyInputs())

	assert.InDelta(t, 16.67, r.ROE, 0.001)
	assert.InDelta(t, 10.0, r.ROA, 0.001)
	assert.InDelta(t, 10.0, r.NetMargin, 0.001)
	assert.InDelta(t, 1.0, r.AssetTurnover, 0.001)
	assert.InDelta(t, 1.67, r.Leverage, 0.001)
	assert.InDelta(t, 40.0, r.DebtRatio, 0.001)
	assert.InDelta(t, 2.0, r.CurrentRatio, 0.001)
	assert.InDelta(t, 1.4, r.QuickRatio, 0.001)
	assert.InDelta(t, 200.0, r.WorkingCapital, 0.001)

	// 0.24 + 0.84 + 0.33 + 0.9 + 1.0
	assert.InDelta(t, 3.31, r.ZScore, 0.001)
}

func TestComputeRatios_ZScoreGreyZoneBoundary(t *testing.T) {
	// Halving turnover drops the score into the 1.8–2.9 grey zone.
	in := healthyInputs()
	in.Income = 500

	r := ComputeRatios(in)
	// 0.24 + 0.84 + 0.33 + 0.9 + 0.5
	assert.InDelta(t, 2.81, r.ZScore, 0.001)

	flags := DetectRiskFlags(r, in.NetProfit)
	require.Len(t, flags, 1)
	assert.Equal(t, FlagGreyZone, flags[0].Code)
	assert.Equal(t, LevelWarning, flags[0].Level)
}

func TestComputeRatios_DuPontMatchesROE(t *testing.T) {
	r := ComputeRatios(healthyInputs())
	assert.InDelta(t, r.ROE, r.DuPontROE, 0.011, "DuPont decomposition must reproduce ROE")
}

func TestComputeRatios_ZeroDenominators(t *testing.T) {
	r := ComputeRatios(Inputs{})

	assert.Zero(t, r.ROE)
	assert.Zero(t, r.ROA)
	assert.Zero(t, r.NetMargin)
	assert.Zero(t, r.AssetTurnover)
	assert.Zero(t, r.Leverage)
	assert.Zero(t, r.DebtRatio)
	assert.Zero(t, r.CurrentRatio)
	assert.Zero(t, r.QuickRatio)
	assert.Zero(t, r.IncomeGrowth)
	assert.Zero(t, r.ProfitGrowth)
	assert.Zero(t, r.ZScore)
	assert.Zero(t, r.DuPontROE)
}

func TestComputeRatios_Growth(t *testing.T) {
	in := healthyInputs()
	in.PrevIncome = 800
	in.PrevProfit = 50
	r := ComputeRatios(in)

	assert.InDelta(t, 25.0, r.IncomeGrowth, 0.001)
	assert.InDelta(t, 100.0, r.ProfitGrowth, 0.001)
}

func TestComputeRatios_ProfitGrowthFromLoss(t *testing.T) {
	in := healthyInputs()
	in.NetProfit = 50
	in.PrevProfit = -100
	r := ComputeRatios(in)

	// Recovery from a loss: change is measured against |prev profit|.
	assert.InDelta(t, 150.0, r.ProfitGrowth, 0.001)
}

func TestHealthScore_Clamped(t *testing.T) {
	strong := Ratios{ROE: 20, NetMargin: 20, CurrentRatio: 2, Leverage: 1.5, IncomeGrowth: 15, ZScore: 3.5}
	assert.Equal(t, 100, HealthScore(strong))

	weak := Ratios{ROE: -5, NetMargin: -5, CurrentRatio: 0.5, Leverage: 4, IncomeGrowth: -20, ZScore: 1.0}
	assert.Equal(t, 0, HealthScore(weak))
}

func TestHealthScore_Neutral(t *testing.T) {
	neutral := Ratios{ROE: 3, NetMargin: 5, CurrentRatio: 1.2, Leverage: 2.5, IncomeGrowth: 3, ZScore: 2.0}
	assert.Equal(t, 50, HealthScore(neutral))
}

func TestHealthScore_Bands(t *testing.T) {
	tests := []struct {
		name   string
		ratios Ratios
		want   int
	}{
		{"roe top band", Ratios{ROE: 16, CurrentRatio: 1.2, Leverage: 2.5, ZScore: 2.0}, 65},
		{"roe mid band", Ratios{ROE: 12, CurrentRatio: 1.2, Leverage: 2.5, ZScore: 2.0}, 60},
		{"negative margin", Ratios{NetMargin: -1, CurrentRatio: 1.2, Leverage: 2.5, ZScore: 2.0}, 35},
		{"excess liquidity", Ratios{CurrentRatio: 3.5, Leverage: 2.5, ZScore: 2.0}, 55},
		{"distress z", Ratios{CurrentRatio: 1.2, Leverage: 2.5, ZScore: 1.5}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HealthScore(tt.ratios))
		})
	}
}
