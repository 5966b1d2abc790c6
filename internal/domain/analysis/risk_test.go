package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flagCodes(flags []RiskFlag) []string {
	codes := make([]string, 0, len(flags))
	for _, f := range flags {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestDetectRiskFlags_Healthy(t *testing.T) {
	r := Ratios{NetMargin: 10, IncomeGrowth: 2, CurrentRatio: 2, Leverage: 1.5, DebtRatio: 30, ZScore: 3.5, ROA: 5}
	assert.Empty(t, DetectRiskFlags(r, 100))
}

func TestDetectRiskFlags_LossSuppressesLowMargin(t *testing.T) {
	r := Ratios{NetMargin: -5, CurrentRatio: 2, Leverage: 1.5, ZScore: 3.5}
	codes := flagCodes(DetectRiskFlags(r, -50))

	assert.Contains(t, codes, FlagLoss)
	assert.NotContains(t, codes, FlagLowMargin)
}

func TestDetectRiskFlags_LowMargin(t *testing.T) {
	r := Ratios{NetMargin: 1.5, CurrentRatio: 2, Leverage: 1.5, ZScore: 3.5}
	codes := flagCodes(DetectRiskFlags(r, 10))

	assert.Contains(t, codes, FlagLowMargin)
	assert.NotContains(t, codes, FlagLoss)
}

func TestDetectRiskFlags_ZScoreZones(t *testing.T) {
	grey := Ratios{NetMargin: 10, CurrentRatio: 2, Leverage: 1.5, ZScore: 2.5}
	codes := flagCodes(DetectRiskFlags(grey, 100))
	assert.Contains(t, codes, FlagGreyZone)
	assert.NotContains(t, codes, FlagBankruptcyRisk)

	distress := Ratios{NetMargin: 10, CurrentRatio: 2, Leverage: 1.5, ZScore: 1.5}
	codes = flagCodes(DetectRiskFlags(distress, 100))
	assert.Contains(t, codes, FlagBankruptcyRisk)
	assert.NotContains(t, codes, FlagGreyZone)
}

func TestDetectRiskFlags_LeverageSuppressesDebtRatio(t *testing.T) {
	r := Ratios{NetMargin: 10, CurrentRatio: 2, Leverage: 3.5, DebtRatio: 80, ZScore: 3.5}
	codes := flagCodes(DetectRiskFlags(r, 100))

	assert.Contains(t, codes, FlagHighDebt)
	assert.NotContains(t, codes, FlagHighDebtRatio)
}

func TestDetectRiskFlags_CriticalConditions(t *testing.T) {
	r := Ratios{NetMargin: 10, IncomeGrowth: -8, CurrentRatio: 0.8, Leverage: 1.5, ZScore: 3.5, ROA: -1}
	flags := DetectRiskFlags(r, 100)
	codes := flagCodes(flags)

	assert.Contains(t, codes, FlagRevenueDecline)
	assert.Contains(t, codes, FlagLiquidityCrisis)
	assert.Contains(t, codes, FlagLowROA)

	for _, f := range flags {
		assert.NotEmpty(t, f.Title, "flag %s missing Arabic title", f.Code)
		assert.NotEmpty(t, f.TitleEn, "flag %s missing English title", f.Code)
		assert.NotEmpty(t, f.Message)
		assert.NotEmpty(t, f.MessageEn)
	}
}
