package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func englishInsights(insights []Insight) []string {
	out := make([]string, 0, len(insights))
	for _, i := range insights {
		out = append(out, i.En)
	}
	return out
}

func TestAnalyzeIncomeStatement(t *testing.T) {
	a := AnalyzeIncomeStatement(1000, 800, 200, 800, 100)

	assert.InDelta(t, 20.0, a.GrossMargin, 0.001)
	assert.InDelta(t, 7.5, a.MarginChange, 0.001)
	assert.InDelta(t, 25.0, a.RevenueGrowth, 0.001)
	assert.InDelta(t, 100.0, a.ProfitGrowth, 0.001)
	assert.InDelta(t, 80.0, a.ExpenseRatio, 0.001)

	en := englishInsights(a.Insights)
	assert.Contains(t, en, "Strong revenue growth - continued market expansion")
	assert.Contains(t, en, "Exceptional profit growth")
	require.Len(t, a.Insights, 2)
	for _, i := range a.Insights {
		assert.NotEmpty(t, i.Ar)
	}
}

func TestAnalyzeIncomeStatement_NoHistory(t *testing.T) {
	a := AnalyzeIncomeStatement(1000, 970, 30, 0, 0)

	assert.Zero(t, a.RevenueGrowth)
	assert.Zero(t, a.ProfitGrowth)
	assert.InDelta(t, 3.0, a.GrossMargin, 0.001)
	assert.Contains(t, englishInsights(a.Insights), "⚠️ Low profit margin - cost pressures")
}

func TestAnalyzeBalanceSheet(t *testing.T) {
	a := AnalyzeBalanceSheet(1000, 800, 200, 900)

	assert.InDelta(t, 4.0, a.DebtToEquity, 0.001)
	assert.InDelta(t, 80.0, a.DebtToAssets, 0.001)
	assert.InDelta(t, 11.11, a.AssetGrowth, 0.001)
	assert.InDelta(t, 20.0, a.EquityRatio, 0.001)

	en := englishInsights(a.Insights)
	assert.Contains(t, en, "⚠️ High debt compared to equity")
	assert.Contains(t, en, "⚠️ Very high debt ratio")
}

func TestAnalyzeBalanceSheet_Conservative(t *testing.T) {
	a := AnalyzeBalanceSheet(1000, 200, 800, 800)

	en := englishInsights(a.Insights)
	assert.Contains(t, en, "Conservative financing structure - low debt reliance")
	assert.Contains(t, en, "Strong financial position - low debt")
	assert.Contains(t, en, "Significant asset growth - investment expansion")
}

func TestEstimateCashFlow(t *testing.T) {
	cf := EstimateCashFlow(CashFlowAggregates{
		ARChange:  50,
		APChange:  20,
		Investing: -100,
		Financing: 30,
	}, 200)

	assert.InDelta(t, 170.0, cf.Operating, 0.001)
	assert.InDelta(t, -100.0, cf.Investing, 0.001)
	assert.InDelta(t, 30.0, cf.Financing, 0.001)
	assert.InDelta(t, 100.0, cf.Net, 0.001)
}

func TestAnalyzeCashFlow(t *testing.T) {
	cf := CashFlowStatement{Operating: 170, Investing: -100, Financing: 30, Net: 100}
	a := AnalyzeCashFlow(cf, 200)

	assert.InDelta(t, 85.0, a.OperatingMargin, 0.001)
	assert.InDelta(t, 70.0, a.FreeCashFlow, 0.001)
	assert.Contains(t, englishInsights(a.Insights), "Generating positive free cash flow")
}

func TestAnalyzeCashFlow_Negative(t *testing.T) {
	cf := CashFlowStatement{Operating: -50, Investing: -100, Financing: 30, Net: -120}
	a := AnalyzeCashFlow(cf, 100)

	en := englishInsights(a.Insights)
	assert.Contains(t, en, "⚠️ Negative operating cash flow")
	assert.Contains(t, en, "⚠️ Negative free cash flow - investments exceed operations")
	assert.Contains(t, en, "⚠️ Negative net cash flow - monitor liquidity")
}

func TestBuildEquityChanges(t *testing.T) {
	ec := BuildEquityChanges(EquityAggregates{
		Opening:       -500, // credit-normal signed balance
		Contributions: 100,
		Dividends:     50,
	}, 200)

	assert.InDelta(t, 500.0, ec.OpeningBalance, 0.001)
	assert.InDelta(t, 750.0, ec.ClosingBalance, 0.001)
}
