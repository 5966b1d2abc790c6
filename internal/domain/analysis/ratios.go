package analysis

import (
	"math"

	"ledgerlens/internal/core/types"
)

// Inputs are the magnitudes feeding ratio computation. All values are
// non-negative except NetProfit and PrevProfit, which keep their sign.
type Inputs struct {
	Income             float64
	Expense            float64
	NetProfit          float64
	Assets             float64
	Liabilities        float64
	Equity             float64
	CurrentAssets      float64
	CurrentLiabilities float64
	PrevIncome         float64
	PrevProfit         float64
}

// Ratios is the full ratio block. Every ratio whose denominator is not
// strictly positive is 0, never NaN or Inf.
type Ratios struct {
	ROE             float64 `json:"roe"`
	ROA             float64 `json:"roa"`
	NetMargin       float64 `json:"net_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	AssetTurnover   float64 `json:"asset_turnover"`
	Leverage        float64 `json:"leverage"`
	DebtRatio       float64 `json:"debt_ratio"`
	CurrentRatio    float64 `json:"current_ratio"`
	QuickRatio      float64 `json:"quick_ratio"`
	IncomeGrowth    float64 `json:"income_growth"`
	ProfitGrowth    float64 `json:"profit_growth"`
	WorkingCapital  float64 `json:"working_capital"`
	ZScore          float64 `json:"z_score"`
	DuPontROE       float64 `json:"dupont_roe"`
}

// quickRatioFactor approximates quick assets as 70% of current assets,
// absent a reliable inventory breakdown.
const quickRatioFactor = 0.7

// Altman Z-score component weights (original five-factor model).
const (
	zWorkingCapital = 1.2
	zRetained       = 1.4
	zEBIT           = 3.3
	zEquityToDebt   = 0.6
	zSales          = 1.0
)

// ComputeRatios derives the ratio block from period magnitudes.
func ComputeRatios(in Inputs) Ratios {
	r := Ratios{
		ROE:             ratio(in.NetProfit, in.Equity, 100),
		ROA:             ratio(in.NetProfit, in.Assets, 100),
		NetMargin:       ratio(in.NetProfit, in.Income, 100),
		OperatingMargin: ratio(in.NetProfit, in.Income, 100),
		AssetTurnover:   ratio(in.Income, in.Assets, 1),
		Leverage:        ratio(in.Assets, in.Equity, 1),
		DebtRatio:       ratio(in.Liabilities, in.Assets, 100),
		CurrentRatio:    ratio(in.CurrentAssets, in.CurrentLiabilities, 1),
		QuickRatio:      ratio(in.CurrentAssets*quickRatioFactor, in.CurrentLiabilities, 1),
		WorkingCapital:  types.Round2(in.CurrentAssets - in.CurrentLiabilities),
	}

	if in.PrevIncome != 0 {
		r.IncomeGrowth = types.Round2((in.Income - in.PrevIncome) / in.PrevIncome * 100)
	}
	if in.PrevProfit != 0 {
		r.ProfitGrowth = types.Round2((in.NetProfit - in.PrevProfit) / math.Abs(in.PrevProfit) * 100)
	}

	if in.Assets > 0 && in.Liabilities > 0 {
		wc := in.CurrentAssets - in.CurrentLiabilities
		r.ZScore = types.Round2(
			wc/in.Assets*zWorkingCapital +
				in.Equity/in.Assets*zRetained +
				in.NetProfit/in.Assets*zEBIT +
				in.Equity/in.Liabilities*zEquityToDebt +
				in.Income/in.Assets*zSales)
	}

	// DuPont decomposition: margin × turnover × equity multiplier. By
	// construction it reproduces ROE when all three denominators are positive.
	if in.Equity > 0 && in.Assets > 0 && in.Income > 0 {
		margin := in.NetProfit / in.Income
		turnover := in.Income / in.Assets
		multiplier := in.Assets / in.Equity
		r.DuPontROE = types.Round2(margin * turnover * multiplier * 100)
	}

	return r
}

// ratio divides num by den scaled, guarding non-positive denominators to 0.
func ratio(num, den, scale float64) float64 {
	if den <= 0 {
		return 0
	}
	return types.Round2(num / den * scale)
}
