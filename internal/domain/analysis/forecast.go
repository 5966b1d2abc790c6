package analysis

import (
	"math"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/types"
)

const (
	// minForecastYears is the minimum history needed to derive a growth rate.
	minForecastYears = 2

	defaultForecastHorizon = 3
	maxForecastHorizon     = 10

	// Growth rates outside this band are treated as one-off anomalies and
	// clamped before projection.
	minGrowthRate = -0.30
	maxGrowthRate = 0.50

	// growthDecay dampens the applied growth rate each projected year.
	growthDecay = 0.9

	// confidenceStep widens the band by ±5% per projected year.
	confidenceStep = 0.05
)

// ForecastValue is one projected figure with its confidence band.
type ForecastValue struct {
	Value float64 `json:"value"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// ForecastYear is one projected fiscal year.
type ForecastYear struct {
	Year    int           `json:"year"`
	Income  ForecastValue `json:"income"`
	Expense ForecastValue `json:"expense"`
	Profit  ForecastValue `json:"profit"`
	Assets  ForecastValue `json:"assets"`
}

// GrowthRates are the derived (clamped) annual growth rates per series.
type GrowthRates struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Assets  float64 `json:"assets"`
}

// Forecast is the multi-year projection block.
type Forecast struct {
	BaseYear    int            `json:"base_year"`
	YearsUsed   int            `json:"years_used"`
	GrowthRates GrowthRates    `json:"growth_rates"`
	Years       []ForecastYear `json:"years"`
}

// BuildForecast projects income, expense, profit and assets for the given
// horizon from annual history. History must be ascending by year and hold at
// least two years, otherwise an insufficient-history error is returned.
// Growth is a recency-weighted average of year-over-year rates, clamped to
// [-30%, +50%]. The projection for horizon i applies the decayed rate
// (decay^(i-1)) compounded i times over the base-year value.
func BuildForecast(history []AnnualAggregate, horizon int) (*Forecast, error) {
	if len(history) < minForecastYears {
		return nil, apperror.NewInsufficientHistory(len(history), minForecastYears)
	}
	if horizon <= 0 {
		horizon = defaultForecastHorizon
	}
	if horizon > maxForecastHorizon {
		horizon = maxForecastHorizon
	}

	incomes := make([]float64, len(history))
	expenses := make([]float64, len(history))
	assets := make([]float64, len(history))
	for i, h := range history {
		incomes[i] = h.Income
		expenses[i] = h.Expense
		assets[i] = h.Assets
	}

	rates := GrowthRates{
		Income:  weightedGrowthRate(incomes),
		Expense: weightedGrowthRate(expenses),
		Assets:  weightedGrowthRate(assets),
	}

	last := history[len(history)-1]
	f := &Forecast{
		BaseYear:    last.Year,
		YearsUsed:   len(history),
		GrowthRates: rates,
		Years:       make([]ForecastYear, 0, horizon),
	}

	for i := 1; i <= horizon; i++ {
		decay := math.Pow(growthDecay, float64(i-1))
		income := last.Income * math.Pow(1+rates.Income*decay, float64(i))
		expense := last.Expense * math.Pow(1+rates.Expense*decay, float64(i))
		asset := last.Assets * math.Pow(1+rates.Assets*decay, float64(i))

		band := confidenceStep * float64(i)
		f.Years = append(f.Years, ForecastYear{
			Year:    last.Year + i,
			Income:  bandValue(income, band),
			Expense: bandValue(expense, band),
			Profit:  bandValue(income-expense, band),
			Assets:  bandValue(asset, band),
		})
	}

	return f, nil
}

// weightedGrowthRate averages year-over-year relative growth with linearly
// increasing weights, so the most recent transition dominates. Transitions
// from a non-positive base are skipped.
func weightedGrowthRate(series []float64) float64 {
	var sum, weights float64
	for i := 1; i < len(series); i++ {
		if series[i-1] <= 0 {
			continue
		}
		w := float64(i)
		sum += (series[i] - series[i-1]) / series[i-1] * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	rate := sum / weights
	if rate < minGrowthRate {
		return minGrowthRate
	}
	if rate > maxGrowthRate {
		return maxGrowthRate
	}
	return rate
}

func bandValue(v, band float64) ForecastValue {
	return ForecastValue{
		Value: types.Round2(v),
		Low:   types.Round2(v * (1 - band)),
		High:  types.Round2(v * (1 + band)),
	}
}
