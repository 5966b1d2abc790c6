package analysis

import "ledgerlens/internal/core/types"

// Insight is one bilingual observation attached to a statement analysis.
type Insight struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

// IncomeAnalysis is the derived income-statement view.
type IncomeAnalysis struct {
	Income        float64   `json:"income"`
	Expense       float64   `json:"expense"`
	Profit        float64   `json:"profit"`
	GrossMargin   float64   `json:"gross_margin"`
	MarginChange  float64   `json:"margin_change"`
	RevenueGrowth float64   `json:"revenue_growth"`
	ProfitGrowth  float64   `json:"profit_growth"`
	ExpenseRatio  float64   `json:"expense_ratio"`
	Insights      []Insight `json:"insights"`
}

// AnalyzeIncomeStatement derives margins, growth and insights from period
// income figures.
func AnalyzeIncomeStatement(income, expense, profit, prevIncome, prevProfit float64) *IncomeAnalysis {
	var margin, prevMargin, revenueGrowth, profitGrowth float64
	if income > 0 {
		margin = profit / income * 100
	}
	if prevIncome > 0 {
		prevMargin = prevProfit / prevIncome * 100
		revenueGrowth = (income - prevIncome) / prevIncome * 100
	}
	if prevProfit != 0 {
		profitGrowth = (profit - prevProfit) / abs(prevProfit) * 100
	}

	a := &IncomeAnalysis{
		Income:        types.Round2(income),
		Expense:       types.Round2(expense),
		Profit:        types.Round2(profit),
		GrossMargin:   types.Round2(margin),
		MarginChange:  types.Round2(margin - prevMargin),
		RevenueGrowth: types.Round2(revenueGrowth),
		ProfitGrowth:  types.Round2(profitGrowth),
		Insights:      []Insight{},
	}
	if income > 0 {
		a.ExpenseRatio = types.Round2(expense / income * 100)
	}

	if revenueGrowth > 10 {
		a.Insights = append(a.Insights, Insight{
			Ar: "نمو قوي في الإيرادات - استمرار التوسع في السوق",
			En: "Strong revenue growth - continued market expansion",
		})
	} else if revenueGrowth < -5 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ انخفاض الإيرادات - يتطلب مراجعة استراتيجية المبيعات",
			En: "⚠️ Revenue decline - requires sales strategy review",
		})
	}

	if margin > 20 {
		a.Insights = append(a.Insights, Insight{
			Ar: "هامش ربح ممتاز - كفاءة تشغيلية عالية",
			En: "Excellent profit margin - high operational efficiency",
		})
	} else if margin < 5 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ هامش ربح منخفض - ضغوط على التكاليف",
			En: "⚠️ Low profit margin - cost pressures",
		})
	}

	if profitGrowth > 15 {
		a.Insights = append(a.Insights, Insight{
			Ar: "نمو استثنائي في الأرباح",
			En: "Exceptional profit growth",
		})
	}

	return a
}

// BalanceSheetAnalysis is the derived balance-sheet view.
type BalanceSheetAnalysis struct {
	Assets       float64   `json:"assets"`
	Liabilities  float64   `json:"liabilities"`
	Equity       float64   `json:"equity"`
	DebtToEquity float64   `json:"debt_to_equity"`
	DebtToAssets float64   `json:"debt_to_assets"`
	AssetGrowth  float64   `json:"asset_growth"`
	EquityRatio  float64   `json:"equity_ratio"`
	Insights     []Insight `json:"insights"`
}

// AnalyzeBalanceSheet derives structure ratios and insights from cumulative
// balance figures.
func AnalyzeBalanceSheet(assets, liabilities, equity, prevAssets float64) *BalanceSheetAnalysis {
	var debtToEquity, debtToAssets, assetGrowth float64
	if equity > 0 {
		debtToEquity = liabilities / equity
	}
	if assets > 0 {
		debtToAssets = liabilities / assets * 100
	}
	if prevAssets > 0 {
		assetGrowth = (assets - prevAssets) / prevAssets * 100
	}

	a := &BalanceSheetAnalysis{
		Assets:       types.Round2(assets),
		Liabilities:  types.Round2(liabilities),
		Equity:       types.Round2(equity),
		DebtToEquity: types.Round2(debtToEquity),
		DebtToAssets: types.Round2(debtToAssets),
		AssetGrowth:  types.Round2(assetGrowth),
		Insights:     []Insight{},
	}
	if assets > 0 {
		a.EquityRatio = types.Round2(equity / assets * 100)
	}

	if debtToEquity < 0.5 {
		a.Insights = append(a.Insights, Insight{
			Ar: "هيكل تمويل محافظ - اعتماد قليل على الديون",
			En: "Conservative financing structure - low debt reliance",
		})
	} else if debtToEquity > 2 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ ديون مرتفعة مقارنة بحقوق الملكية",
			En: "⚠️ High debt compared to equity",
		})
	}

	if assetGrowth > 20 {
		a.Insights = append(a.Insights, Insight{
			Ar: "نمو كبير في الأصول - توسع في الاستثمارات",
			En: "Significant asset growth - investment expansion",
		})
	} else if assetGrowth < 0 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ انكماش في قاعدة الأصول",
			En: "⚠️ Contraction in asset base",
		})
	}

	if debtToAssets > 70 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ نسبة مديونية عالية جداً",
			En: "⚠️ Very high debt ratio",
		})
	} else if debtToAssets < 30 {
		a.Insights = append(a.Insights, Insight{
			Ar: "وضع مالي قوي - ديون منخفضة",
			En: "Strong financial position - low debt",
		})
	}

	return a
}

// CashFlowAnalysis is the derived cash-flow view.
type CashFlowAnalysis struct {
	OperatingMargin float64   `json:"operating_margin"`
	FreeCashFlow    float64   `json:"free_cash_flow"`
	CashConversion  float64   `json:"cash_conversion"`
	Insights        []Insight `json:"insights"`
}

// AnalyzeCashFlow derives cash-quality metrics and insights from an
// estimated cash-flow statement.
func AnalyzeCashFlow(cf CashFlowStatement, netProfit float64) *CashFlowAnalysis {
	var operatingMargin float64
	if netProfit > 0 {
		operatingMargin = cf.Operating / netProfit * 100
	}
	freeCashFlow := cf.Operating + cf.Investing

	a := &CashFlowAnalysis{
		OperatingMargin: types.Round2(operatingMargin),
		FreeCashFlow:    types.Round2(freeCashFlow),
		CashConversion:  types.Round2(operatingMargin),
		Insights:        []Insight{},
	}

	if cf.Operating > netProfit {
		a.Insights = append(a.Insights, Insight{
			Ar: "تدفق نقدي تشغيلي قوي - أفضل من الأرباح المحاسبية",
			En: "Strong operating cash flow - better than accounting profits",
		})
	} else if cf.Operating < 0 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ تدفق نقدي سالب من العمليات",
			En: "⚠️ Negative operating cash flow",
		})
	}

	if freeCashFlow > 0 {
		a.Insights = append(a.Insights, Insight{
			Ar: "توليد تدفق نقدي حر إيجابي",
			En: "Generating positive free cash flow",
		})
	} else {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ التدفق النقدي الحر سالب - استثمارات تفوق التشغيل",
			En: "⚠️ Negative free cash flow - investments exceed operations",
		})
	}

	if cf.Net < 0 {
		a.Insights = append(a.Insights, Insight{
			Ar: "⚠️ صافي تدفق نقدي سالب - مراقبة السيولة",
			En: "⚠️ Negative net cash flow - monitor liquidity",
		})
	}

	return a
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
