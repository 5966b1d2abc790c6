package analysis

// Risk flag severities.
const (
	LevelCritical = "critical"
	LevelWarning  = "warning"
)

// Risk flag codes.
const (
	FlagLoss            = "LOSS"
	FlagLowMargin       = "LOW_MARGIN"
	FlagRevenueDecline  = "REVENUE_DECLINE"
	FlagLiquidityCrisis = "LIQUIDITY_CRISIS"
	FlagHighDebt        = "HIGH_DEBT"
	FlagHighDebtRatio   = "HIGH_DEBT_RATIO"
	FlagBankruptcyRisk  = "BANKRUPTCY_RISK"
	FlagGreyZone        = "GREY_ZONE"
	FlagLowROA          = "LOW_ROA"
)

// RiskFlag is one detected risk condition with bilingual presentation text.
type RiskFlag struct {
	Level     string `json:"level"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	TitleEn   string `json:"title_en"`
	Message   string `json:"message"`
	MessageEn string `json:"message_en"`
}

// DetectRiskFlags scans the ratio block for risk conditions. Within each
// group the first matching rule suppresses the rest: a loss excludes the
// low-margin flag, bankruptcy risk excludes the grey zone, high leverage
// excludes the high debt ratio.
func DetectRiskFlags(r Ratios, netProfit float64) []RiskFlag {
	flags := make([]RiskFlag, 0, 4)

	switch {
	case netProfit < 0:
		flags = append(flags, RiskFlag{
			Level:     LevelCritical,
			Code:      FlagLoss,
			Title:     "إنهيار الربحية",
			TitleEn:   "Profitability Collapse",
			Message:   "الشركة تحقق خسائر مالية - يتطلب تدخل فوري",
			MessageEn: "Company is making losses - immediate action required",
		})
	case r.NetMargin < 2:
		flags = append(flags, RiskFlag{
			Level:     LevelWarning,
			Code:      FlagLowMargin,
			Title:     "هامش ربح منخفض",
			TitleEn:   "Low Profit Margin",
			Message:   "هامش الربح أقل من 2% - يحتاج تحسين العمليات",
			MessageEn: "Profit margin below 2% - needs operational improvement",
		})
	}

	if r.IncomeGrowth < -5 {
		flags = append(flags, RiskFlag{
			Level:     LevelWarning,
			Code:      FlagRevenueDecline,
			Title:     "انخفاض الإيرادات",
			TitleEn:   "Revenue Decline",
			Message:   "انخفاض الإيرادات بنسبة تزيد عن 5% مقارنة بالسنة السابقة",
			MessageEn: "Revenue declined by more than 5% YoY",
		})
	}

	if r.CurrentRatio < 1 {
		flags = append(flags, RiskFlag{
			Level:     LevelCritical,
			Code:      FlagLiquidityCrisis,
			Title:     "مشكلة سيولة حرجة",
			TitleEn:   "Critical Liquidity Issue",
			Message:   "الالتزامات قصيرة الأجل تتجاوز الأصول المتداولة",
			MessageEn: "Current liabilities exceed current assets",
		})
	}

	switch {
	case r.Leverage > 3:
		flags = append(flags, RiskFlag{
			Level:     LevelWarning,
			Code:      FlagHighDebt,
			Title:     "ديون مرتفعة جداً",
			TitleEn:   "Very High Debt",
			Message:   "نسبة الديون إلى حقوق الملكية مرتفعة - مخاطر إعادة هيكلة",
			MessageEn: "High debt-to-equity ratio - restructuring risk",
		})
	case r.DebtRatio > 70:
		flags = append(flags, RiskFlag{
			Level:     LevelWarning,
			Code:      FlagHighDebtRatio,
			Title:     "نسبة مديونية مرتفعة",
			TitleEn:   "High Debt Ratio",
			Message:   "أكثر من 70% من الأصول ممولة بالديون",
			MessageEn: "More than 70% of assets financed by debt",
		})
	}

	switch {
	case r.ZScore < 1.8:
		flags = append(flags, RiskFlag{
			Level:     LevelCritical,
			Code:      FlagBankruptcyRisk,
			Title:     "خطر إفلاس وشيك",
			TitleEn:   "Imminent Bankruptcy Risk",
			Message:   "Z-Score أقل من 1.8 - احتمالية إفلاس عالية",
			MessageEn: "Z-Score below 1.8 - high bankruptcy probability",
		})
	case r.ZScore < 2.9:
		flags = append(flags, RiskFlag{
			Level:     LevelWarning,
			Code:      FlagGreyZone,
			Title:     "منطقة رمادية",
			TitleEn:   "Grey Zone",
			Message:   "Z-Score في منطقة خطر - يتطلب مراقبة دقيقة",
			MessageEn: "Z-Score in danger zone - requires close monitoring",
		})
	}

	if r.ROA < 0 {
		flags = append(flags, RiskFlag{
			Level:     LevelCritical,
			Code:      FlagLowROA,
			Title:     "عدم كفاءة استخدام الأصول",
			TitleEn:   "Inefficient Asset Utilization",
			Message:   "ROA سالب - الأصول لا تحقق أرباح",
			MessageEn: "Negative ROA - assets not generating profits",
		})
	}

	return flags
}
