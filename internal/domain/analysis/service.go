package analysis

import (
	"context"
	"fmt"
	"time"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/period"
	"ledgerlens/internal/core/types"
	"ledgerlens/internal/domain/ledger"
	"ledgerlens/pkg/logger"
)

// Working-capital estimation fallback factors, applied when no accounts are
// tagged with current-asset/current-liability types.
const (
	currentAssetFactor     = 0.4
	currentLiabilityFactor = 0.3
)

// signTolerance absorbs rounding noise in sign-anomaly checks.
const signTolerance = 0.01

// identityTolerance is the relative gap between derived and booked equity
// above which an accounting-identity warning is attached.
const identityTolerance = 0.005

// forecastHistoryYears is how far back the projector looks for history.
const forecastHistoryYears = 4

// DefaultCacheTTL bounds staleness of memoized results.
const DefaultCacheTTL = 5 * time.Minute

// Request selects the company, period and output blocks for one analysis.
type Request struct {
	Company       string
	Year          int
	PeriodKind    period.Kind
	PeriodNumber  string
	Sections      SectionSet
	ForecastYears int
}

// Service orchestrates the analysis pipeline: resolve period, aggregate
// balances in one scan, derive statements and ratios, score and flag.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

// Option configures the service.
type Option func(*Service)

// WithCache memoizes results for identical requests.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewService creates an analysis service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full pipeline for one request. Validation failures abort;
// external degradation never loses the numeric result.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.Company == "" {
		return nil, apperror.NewInvalidInput("company is required")
	}

	window, err := period.Resolve(req.Year, req.PeriodKind, req.PeriodNumber)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(req, window)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			hit := *cached
			hit.Cached = true
			return &hit, nil
		}
	}

	balances, err := s.repo.RootTypeBalances(ctx, req.Company, BoundariesFor(window))
	if err != nil {
		return nil, fmt.Errorf("root type balances: %w", err)
	}

	result := &Result{
		Company:   req.Company,
		Period:    window.Label,
		Kind:      window.Kind,
		StartDate: window.Start,
		EndDate:   window.End,
		RiskFlags: []RiskFlag{},
	}
	result.Warnings = signWarnings(balances)

	income := abs(balances[ledger.Income].Current)
	expense := abs(balances[ledger.Expense].Current)
	profit := income - expense
	assets := abs(balances[ledger.Asset].Cumulative)
	liabilities := abs(balances[ledger.Liability].Cumulative)
	equity := assets - liabilities

	prevIncome := abs(balances[ledger.Income].Prior)
	prevExpense := abs(balances[ledger.Expense].Prior)
	prevProfit := prevIncome - prevExpense
	prevAssets := abs(balances[ledger.Asset].PriorCumulative)

	if w, ok := identityWarning(assets, liabilities, equity, balances[ledger.Equity].Cumulative); ok {
		result.Warnings = append(result.Warnings, w)
	}

	currentAssets, currentLiabilities, method, err := s.workingCapital(ctx, req.Company, window.End, assets, liabilities)
	if err != nil {
		return nil, fmt.Errorf("current balances: %w", err)
	}

	ratios := ComputeRatios(Inputs{
		Income:             income,
		Expense:            expense,
		NetProfit:          profit,
		Assets:             assets,
		Liabilities:        liabilities,
		Equity:             equity,
		CurrentAssets:      currentAssets,
		CurrentLiabilities: currentLiabilities,
		PrevIncome:         prevIncome,
		PrevProfit:         prevProfit,
	})

	result.Summary = Summary{
		Income:               types.Round2(income),
		Expense:              types.Round2(expense),
		Profit:               types.Round2(profit),
		Assets:               types.Round2(assets),
		Liabilities:          types.Round2(liabilities),
		Equity:               types.Round2(equity),
		HealthScore:          HealthScore(ratios),
		WorkingCapitalMethod: method,
	}
	result.Ratios = &ratios
	result.RiskFlags = DetectRiskFlags(ratios, profit)

	sections := req.Sections
	if sections.Wants(SectionIncome) || sections.Wants(SectionAI) {
		result.IncomeStatement = AnalyzeIncomeStatement(income, expense, profit, prevIncome, prevProfit)
	}
	if sections.Wants(SectionBalance) {
		result.BalanceSheet = AnalyzeBalanceSheet(assets, liabilities, equity, prevAssets)
	}

	if sections.Wants(SectionCash) {
		if err := s.attachCashFlow(ctx, req.Company, window, profit, result); err != nil {
			return nil, err
		}
	}
	if sections.Wants(SectionEquity) {
		if err := s.attachEquityChanges(ctx, req.Company, window, profit, result); err != nil {
			return nil, err
		}
	}
	if sections.Wants(SectionDashboard) {
		result.Trend = buildTrend(window, balances)
		if err := s.attachBreakdowns(ctx, req.Company, window, result); err != nil {
			return nil, err
		}
	}
	if sections.Wants(SectionForecast) || req.ForecastYears > 0 {
		if err := s.attachForecast(ctx, req, window, sections, result); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, result, s.cacheTTL)
	}

	logger.Debug(ctx, "analysis computed",
		"company", req.Company,
		"period", window.Label,
		"health_score", result.Summary.HealthScore,
		"risk_flags", len(result.RiskFlags))

	return result, nil
}

func (s *Service) cacheKey(req Request, w period.Window) string {
	return fmt.Sprintf("analysis:%s:%d:%s:%d:%s:%d",
		req.Company, w.Year, w.Kind, w.Number, req.Sections.Key(), req.ForecastYears)
}

// workingCapital returns current assets/liabilities magnitudes and the
// sourcing method. When no tagged accounts carry balances, both sides fall
// back to fixed fractions of total assets and liabilities.
func (s *Service) workingCapital(ctx context.Context, company string, asOf time.Time, assets, liabilities float64) (float64, float64, string, error) {
	cb, err := s.repo.CurrentBalances(ctx, company, asOf)
	if err != nil {
		return 0, 0, "", err
	}

	currentAssets := abs(cb.CurrentAssets)
	currentLiabilities := abs(cb.CurrentLiabilities)
	if currentAssets == 0 && currentLiabilities == 0 {
		return assets * currentAssetFactor, liabilities * currentLiabilityFactor, "estimated", nil
	}
	return currentAssets, currentLiabilities, "actual", nil
}

func (s *Service) attachCashFlow(ctx context.Context, company string, w period.Window, profit float64, result *Result) error {
	agg, err := s.repo.CashFlowAggregates(ctx, company, w.Start, w.End)
	if err != nil {
		return fmt.Errorf("cash flow aggregates: %w", err)
	}
	cf := EstimateCashFlow(agg, profit)
	cf.Analysis = AnalyzeCashFlow(cf, profit)
	result.CashFlow = &cf
	return nil
}

func (s *Service) attachEquityChanges(ctx context.Context, company string, w period.Window, profit float64, result *Result) error {
	agg, err := s.repo.EquityAggregates(ctx, company, w.Start, w.End)
	if err != nil {
		return fmt.Errorf("equity aggregates: %w", err)
	}
	result.EquityChanges = BuildEquityChanges(agg, profit)
	return nil
}

// attachBreakdowns adds the monthly income/expense breakdown for the year
// and, for annual views, the quarterly rollup.
func (s *Service) attachBreakdowns(ctx context.Context, company string, w period.Window, result *Result) error {
	months, err := s.repo.MonthlyAggregates(ctx, company, w.Year)
	if err != nil {
		return fmt.Errorf("monthly aggregates: %w", err)
	}

	result.Monthly = make([]PeriodBreakdown, 0, len(months))
	for _, m := range months {
		result.Monthly = append(result.Monthly, PeriodBreakdown{
			Label:   time.Month(m.Month).String()[:3],
			Income:  types.Round2(m.Income),
			Expense: types.Round2(m.Expense),
			Profit:  types.Round2(m.Income - m.Expense),
		})
	}

	if w.Kind == period.Annual {
		result.Quarterly = quarterlyRollup(w.Year, months)
	}
	return nil
}

// attachForecast projects future years. Insufficient history aborts only
// when the forecast was requested explicitly; on an all-sections view it
// degrades to a warning.
func (s *Service) attachForecast(ctx context.Context, req Request, w period.Window, sections SectionSet, result *Result) error {
	history, err := s.repo.AnnualAggregates(ctx, req.Company, w.Year-forecastHistoryYears, w.Year)
	if err != nil {
		return fmt.Errorf("annual aggregates: %w", err)
	}

	forecast, err := BuildForecast(history, req.ForecastYears)
	if err != nil {
		if apperror.IsInsufficientHistory(err) && sections.All() && req.ForecastYears == 0 {
			result.Warnings = append(result.Warnings, Warning{
				Code:    apperror.CodeInsufficientHistory,
				Message: "forecast skipped: not enough historical years",
			})
			return nil
		}
		return err
	}
	result.Forecast = forecast
	return nil
}

// quarterlyRollup folds the monthly breakdown into four quarters.
func quarterlyRollup(year int, months []MonthAggregate) []PeriodBreakdown {
	quarters := make([]PeriodBreakdown, 4)
	for q := range quarters {
		quarters[q].Label = fmt.Sprintf("Q%d %d", q+1, year)
	}
	for _, m := range months {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		q := (m.Month - 1) / 3
		quarters[q].Income += m.Income
		quarters[q].Expense += m.Expense
	}
	for q := range quarters {
		quarters[q].Income = types.Round2(quarters[q].Income)
		quarters[q].Expense = types.Round2(quarters[q].Expense)
		quarters[q].Profit = types.Round2(quarters[q].Income - quarters[q].Expense)
	}
	return quarters
}

// buildTrend exposes the period-scoped three-year comparison straight from
// the window sums, without extra queries.
func buildTrend(w period.Window, balances map[ledger.RootType]WindowBalances) []TrendYear {
	years := []struct {
		year            int
		income, expense float64
	}{
		{w.Year - 2, abs(balances[ledger.Income].TwoYearsPrior), abs(balances[ledger.Expense].TwoYearsPrior)},
		{w.Year - 1, abs(balances[ledger.Income].Prior), abs(balances[ledger.Expense].Prior)},
		{w.Year, abs(balances[ledger.Income].Current), abs(balances[ledger.Expense].Current)},
	}

	trend := make([]TrendYear, 0, len(years))
	for _, y := range years {
		trend = append(trend, TrendYear{
			Year:    y.year,
			Income:  types.Round2(y.income),
			Expense: types.Round2(y.expense),
			Profit:  types.Round2(y.income - y.expense),
		})
	}
	return trend
}

// signWarnings flags root types whose signed balance sits on the wrong side
// of its normal balance. Magnitudes are normalized regardless; the warning
// tells the caller the books look miscoded.
func signWarnings(balances map[ledger.RootType]WindowBalances) []Warning {
	var warnings []Warning
	for _, rt := range ledger.RootTypes {
		bal, ok := balances[rt]
		if !ok {
			continue
		}

		// Income/Expense anomalies matter within the period; balance-sheet
		// types are judged on the cumulative position.
		signed := bal.Cumulative
		if rt == ledger.Income || rt == ledger.Expense {
			signed = bal.Current
		}

		wrongSide := false
		if rt.DebitNormal() {
			wrongSide = signed < -signTolerance
		} else {
			wrongSide = signed > signTolerance
		}
		if wrongSide {
			warnings = append(warnings, Warning{
				Code:    apperror.CodeDataIntegrity,
				Message: fmt.Sprintf("%s balance has an unexpected sign; magnitude was normalized", rt),
			})
		}
	}
	return warnings
}

// identityWarning compares derived equity (assets − liabilities) with the
// booked equity balance. A gap beyond tolerance usually means unclosed
// income/expense accounts or miscoded entries.
func identityWarning(assets, liabilities, derivedEquity, bookedSigned float64) (Warning, bool) {
	booked := abs(bookedSigned)
	if booked == 0 {
		return Warning{}, false
	}
	base := assets
	if base < 1 {
		base = 1
	}
	if abs(derivedEquity-booked)/base > identityTolerance {
		return Warning{
			Code: apperror.CodeDataIntegrity,
			Message: fmt.Sprintf(
				"derived equity %.2f differs from booked equity %.2f beyond tolerance", derivedEquity, booked),
		}, true
	}
	return Warning{}, false
}
