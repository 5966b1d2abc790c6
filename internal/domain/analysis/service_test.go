package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/period"
	"ledgerlens/internal/domain/ledger"
)

type fakeRepo struct {
	balances map[ledger.RootType]WindowBalances
	current  CurrentBalances
	cashFlow CashFlowAggregates
	equity   EquityAggregates
	months   []MonthAggregate
	annual   []AnnualAggregate

	rootTypeCalls int
}

func (f *fakeRepo) RootTypeBalances(ctx context.Context, company string, b Boundaries) (map[ledger.RootType]WindowBalances, error) {
	f.rootTypeCalls++
	return f.balances, nil
}

func (f *fakeRepo) CurrentBalances(ctx context.Context, company string, asOf time.Time) (CurrentBalances, error) {
	return f.current, nil
}

func (f *fakeRepo) CashFlowAggregates(ctx context.Context, company string, from, to time.Time) (CashFlowAggregates, error) {
	return f.cashFlow, nil
}

func (f *fakeRepo) EquityAggregates(ctx context.Context, company string, from, to time.Time) (EquityAggregates, error) {
	return f.equity, nil
}

func (f *fakeRepo) MonthlyAggregates(ctx context.Context, company string, year int) ([]MonthAggregate, error) {
	return f.months, nil
}

func (f *fakeRepo) AnnualAggregates(ctx context.Context, company string, fromYear, toYear int) ([]AnnualAggregate, error) {
	return f.annual, nil
}

type fakeCache struct {
	store map[string]*Result
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]*Result)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (*Result, bool) {
	r, ok := c.store[key]
	return r, ok
}

func (c *fakeCache) Set(ctx context.Context, key string, result *Result, ttl time.Duration) {
	c.sets++
	c.store[key] = result
}

// wellBookedRepo carries correctly signed balances: credit-normal types are
// negative, debit-normal positive.
func wellBookedRepo() *fakeRepo {
	return &fakeRepo{
		balances: map[ledger.RootType]WindowBalances{
			ledger.Income:    {Current: -1000, Prior: -800, TwoYearsPrior: -700},
			ledger.Expense:   {Current: 600, Prior: 500, TwoYearsPrior: 450},
			ledger.Asset:     {Cumulative: 2000, PriorCumulative: 1800},
			ledger.Liability: {Cumulative: -800, PriorCumulative: -700},
			ledger.Equity:    {Cumulative: -1200},
		},
		current: CurrentBalances{CurrentAssets: 800, CurrentLiabilities: -400},
		annual: []AnnualAggregate{
			{Year: 2023, Income: 800, Expense: 500, Assets: 1800},
			{Year: 2024, Income: 1000, Expense: 600, Assets: 2000},
		},
		months: []MonthAggregate{
			{Month: 1, Income: 100, Expense: 60},
			{Month: 4, Income: 200, Expense: 120},
		},
	}
}

func annualRequest() Request {
	return Request{Company: "ACME", Year: 2024, PeriodKind: period.Annual, Sections: AllSections()}
}

func TestAnalyze_Summary(t *testing.T) {
	repo := wellBookedRepo()
	svc := NewService(repo)

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	assert.Equal(t, "ACME", res.Company)
	assert.Equal(t, "2024", res.Period)
	assert.InDelta(t, 1000.0, res.Summary.Income, 0.001)
	assert.InDelta(t, 600.0, res.Summary.Expense, 0.001)
	assert.InDelta(t, 400.0, res.Summary.Profit, 0.001)
	assert.InDelta(t, 2000.0, res.Summary.Assets, 0.001)
	assert.InDelta(t, 800.0, res.Summary.Liabilities, 0.001)
	assert.InDelta(t, 1200.0, res.Summary.Equity, 0.001)
	assert.Equal(t, "actual", res.Summary.WorkingCapitalMethod)
	assert.Empty(t, res.Warnings, "well-booked ledger must not warn")

	require.NotNil(t, res.Ratios)
	assert.InDelta(t, 33.33, res.Ratios.ROE, 0.001)
	assert.Equal(t, 1, repo.rootTypeCalls, "window sums must come from one scan")
}

func TestAnalyze_AllSectionsPopulated(t *testing.T) {
	svc := NewService(wellBookedRepo())

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	assert.NotNil(t, res.IncomeStatement)
	assert.NotNil(t, res.BalanceSheet)
	assert.NotNil(t, res.CashFlow)
	assert.NotNil(t, res.EquityChanges)
	assert.NotNil(t, res.Forecast)
	assert.Len(t, res.Trend, 3)
	assert.Len(t, res.Monthly, 2)
	assert.Len(t, res.Quarterly, 4)

	// Trend comes from the same scan as the summary.
	assert.Equal(t, 2022, res.Trend[0].Year)
	assert.InDelta(t, 250.0, res.Trend[0].Profit, 0.001)
	assert.InDelta(t, 400.0, res.Trend[2].Profit, 0.001)

	// Q2 rolls up April only.
	assert.InDelta(t, 80.0, res.Quarterly[1].Profit, 0.001)
}

func TestAnalyze_SectionSubset(t *testing.T) {
	svc := NewService(wellBookedRepo())

	sections, _ := ParseSections([]string{"ratios"})
	req := annualRequest()
	req.Sections = sections

	res, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.NotNil(t, res.Ratios)
	assert.Nil(t, res.IncomeStatement)
	assert.Nil(t, res.CashFlow)
	assert.Nil(t, res.Forecast)
	assert.Empty(t, res.Trend)
}

func TestAnalyze_WorkingCapitalFallback(t *testing.T) {
	repo := wellBookedRepo()
	repo.current = CurrentBalances{}
	svc := NewService(repo)

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	assert.Equal(t, "estimated", res.Summary.WorkingCapitalMethod)
	// 0.4×2000 − 0.3×800
	assert.InDelta(t, 560.0, res.Ratios.WorkingCapital, 0.001)
}

func TestAnalyze_SignAnomalyWarns(t *testing.T) {
	repo := wellBookedRepo()
	bal := repo.balances[ledger.Income]
	bal.Current = 1000 // debit-side income
	repo.balances[ledger.Income] = bal
	svc := NewService(repo)

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, apperror.CodeDataIntegrity, res.Warnings[0].Code)
	// Magnitude still normalized.
	assert.InDelta(t, 1000.0, res.Summary.Income, 0.001)
}

func TestAnalyze_EquityIdentityWarns(t *testing.T) {
	repo := wellBookedRepo()
	bal := repo.balances[ledger.Equity]
	bal.Cumulative = -900 // booked equity far from assets − liabilities
	repo.balances[ledger.Equity] = bal
	svc := NewService(repo)

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, apperror.CodeDataIntegrity, res.Warnings[0].Code)
}

func TestAnalyze_CacheHit(t *testing.T) {
	repo := wellBookedRepo()
	cache := newFakeCache()
	svc := NewService(repo, WithCache(cache, time.Minute))

	first, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, repo.rootTypeCalls)
	assert.Equal(t, 1, cache.sets)
}

func TestAnalyze_ForecastDegradesOnAllSections(t *testing.T) {
	repo := wellBookedRepo()
	repo.annual = repo.annual[:1]
	svc := NewService(repo)

	res, err := svc.Analyze(context.Background(), annualRequest())
	require.NoError(t, err)

	assert.Nil(t, res.Forecast)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, apperror.CodeInsufficientHistory, res.Warnings[0].Code)
}

func TestAnalyze_ForecastExplicitFails(t *testing.T) {
	repo := wellBookedRepo()
	repo.annual = repo.annual[:1]
	svc := NewService(repo)

	sections, _ := ParseSections([]string{"forecast"})
	req := annualRequest()
	req.Sections = sections

	_, err := svc.Analyze(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientHistory(err))
}

func TestAnalyze_Validation(t *testing.T) {
	svc := NewService(wellBookedRepo())

	_, err := svc.Analyze(context.Background(), Request{Year: 2024})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)

	req := annualRequest()
	req.Year = 1850
	_, err = svc.Analyze(context.Background(), req)
	require.Error(t, err)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidPeriod, appErr.Code)
}
