// Package analysis computes period-based financial statements, ratios,
// health scoring, risk flags and forecasts from ledger aggregates.
package analysis

import (
	"context"
	"time"

	"ledgerlens/internal/core/period"
	"ledgerlens/internal/domain/ledger"
)

// Boundaries are the date edges of the six aggregation windows resolved from
// a period. All six sums are computed in a single scan of the entry set.
type Boundaries struct {
	CurrentStart  time.Time
	CurrentEnd    time.Time
	PriorStart    time.Time
	PriorEnd      time.Time
	TwoPriorStart time.Time
	TwoPriorEnd   time.Time
}

// BoundariesFor derives aggregation boundaries from a resolved window.
func BoundariesFor(w period.Window) Boundaries {
	prior := w.PriorYear()
	two := w.TwoYearsPrior()
	return Boundaries{
		CurrentStart:  w.Start,
		CurrentEnd:    w.End,
		PriorStart:    prior.Start,
		PriorEnd:      prior.End,
		TwoPriorStart: two.Start,
		TwoPriorEnd:   two.End,
	}
}

// WindowBalances holds the signed Σdebit − Σcredit per aggregation window
// for one root type, exactly as summed by the store. Sign normalization
// (abs) happens at the aggregation boundary, with anomalous signs flagged.
type WindowBalances struct {
	Current         float64 `db:"current_period"`
	Cumulative      float64 `db:"cumulative"`
	Prior           float64 `db:"prior_period"`
	PriorCumulative float64 `db:"prior_cumulative"`
	TwoYearsPrior   float64 `db:"two_years_prior"`
	Opening         float64 `db:"opening"`
}

// CurrentBalances are the signed sums over dimension-tagged current-asset
// and current-liability accounts as of a date. Zero values trigger the
// estimation fallback in the aggregator.
type CurrentBalances struct {
	CurrentAssets      float64 `db:"current_assets"`
	CurrentLiabilities float64 `db:"current_liabilities"`
}

// CashFlowAggregates are the signed period movements feeding the indirect
// cash-flow estimate.
type CashFlowAggregates struct {
	// ARChange is Σ(debit−credit) on Asset/Receivable accounts.
	ARChange float64 `db:"ar_change"`
	// APChange is Σ(credit−debit) on Liability/Payable accounts.
	APChange float64 `db:"ap_change"`
	// Investing is Σ(credit−debit) on Fixed-Asset/Accumulated-Depreciation accounts.
	Investing float64 `db:"investing"`
	// Financing is Σ(credit−debit) on Equity accounts or loan-like Liability accounts.
	Financing float64 `db:"financing"`
}

// EquityAggregates are the raw movements behind the equity-change statement.
type EquityAggregates struct {
	// Opening is the signed equity balance before the period start.
	Opening float64 `db:"opening"`
	// Contributions is Σ(credit−debit) on Equity accounts within the period.
	Contributions float64 `db:"contributions"`
	// Dividends is Σ(debit−credit) on dividend/drawing accounts within the period.
	Dividends float64 `db:"dividends"`
}

// AnnualAggregate is one fiscal year of pre-aggregated magnitudes, used by
// the trend view and the forecast projector.
type AnnualAggregate struct {
	Year    int     `db:"year" json:"year"`
	Income  float64 `db:"income" json:"income"`
	Expense float64 `db:"expense" json:"expense"`
	Assets  float64 `db:"assets" json:"assets"`
}

// MonthAggregate is one calendar month of income/expense magnitudes.
type MonthAggregate struct {
	Month   int     `db:"month" json:"month"`
	Income  float64 `db:"income" json:"income"`
	Expense float64 `db:"expense" json:"expense"`
}

// Repository is the coalesced-aggregate contract against the ledger store.
// Every method is a read; the store is never mutated.
type Repository interface {
	// RootTypeBalances returns, per root type, the six signed window sums.
	// Must be a single scan with conditional sums, not six scans.
	RootTypeBalances(ctx context.Context, company string, b Boundaries) (map[ledger.RootType]WindowBalances, error)

	// CurrentBalances returns signed sums over accounts tagged
	// Cash/Bank/Receivable/Stock (assets) and Payable/short-term loans
	// (liabilities) as of the given date.
	CurrentBalances(ctx context.Context, company string, asOf time.Time) (CurrentBalances, error)

	// CashFlowAggregates returns the indirect-method movement sums for a window.
	CashFlowAggregates(ctx context.Context, company string, from, to time.Time) (CashFlowAggregates, error)

	// EquityAggregates returns equity movement sums for a window.
	EquityAggregates(ctx context.Context, company string, from, to time.Time) (EquityAggregates, error)

	// MonthlyAggregates returns per-month income/expense magnitudes for a year.
	MonthlyAggregates(ctx context.Context, company string, year int) ([]MonthAggregate, error)

	// AnnualAggregates returns per-year aggregates for fromYear..toYear
	// inclusive, ascending. Years with no postings are omitted.
	AnnualAggregates(ctx context.Context, company string, fromYear, toYear int) ([]AnnualAggregate, error)
}

// Cache memoizes analysis results for identical requests. Implementations
// must be safe for concurrent use; the core stays correct without one.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, result *Result, ttl time.Duration)
}

// Summary is the headline block of an analysis result.
type Summary struct {
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Profit      float64 `json:"profit"`
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Equity      float64 `json:"equity"`
	HealthScore int     `json:"health_score"`

	// WorkingCapitalMethod is "actual" when current assets/liabilities come
	// from dimension-tagged accounts, "estimated" when the 0.4/0.3 heuristic
	// fallback was used. Estimated figures are approximations, not fact.
	WorkingCapitalMethod string `json:"working_capital_method"`
}

// Warning is a non-fatal data-quality note attached to a result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodBreakdown is one sub-period line (quarter or month).
type PeriodBreakdown struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// TrendYear is one year in the three-year trend block.
type TrendYear struct {
	Year    int     `json:"year"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// CashFlowStatement is the estimated indirect-method cash-flow statement.
type CashFlowStatement struct {
	Operating float64           `json:"operating"`
	Investing float64           `json:"investing"`
	Financing float64           `json:"financing"`
	Net       float64           `json:"net"`
	Analysis  *CashFlowAnalysis `json:"analysis,omitempty"`
}

// EquityChanges is the statement of changes in equity for the period.
type EquityChanges struct {
	OpeningBalance float64 `json:"opening_balance"`
	NetProfit      float64 `json:"net_profit"`
	Contributions  float64 `json:"contributions"`
	Dividends      float64 `json:"dividends"`
	ClosingBalance float64 `json:"closing_balance"`
}

// Result is the full analysis output. Built fresh per request; identical
// inputs over an unchanged ledger produce identical numeric results.
type Result struct {
	Company   string      `json:"company"`
	Period    string      `json:"period"`
	Kind      period.Kind `json:"period_kind"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`

	Summary Summary `json:"summary"`
	Ratios  *Ratios `json:"ratios,omitempty"`

	IncomeStatement *IncomeAnalysis       `json:"income_statement,omitempty"`
	BalanceSheet    *BalanceSheetAnalysis `json:"balance_sheet,omitempty"`
	CashFlow        *CashFlowStatement    `json:"cash_flow,omitempty"`
	EquityChanges   *EquityChanges        `json:"equity_changes,omitempty"`

	Quarterly []PeriodBreakdown `json:"quarterly,omitempty"`
	Monthly   []PeriodBreakdown `json:"monthly,omitempty"`
	Trend     []TrendYear       `json:"trend,omitempty"`
	Forecast  *Forecast         `json:"forecast,omitempty"`

	RiskFlags []RiskFlag `json:"risk_flags"`
	Warnings  []Warning  `json:"warnings,omitempty"`

	// Narrative is attached by the caller when a completed narrative job
	// exists; absence is never an error.
	Narrative string `json:"narrative,omitempty"`

	// Cached marks a cache hit. Excluded from idempotence comparisons.
	Cached bool `json:"cached,omitempty"`
}
