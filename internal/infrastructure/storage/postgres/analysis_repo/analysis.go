// Package analysis_repo provides the PostgreSQL aggregate queries behind the
// financial analysis pipeline. Every query is a read over ledger_entries.
package analysis_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/domain/ledger"
	"ledgerlens/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("ledgerlens/analysis_repo")

// Compile-time check that AnalysisRepo implements analysis.Repository.
var _ analysis.Repository = (*AnalysisRepo)(nil)

// AnalysisRepo computes window aggregates over ledger_entries.
type AnalysisRepo struct {
	pool *postgres.Pool
}

// NewAnalysisRepo creates a new analysis repository.
func NewAnalysisRepo(pool *postgres.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

type rootTypeRow struct {
	RootType string  `db:"root_type"`
	Current  float64 `db:"current_period"`
	Cumul    float64 `db:"cumulative"`
	Prior    float64 `db:"prior_period"`
	PriorCum float64 `db:"prior_cumulative"`
	TwoPrior float64 `db:"two_years_prior"`
	Opening  float64 `db:"opening"`
}

// RootTypeBalances computes all six window sums per root type in a single
// scan using conditional aggregation.
func (r *AnalysisRepo) RootTypeBalances(ctx context.Context, company string, b analysis.Boundaries) (map[ledger.RootType]analysis.WindowBalances, error) {
	ctx, span := tracer.Start(ctx, "analysis.root_type_balances",
		trace.WithAttributes(attribute.String("company", company)))
	defer span.End()

	const query = `
		SELECT
			root_type,
			COALESCE(SUM(CASE WHEN posting_date BETWEEN $2 AND $3 THEN debit - credit ELSE 0 END), 0)::float8 AS current_period,
			COALESCE(SUM(CASE WHEN posting_date <= $3 THEN debit - credit ELSE 0 END), 0)::float8 AS cumulative,
			COALESCE(SUM(CASE WHEN posting_date BETWEEN $4 AND $5 THEN debit - credit ELSE 0 END), 0)::float8 AS prior_period,
			COALESCE(SUM(CASE WHEN posting_date <= $5 THEN debit - credit ELSE 0 END), 0)::float8 AS prior_cumulative,
			COALESCE(SUM(CASE WHEN posting_date BETWEEN $6 AND $7 THEN debit - credit ELSE 0 END), 0)::float8 AS two_years_prior,
			COALESCE(SUM(CASE WHEN posting_date < $2 THEN debit - credit ELSE 0 END), 0)::float8 AS opening
		FROM ledger_entries
		WHERE company = $1
		  AND is_cancelled = false
		  AND posting_date <= $3
		GROUP BY root_type
	`

	var rows []rootTypeRow
	err := pgxscan.Select(ctx, r.pool, &rows, query,
		company,
		b.CurrentStart, b.CurrentEnd,
		b.PriorStart, b.PriorEnd,
		b.TwoPriorStart, b.TwoPriorEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("root type balances: %w", err)
	}

	balances := make(map[ledger.RootType]analysis.WindowBalances, len(rows))
	for _, row := range rows {
		rt := ledger.RootType(row.RootType)
		if !rt.Valid() {
			continue
		}
		balances[rt] = analysis.WindowBalances{
			Current:         row.Current,
			Cumulative:      row.Cumul,
			Prior:           row.Prior,
			PriorCumulative: row.PriorCum,
			TwoYearsPrior:   row.TwoPrior,
			Opening:         row.Opening,
		}
	}
	return balances, nil
}

// currentBalancesQuery sums dimension-tagged current-asset accounts and
// current liabilities. Short-term loans rarely carry the Payable account
// type, so loan-named Liability accounts count as current liabilities too.
const currentBalancesQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN account_type IN ('Cash', 'Bank', 'Receivable', 'Stock')
			THEN debit - credit ELSE 0 END), 0)::float8 AS current_assets,
		COALESCE(SUM(CASE WHEN account_type = 'Payable'
			OR (root_type = 'Liability' AND account ILIKE '%loan%')
			THEN debit - credit ELSE 0 END), 0)::float8 AS current_liabilities
	FROM ledger_entries
	WHERE company = $1
	  AND is_cancelled = false
	  AND posting_date <= $2
`

// CurrentBalances sums dimension-tagged current-asset and current-liability
// accounts as of a date. Liabilities come back credit-signed.
func (r *AnalysisRepo) CurrentBalances(ctx context.Context, company string, asOf time.Time) (analysis.CurrentBalances, error) {
	ctx, span := tracer.Start(ctx, "analysis.current_balances",
		trace.WithAttributes(attribute.String("company", company)))
	defer span.End()

	var cb analysis.CurrentBalances
	if err := pgxscan.Get(ctx, r.pool, &cb, currentBalancesQuery, company, asOf); err != nil {
		return analysis.CurrentBalances{}, fmt.Errorf("current balances: %w", err)
	}
	return cb, nil
}

// cashFlowQuery sums the working-capital, investing and financing movements
// in one pass. Financing covers Equity accounts plus loan-named Liability
// accounts, since loan drawdowns and repayments are financing flows.
const cashFlowQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN account_type = 'Receivable'
			THEN debit - credit ELSE 0 END), 0)::float8 AS ar_change,
		COALESCE(SUM(CASE WHEN account_type = 'Payable'
			THEN credit - debit ELSE 0 END), 0)::float8 AS ap_change,
		COALESCE(SUM(CASE WHEN account_type IN ('Fixed Asset', 'Accumulated Depreciation')
			THEN credit - debit ELSE 0 END), 0)::float8 AS investing,
		COALESCE(SUM(CASE WHEN root_type = 'Equity'
			OR (root_type = 'Liability' AND account ILIKE '%loan%')
			THEN credit - debit ELSE 0 END), 0)::float8 AS financing
	FROM ledger_entries
	WHERE company = $1
	  AND is_cancelled = false
	  AND posting_date BETWEEN $2 AND $3
`

// CashFlowAggregates sums the working-capital, investing and financing
// movements for the indirect cash-flow estimate.
func (r *AnalysisRepo) CashFlowAggregates(ctx context.Context, company string, from, to time.Time) (analysis.CashFlowAggregates, error) {
	ctx, span := tracer.Start(ctx, "analysis.cash_flow_aggregates",
		trace.WithAttributes(attribute.String("company", company)))
	defer span.End()

	var agg analysis.CashFlowAggregates
	if err := pgxscan.Get(ctx, r.pool, &agg, cashFlowQuery, company, from, to); err != nil {
		return analysis.CashFlowAggregates{}, fmt.Errorf("cash flow aggregates: %w", err)
	}
	return agg, nil
}

// EquityAggregates sums equity movements for the equity-change statement.
// Dividend and drawing accounts are recognized by name pattern.
func (r *AnalysisRepo) EquityAggregates(ctx context.Context, company string, from, to time.Time) (analysis.EquityAggregates, error) {
	ctx, span := tracer.Start(ctx, "analysis.equity_aggregates",
		trace.WithAttributes(attribute.String("company", company)))
	defer span.End()

	const query = `
		SELECT
			COALESCE(SUM(CASE WHEN root_type = 'Equity' AND posting_date < $2
				THEN debit - credit ELSE 0 END), 0)::float8 AS opening,
			COALESCE(SUM(CASE WHEN root_type = 'Equity' AND posting_date BETWEEN $2 AND $3
				AND account NOT ILIKE '%dividend%' AND account NOT ILIKE '%drawing%'
				THEN credit - debit ELSE 0 END), 0)::float8 AS contributions,
			COALESCE(SUM(CASE WHEN root_type = 'Equity' AND posting_date BETWEEN $2 AND $3
				AND (account ILIKE '%dividend%' OR account ILIKE '%drawing%')
				THEN debit - credit ELSE 0 END), 0)::float8 AS dividends
		FROM ledger_entries
		WHERE company = $1
		  AND is_cancelled = false
		  AND posting_date <= $3
	`

	var agg analysis.EquityAggregates
	if err := pgxscan.Get(ctx, r.pool, &agg, query, company, from, to); err != nil {
		return analysis.EquityAggregates{}, fmt.Errorf("equity aggregates: %w", err)
	}
	return agg, nil
}

// MonthlyAggregates returns per-month income/expense magnitudes for a year.
func (r *AnalysisRepo) MonthlyAggregates(ctx context.Context, company string, year int) ([]analysis.MonthAggregate, error) {
	ctx, span := tracer.Start(ctx, "analysis.monthly_aggregates",
		trace.WithAttributes(attribute.String("company", company), attribute.Int("year", year)))
	defer span.End()

	const query = `
		SELECT
			EXTRACT(MONTH FROM posting_date)::int AS month,
			COALESCE(ABS(SUM(CASE WHEN root_type = 'Income' THEN debit - credit ELSE 0 END)), 0)::float8 AS income,
			COALESCE(ABS(SUM(CASE WHEN root_type = 'Expense' THEN debit - credit ELSE 0 END)), 0)::float8 AS expense
		FROM ledger_entries
		WHERE company = $1
		  AND is_cancelled = false
		  AND EXTRACT(YEAR FROM posting_date) = $2
		  AND root_type IN ('Income', 'Expense')
		GROUP BY month
		ORDER BY month
	`

	var months []analysis.MonthAggregate
	if err := pgxscan.Select(ctx, r.pool, &months, query, company, year); err != nil {
		return nil, fmt.Errorf("monthly aggregates: %w", err)
	}
	return months, nil
}

// annualAggregatesQuery returns per-year income/expense movements and the
// asset balance accumulated through each year-end. The inner scan covers all
// years up to the horizon so the running asset sum includes the base built
// before the requested range; the outer filter then trims to the range.
const annualAggregatesQuery = `
	SELECT year, income, expense, assets
	FROM (
		SELECT
			EXTRACT(YEAR FROM posting_date)::int AS year,
			ABS(SUM(CASE WHEN root_type = 'Income' THEN debit - credit ELSE 0 END))::float8 AS income,
			ABS(SUM(CASE WHEN root_type = 'Expense' THEN debit - credit ELSE 0 END))::float8 AS expense,
			ABS(SUM(SUM(CASE WHEN root_type = 'Asset' THEN debit - credit ELSE 0 END))
				OVER (ORDER BY EXTRACT(YEAR FROM posting_date)))::float8 AS assets
		FROM ledger_entries
		WHERE company = $1
		  AND is_cancelled = false
		  AND EXTRACT(YEAR FROM posting_date) <= $3
		GROUP BY 1
	) yearly
	WHERE year BETWEEN $2 AND $3
	ORDER BY year
`

// AnnualAggregates returns per-year magnitudes for the forecast model.
// Years with no postings are omitted.
func (r *AnalysisRepo) AnnualAggregates(ctx context.Context, company string, fromYear, toYear int) ([]analysis.AnnualAggregate, error) {
	ctx, span := tracer.Start(ctx, "analysis.annual_aggregates",
		trace.WithAttributes(attribute.String("company", company)))
	defer span.End()

	var years []analysis.AnnualAggregate
	if err := pgxscan.Select(ctx, r.pool, &years, annualAggregatesQuery, company, fromYear, toYear); err != nil {
		return nil, fmt.Errorf("annual aggregates: %w", err)
	}
	return years, nil
}
