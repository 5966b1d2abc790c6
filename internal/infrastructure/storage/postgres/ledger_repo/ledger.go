// Package ledger_repo provides the PostgreSQL implementation of the ledger
// read-side repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ledgerlens/internal/core/types"
	"ledgerlens/internal/domain/ledger"
	"ledgerlens/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("ledgerlens/ledger_repo")

// Compile-time check that LedgerRepo implements ledger.Repository.
var _ ledger.Repository = (*LedgerRepo)(nil)

// LedgerRepo reads posted entries from the ledger_entries table.
type LedgerRepo struct {
	pool    *postgres.Pool
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(pool *postgres.Pool) *LedgerRepo {
	return &LedgerRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Entries returns non-cancelled entries matching the filter, ordered by
// posting date then creation for a stable running balance.
func (r *LedgerRepo) Entries(ctx context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	ctx, span := tracer.Start(ctx, "ledger.entries",
		trace.WithAttributes(attribute.String("company", filter.Company)))
	defer span.End()

	q := r.builder.
		Select(
			"id", "posting_date", "company", "account", "account_type",
			"root_type", "party_type", "party", "debit", "credit",
			"cost_center", "project", "voucher_type", "voucher_no",
			"remarks", "is_cancelled", "created_at",
		).
		From("ledger_entries").
		Where(squirrel.Eq{"company": filter.Company, "is_cancelled": false}).
		Where(squirrel.GtOrEq{"posting_date": filter.FromDate}).
		Where(squirrel.LtOrEq{"posting_date": filter.ToDate}).
		OrderBy("posting_date ASC", "created_at ASC")

	q = applyOptionalFilters(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	var entries []ledger.Entry
	if err := pgxscan.Select(ctx, r.pool, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	return entries, nil
}

// OpeningBalance returns Σdebit − Σcredit for the filtered account strictly
// before the given date.
func (r *LedgerRepo) OpeningBalance(ctx context.Context, filter ledger.Filter, before time.Time) (types.Money, error) {
	ctx, span := tracer.Start(ctx, "ledger.opening_balance",
		trace.WithAttributes(
			attribute.String("company", filter.Company),
			attribute.String("account", filter.Account),
		))
	defer span.End()

	q := r.builder.
		Select("COALESCE(SUM(debit) - SUM(credit), 0) AS balance").
		From("ledger_entries").
		Where(squirrel.Eq{"company": filter.Company, "is_cancelled": false}).
		Where(squirrel.Lt{"posting_date": before})

	q = applyOptionalFilters(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build opening balance query: %w", err)
	}

	var balance types.Money
	if err := pgxscan.Get(ctx, r.pool, &balance, sql, args...); err != nil {
		return types.Zero(), fmt.Errorf("opening balance: %w", err)
	}
	return balance, nil
}

// applyOptionalFilters adds the party/cost-center/project dimensions shared
// by the statement and opening-balance queries.
func applyOptionalFilters(q squirrel.SelectBuilder, filter ledger.Filter) squirrel.SelectBuilder {
	if filter.Account != "" {
		q = q.Where(squirrel.Eq{"account": filter.Account})
	}
	if filter.PartyType != "" && filter.Party != "" {
		q = q.Where(squirrel.Eq{"party_type": filter.PartyType, "party": filter.Party})
	}
	if filter.CostCenter != "" {
		q = q.Where(squirrel.Eq{"cost_center": filter.CostCenter})
	}
	if filter.Project != "" {
		q = q.Where(squirrel.Eq{"project": filter.Project})
	}
	return q
}
