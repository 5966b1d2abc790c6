package ledger

import (
	"context"
	"fmt"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/types"
)

// maxStatementRangeDays caps a statement query at 10 years.
const maxStatementRangeDays = 3650

// Service provides running-balance statements over the ledger store.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Statement builds the running-balance statement for a filtered entry list.
// When an account is filtered, the statement starts from its opening balance
// and includes a synthetic opening row; otherwise the opening is zero.
func (s *Service) Statement(ctx context.Context, filter Filter) (*Statement, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	opening := types.Zero()
	if filter.Account != "" {
		var err error
		opening, err = s.repo.OpeningBalance(ctx, filter, filter.FromDate)
		if err != nil {
			return nil, fmt.Errorf("opening balance: %w", err)
		}
	}

	entries, err := s.repo.Entries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}

	stmt := &Statement{
		Company:        filter.Company,
		FromDate:       filter.FromDate,
		ToDate:         filter.ToDate,
		Account:        filter.Account,
		OpeningBalance: opening,
	}

	if filter.Account != "" {
		stmt.Rows = append(stmt.Rows, StatementRow{
			Entry: Entry{
				PostingDate: filter.FromDate,
				Company:     filter.Company,
				Account:     filter.Account,
				Remarks:     "Opening Balance",
			},
			Balance:   opening,
			IsOpening: true,
		})
	}

	stmt.Rows = append(stmt.Rows, BuildRunningBalance(entries, opening)...)

	for _, e := range entries {
		stmt.TotalDebit = stmt.TotalDebit.Add(e.Debit)
		stmt.TotalCredit = stmt.TotalCredit.Add(e.Credit)
	}
	stmt.ClosingBalance = opening.Add(stmt.TotalDebit).Sub(stmt.TotalCredit)

	return stmt, nil
}

// BuildRunningBalance annotates a chronologically ordered entry list with
// cumulative balances starting from the opening balance.
func BuildRunningBalance(entries []Entry, opening types.Money) []StatementRow {
	rows := make([]StatementRow, 0, len(entries))
	balance := opening
	for _, e := range entries {
		balance = balance.Add(e.Signed())
		rows = append(rows, StatementRow{Entry: e, Balance: balance})
	}
	return rows
}

func validateFilter(f Filter) error {
	if f.Company == "" {
		return apperror.NewInvalidInput("company is required")
	}
	if f.FromDate.IsZero() || f.ToDate.IsZero() {
		return apperror.NewInvalidInput("date range is required")
	}
	if f.FromDate.After(f.ToDate) {
		return apperror.NewInvalidInput("from date cannot be after to date")
	}
	if int(f.ToDate.Sub(f.FromDate).Hours()/24) > maxStatementRangeDays {
		return apperror.NewInvalidInput("date range cannot exceed 10 years")
	}
	if f.Party != "" && f.PartyType == "" {
		return apperror.NewInvalidInput("party type is required when party is set")
	}
	return nil
}
