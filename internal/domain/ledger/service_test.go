package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/core/types"
)

type fakeRepo struct {
	entries []Entry
	opening types.Money
}

func (f *fakeRepo) Entries(ctx context.Context, filter Filter) ([]Entry, error) {
	return f.entries, nil
}

func (f *fakeRepo) OpeningBalance(ctx context.Context, filter Filter, before time.Time) (types.Money, error) {
	return f.opening, nil
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildRunningBalance(t *testing.T) {
	entries := []Entry{
		{Debit: types.NewMoney(100), Credit: types.Zero()},
		{Debit: types.Zero(), Credit: types.NewMoney(30)},
	}

	rows := BuildRunningBalance(entries, types.NewMoney(50))

	require.Len(t, rows, 2)
	assert.True(t, rows[0].Balance.Equal(types.NewMoney(150)), "first balance = %s", rows[0].Balance)
	assert.True(t, rows[1].Balance.Equal(types.NewMoney(120)), "second balance = %s", rows[1].Balance)
}

func TestStatement_WithAccountOpeningRow(t *testing.T) {
	repo := &fakeRepo{
		opening: types.NewMoney(50),
		entries: []Entry{
			{PostingDate: day(2), Account: "1100", Debit: types.NewMoney(100)},
			{PostingDate: day(3), Account: "1100", Credit: types.NewMoney(30)},
		},
	}
	svc := NewService(repo)

	stmt, err := svc.Statement(context.Background(), Filter{
		Company:  "ACME",
		FromDate: day(1),
		ToDate:   day(31),
		Account:  "1100",
	})
	require.NoError(t, err)

	require.Len(t, stmt.Rows, 3)
	assert.True(t, stmt.Rows[0].IsOpening)
	assert.True(t, stmt.Rows[0].Balance.Equal(types.NewMoney(50)))
	assert.True(t, stmt.Rows[2].Balance.Equal(types.NewMoney(120)))
	assert.True(t, stmt.ClosingBalance.Equal(types.NewMoney(120)))
	assert.True(t, stmt.TotalDebit.Equal(types.NewMoney(100)))
	assert.True(t, stmt.TotalCredit.Equal(types.NewMoney(30)))
}

func TestStatement_Validation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	tests := []struct {
		name   string
		filter Filter
	}{
		{"missing company", Filter{FromDate: day(1), ToDate: day(2)}},
		{"missing dates", Filter{Company: "ACME"}},
		{"inverted range", Filter{Company: "ACME", FromDate: day(2), ToDate: day(1)}},
		{"range too wide", Filter{Company: "ACME", FromDate: day(1), ToDate: day(1).AddDate(11, 0, 0)}},
		{"party without type", Filter{Company: "ACME", FromDate: day(1), ToDate: day(2), Party: "CUST-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Statement(context.Background(), tt.filter)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		})
	}
}
