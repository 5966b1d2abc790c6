package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ledgerlens/internal/core/types"
	"ledgerlens/internal/domain/ledger"
)

func TestWriteStatementXLSX(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	stmt := &ledger.Statement{
		Company:  "ACME",
		FromDate: day,
		ToDate:   day.AddDate(0, 1, 0),
		Rows: []ledger.StatementRow{
			{
				Entry: ledger.Entry{
					PostingDate: day,
					Account:     "1100 - Cash",
					VoucherType: "Journal Entry",
					VoucherNo:   "JV-001",
					Debit:       types.NewMoney(100),
				},
				Balance: types.NewMoney(100),
			},
		},
		TotalDebit:     types.NewMoney(100),
		ClosingBalance: types.NewMoney(100),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatementXLSX(stmt, &buf))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "ACME")

	account, err := f.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "1100 - Cash", account)

	debit, err := f.GetCellValue(sheetName, "G4")
	require.NoError(t, err)
	assert.Equal(t, "100", debit)
}
