// Package ledger models the general ledger read side: posted entry lines,
// account classification and the running-balance statement.
package ledger

import (
	"time"

	"ledgerlens/internal/core/types"
)

// RootType is the top-level account classification. It is the sole driver of
// how a balance rolls into the income/expense/asset/liability aggregates.
type RootType string

const (
	Asset     RootType = "Asset"
	Liability RootType = "Liability"
	Equity    RootType = "Equity"
	Income    RootType = "Income"
	Expense   RootType = "Expense"
)

// RootTypes lists all root types in presentation order.
var RootTypes = []RootType{Asset, Liability, Equity, Income, Expense}

// Valid reports whether rt is a known root type.
func (rt RootType) Valid() bool {
	switch rt {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// DebitNormal reports whether accounts of this root type conventionally carry
// a debit balance. Asset/Expense are debit-normal; Liability/Income/Equity
// are credit-normal. A net sum on the wrong side indicates miscoded entries.
func (rt RootType) DebitNormal() bool {
	return rt == Asset || rt == Expense
}

// Account type refinements used by the current-balance and cash-flow queries.
const (
	AccountTypeCash         = "Cash"
	AccountTypeBank         = "Bank"
	AccountTypeReceivable   = "Receivable"
	AccountTypeStock        = "Stock"
	AccountTypePayable      = "Payable"
	AccountTypeFixedAsset   = "Fixed Asset"
	AccountTypeDepreciation = "Accumulated Depreciation"
	AccountTypeEquity       = "Equity"
)

// Entry is one posted transaction line. Entries are owned by the ledger
// store and never mutated here; a cancelled entry is excluded from every
// aggregation.
type Entry struct {
	ID          string      `db:"id" json:"id"`
	PostingDate time.Time   `db:"posting_date" json:"postingDate"`
	Company     string      `db:"company" json:"company"`
	Account     string      `db:"account" json:"account"`
	AccountType string      `db:"account_type" json:"accountType,omitempty"`
	RootType    RootType    `db:"root_type" json:"rootType"`
	PartyType   string      `db:"party_type" json:"partyType,omitempty"`
	Party       string      `db:"party" json:"party,omitempty"`
	Debit       types.Money `db:"debit" json:"debit"`
	Credit      types.Money `db:"credit" json:"credit"`
	CostCenter  string      `db:"cost_center" json:"costCenter,omitempty"`
	Project     string      `db:"project" json:"project,omitempty"`
	VoucherType string      `db:"voucher_type" json:"voucherType,omitempty"`
	VoucherNo   string      `db:"voucher_no" json:"voucherNo,omitempty"`
	Remarks     string      `db:"remarks" json:"remarks,omitempty"`
	IsCancelled bool        `db:"is_cancelled" json:"-"`
	CreatedAt   time.Time   `db:"created_at" json:"-"`
}

// Signed returns debit − credit for this line.
func (e Entry) Signed() types.Money {
	return e.Debit.Sub(e.Credit)
}

// Filter narrows an entry query. Company is required; everything else is
// optional. Entries come back ordered by posting date ascending with a
// stable secondary order by creation.
type Filter struct {
	Company    string
	FromDate   time.Time
	ToDate     time.Time
	Account    string
	PartyType  string
	Party      string
	CostCenter string
	Project    string
}

// StatementRow is an entry annotated with the cumulative balance.
type StatementRow struct {
	Entry
	Balance   types.Money `json:"balance"`
	IsOpening bool        `json:"isOpening,omitempty"`
}

// Statement is the running-balance view over a filtered entry list.
type Statement struct {
	Company        string         `json:"company"`
	FromDate       time.Time      `json:"fromDate"`
	ToDate         time.Time      `json:"toDate"`
	Account        string         `json:"account,omitempty"`
	OpeningBalance types.Money    `json:"openingBalance"`
	Rows           []StatementRow `json:"rows"`
	TotalDebit     types.Money    `json:"totalDebit"`
	TotalCredit    types.Money    `json:"totalCredit"`
	ClosingBalance types.Money    `json:"closingBalance"`
}
