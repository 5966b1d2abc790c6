// Package dto defines HTTP request and response shapes for API v1.
package dto

// LedgerEntriesRequest filters the running-balance statement endpoint.
// Dates are calendar dates in YYYY-MM-DD form.
type LedgerEntriesRequest struct {
	Company    string `form:"company" binding:"required"`
	FromDate   string `form:"from_date" binding:"required"`
	ToDate     string `form:"to_date" binding:"required"`
	Account    string `form:"account"`
	PartyType  string `form:"party_type"`
	Party      string `form:"party"`
	CostCenter string `form:"cost_center"`
	Project    string `form:"project"`
}
