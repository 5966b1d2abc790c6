package analysis

import "ledgerlens/internal/core/types"

// EstimateCashFlow builds an indirect-method cash-flow statement from period
// movement aggregates. Operating adjusts net profit for working-capital
// movements: a receivables build-up consumes cash, a payables build-up
// releases it. Investing and financing come straight from account-type
// movements; a fixed-asset purchase shows as a negative investing flow.
func EstimateCashFlow(agg CashFlowAggregates, netProfit float64) CashFlowStatement {
	operating := netProfit - agg.ARChange + agg.APChange
	cf := CashFlowStatement{
		Operating: types.Round2(operating),
		Investing: types.Round2(agg.Investing),
		Financing: types.Round2(agg.Financing),
	}
	cf.Net = types.Round2(cf.Operating + cf.Investing + cf.Financing)
	return cf
}

// BuildEquityChanges assembles the statement of changes in equity.
// Closing is derived from the components, not queried, so the statement
// always balances internally.
func BuildEquityChanges(agg EquityAggregates, netProfit float64) *EquityChanges {
	ec := &EquityChanges{
		OpeningBalance: types.Round2(abs(agg.Opening)),
		NetProfit:      types.Round2(netProfit),
		Contributions:  types.Round2(agg.Contributions),
		Dividends:      types.Round2(agg.Dividends),
	}
	ec.ClosingBalance = types.Round2(ec.OpeningBalance + ec.NetProfit + ec.Contributions - ec.Dividends)
	return ec
}
