package ledger

import (
	"context"
	"time"

	"ledgerlens/internal/core/types"
)

// Repository defines the read-only ledger store contract.
// The store owns the entries; this side never writes.
type Repository interface {
	// Entries returns non-cancelled entries matching the filter,
	// ordered by posting date ascending, then by creation.
	Entries(ctx context.Context, filter Filter) ([]Entry, error)

	// OpeningBalance returns the signed sum of debit − credit for the
	// filtered account strictly before the given date.
	OpeningBalance(ctx context.Context, filter Filter, before time.Time) (types.Money, error)
}
