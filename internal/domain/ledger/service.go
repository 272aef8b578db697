package ledger

import (
	"context"

	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
)

// Service is the ledger poster. It owns balance validation; persistence of
// the journal belongs to the general-ledger repository it calls.
type Service interface {
	// PostPayrollRun builds and appends the balanced journal entry for a
	// finalized run. Called inside the finalize transaction.
	PostPayrollRun(ctx context.Context, companyID string, run payroll.PayrollRun) (JournalEntry, error)

	// PostOpeningBalances seeds account balances; auto-balancing to retained
	// earnings requires the caller to confirm the exact imbalance amount.
	PostOpeningBalances(ctx context.Context, req PostOpeningBalancesRequest) (JournalEntryResponse, error)

	GetEntry(ctx context.Context, id string) (JournalEntryResponse, error)
}
