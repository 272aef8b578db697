package ledger

import "context"

// JournalRepository is owned by the general-ledger module; the payroll engine
// is a caller. Balance validation happens before AppendEntry is invoked.
type JournalRepository interface {
	// AppendEntry inserts the entry header and all lines atomically and
	// returns the stored entry.
	AppendEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	GetByID(ctx context.Context, id string, companyID string) (JournalEntry, error)
}
