package ledger

import "errors"

var (
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")
	ErrEmptyEntry      = errors.New("journal entry has no lines")
	ErrInvalidLine     = errors.New("journal line must have exactly one non-zero side")
	ErrEntryNotFound   = errors.New("journal entry not found")
)
