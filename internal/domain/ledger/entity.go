package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a double-entry ledger record. Payroll postings are created
// posted and locked; corrections are a new reversing entry owned by general
// ledger tooling, never a mutation here.
type JournalEntry struct {
	ID              string
	CompanyID       string
	EntryDate       time.Time
	ReferenceNumber string
	Description     string
	SourceType      SourceType
	IsPosted        bool
	IsLocked        bool
	Lines           []JournalLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SourceType string

const (
	SourcePayrollRun      SourceType = "payroll_run"
	SourceOpeningBalances SourceType = "opening_balances"
)

// JournalLine carries exactly one non-zero side.
type JournalLine struct {
	ID             string
	JournalEntryID string
	AccountCode    string
	AccountName    string
	Description    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// TotalDebits sums the debit side of the entry.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the entry.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced checks debits equal credits to the minor currency unit.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Round(2).Equal(e.TotalCredits().Round(2))
}
