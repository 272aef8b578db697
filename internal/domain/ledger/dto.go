package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/validator"
)

type JournalLineInput struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PostOpeningBalancesRequest seeds account balances. Auto-balancing to
// retained earnings is allowed only when the caller confirms the exact
// imbalance amount.
type PostOpeningBalancesRequest struct {
	EntryDate        string             `json:"entry_date"` // YYYY-MM-DD
	Description      string             `json:"description,omitempty"`
	Lines            []JournalLineInput `json:"lines"`
	ConfirmImbalance *decimal.Decimal   `json:"confirm_imbalance,omitempty"`
}

func (r *PostOpeningBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Lines) == 0 {
		errs = append(errs, validator.ValidationError{Field: "lines", Message: "at least one line is required"})
	}
	if _, ok := validator.IsValidDate(r.EntryDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "entry_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	for _, l := range r.Lines {
		if l.AccountCode == "" {
			errs = append(errs, validator.ValidationError{Field: "account_code", Message: "is required"})
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "lines", Message: "debit and credit must be non-negative"})
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			errs = append(errs, validator.ValidationError{Field: "lines", Message: "exactly one of debit or credit must be non-zero"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type JournalEntryResponse struct {
	ID              string                `json:"id"`
	EntryDate       string                `json:"entry_date"`
	ReferenceNumber string                `json:"reference_number"`
	Description     string                `json:"description,omitempty"`
	SourceType      string                `json:"source_type"`
	IsPosted        bool                  `json:"is_posted"`
	IsLocked        bool                  `json:"is_locked"`
	TotalDebits     decimal.Decimal       `json:"total_debits"`
	TotalCredits    decimal.Decimal       `json:"total_credits"`
	Lines           []JournalLineResponse `json:"lines"`
}

type JournalLineResponse struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}
