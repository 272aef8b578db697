package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/ledger"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
)

// Chart-of-accounts codes the poster writes against.
const (
	AccountPayrollExpense       = "5100"
	AccountEmployerContribution = "5110"
	AccountPayePayable          = "2210"
	AccountNapsaPayable         = "2220"
	AccountNhimaPayable         = "2230"
	AccountPensionPayable       = "2240"
	AccountWhtPayable           = "2250"
	AccountStaffAdvances        = "1250"
	AccountNetPayPayable        = "2110"
	AccountRetainedEarnings     = "3200"
)

type LedgerServiceImpl struct {
	journalRepo ledger.JournalRepository
}

func NewLedgerService(journalRepo ledger.JournalRepository) ledger.Service {
	return &LedgerServiceImpl{journalRepo: journalRepo}
}

func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// PostPayrollRun builds the double-entry posting for a finalized run: gross
// payroll and employer contributions on the debit side, statutory payables,
// advance recoveries and net pay on the credit side. The entry must balance
// to the minor unit before it is appended; there is no auto-balancing for
// payroll postings.
func (s *LedgerServiceImpl) PostPayrollRun(ctx context.Context, companyID string, run payroll.PayrollRun) (ledger.JournalEntry, error) {
	totals := sumRun(run)

	reference := run.ID
	if run.PayrollNumber != nil {
		reference = *run.PayrollNumber
	}
	description := fmt.Sprintf("Payroll %s to %s",
		run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02"))

	entry := ledger.JournalEntry{
		CompanyID:       companyID,
		EntryDate:       run.RunDate,
		ReferenceNumber: reference,
		Description:     description,
		SourceType:      ledger.SourcePayrollRun,
		IsPosted:        true,
		IsLocked:        true,
	}

	addLine := func(code, name string, debit, credit decimal.Decimal) {
		if debit.IsZero() && credit.IsZero() {
			return
		}
		entry.Lines = append(entry.Lines, ledger.JournalLine{
			AccountCode: code,
			AccountName: name,
			Description: description,
			Debit:       debit.Round(2),
			Credit:      credit.Round(2),
		})
	}

	addLine(AccountPayrollExpense, "Payroll expense", totals.gross, decimal.Zero)
	addLine(AccountEmployerContribution, "Employer statutory contributions", totals.employer, decimal.Zero)

	addLine(AccountPayePayable, "PAYE payable", decimal.Zero, totals.paye)
	addLine(AccountNapsaPayable, "NAPSA payable", decimal.Zero, totals.napsa)
	addLine(AccountNhimaPayable, "NHIMA payable", decimal.Zero, totals.nhima)
	addLine(AccountPensionPayable, "Pension payable", decimal.Zero, totals.pension)
	addLine(AccountWhtPayable, "Withholding tax payable", decimal.Zero, totals.wht)
	addLine(AccountStaffAdvances, "Staff advances recovered", decimal.Zero, totals.advances)
	addLine(AccountNetPayPayable, "Net salaries payable", decimal.Zero, totals.net)

	if err := validateEntry(entry); err != nil {
		return ledger.JournalEntry{}, err
	}

	return s.journalRepo.AppendEntry(ctx, entry)
}

func (s *LedgerServiceImpl) PostOpeningBalances(ctx context.Context, req ledger.PostOpeningBalancesRequest) (ledger.JournalEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)
	description := req.Description
	if description == "" {
		description = "Opening balances"
	}

	entry := ledger.JournalEntry{
		CompanyID:       companyID,
		EntryDate:       entryDate,
		ReferenceNumber: "OB-" + uuid.NewString()[:8],
		Description:     description,
		SourceType:      ledger.SourceOpeningBalances,
		IsPosted:        true,
		IsLocked:        true,
	}
	for _, l := range req.Lines {
		entry.Lines = append(entry.Lines, ledger.JournalLine{
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Description: l.Description,
			Debit:       l.Debit.Round(2),
			Credit:      l.Credit.Round(2),
		})
	}

	// Opening balances may auto-balance to retained earnings, but only when
	// the caller has confirmed the exact imbalance amount.
	imbalance := entry.TotalDebits().Sub(entry.TotalCredits()).Round(2)
	if !imbalance.IsZero() {
		if req.ConfirmImbalance == nil || !req.ConfirmImbalance.Round(2).Equal(imbalance.Abs()) {
			return ledger.JournalEntryResponse{}, fmt.Errorf("%w: imbalance of %s requires confirmation", ledger.ErrUnbalancedEntry, imbalance.Abs())
		}
		line := ledger.JournalLine{
			AccountCode: AccountRetainedEarnings,
			AccountName: "Retained earnings",
			Description: "Opening balance adjustment",
		}
		if imbalance.IsPositive() {
			line.Credit = imbalance
		} else {
			line.Debit = imbalance.Abs()
		}
		entry.Lines = append(entry.Lines, line)
	}

	if err := validateEntry(entry); err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	created, err := s.journalRepo.AppendEntry(ctx, entry)
	if err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	return mapToResponse(created), nil
}

// GetEntry implements ledger.Service.
func (s *LedgerServiceImpl) GetEntry(ctx context.Context, id string) (ledger.JournalEntryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	entry, err := s.journalRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return ledger.JournalEntryResponse{}, err
	}

	return mapToResponse(entry), nil
}

func validateEntry(entry ledger.JournalEntry) error {
	if len(entry.Lines) == 0 {
		return ledger.ErrEmptyEntry
	}
	for _, l := range entry.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return ledger.ErrInvalidLine
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return ledger.ErrInvalidLine
		}
	}
	if !entry.IsBalanced() {
		return fmt.Errorf("%w: debits %s, credits %s", ledger.ErrUnbalancedEntry,
			entry.TotalDebits().Round(2), entry.TotalCredits().Round(2))
	}
	return nil
}

type runTotals struct {
	gross    decimal.Decimal
	employer decimal.Decimal
	paye     decimal.Decimal
	napsa    decimal.Decimal
	nhima    decimal.Decimal
	pension  decimal.Decimal
	wht      decimal.Decimal
	advances decimal.Decimal
	net      decimal.Decimal
}

func sumRun(run payroll.PayrollRun) runTotals {
	t := runTotals{
		gross:    decimal.Zero,
		employer: decimal.Zero,
		paye:     decimal.Zero,
		napsa:    decimal.Zero,
		nhima:    decimal.Zero,
		pension:  decimal.Zero,
		wht:      decimal.Zero,
		advances: decimal.Zero,
		net:      decimal.Zero,
	}
	for _, item := range run.Items {
		t.gross = t.gross.Add(item.GrossSalary)
		t.employer = t.employer.
			Add(item.NapsaEmployer).
			Add(item.NhimaEmployer).
			Add(item.PensionEmployer)
		t.paye = t.paye.Add(item.Paye)
		t.napsa = t.napsa.Add(item.NapsaEmployee).Add(item.NapsaEmployer)
		t.nhima = t.nhima.Add(item.NhimaEmployee).Add(item.NhimaEmployer)
		t.pension = t.pension.Add(item.PensionEmployee).Add(item.PensionEmployer)
		t.wht = t.wht.Add(item.WithholdingTax)
		t.advances = t.advances.Add(item.AdvancesDeducted)
		t.net = t.net.Add(item.NetSalary)
	}
	return t
}

func mapToResponse(entry ledger.JournalEntry) ledger.JournalEntryResponse {
	resp := ledger.JournalEntryResponse{
		ID:              entry.ID,
		EntryDate:       entry.EntryDate.Format("2006-01-02"),
		ReferenceNumber: entry.ReferenceNumber,
		Description:     entry.Description,
		SourceType:      string(entry.SourceType),
		IsPosted:        entry.IsPosted,
		IsLocked:        entry.IsLocked,
		TotalDebits:     entry.TotalDebits().Round(2),
		TotalCredits:    entry.TotalCredits().Round(2),
	}
	for _, l := range entry.Lines {
		resp.Lines = append(resp.Lines, ledger.JournalLineResponse{
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	return resp
}
