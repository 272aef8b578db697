package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/ledger"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type journalRepositoryImpl struct {
	db *database.DB
}

func NewJournalRepository(db *database.DB) ledger.JournalRepository {
	return &journalRepositoryImpl{db: db}
}

// AppendEntry implements ledger.JournalRepository. Header and lines are
// written through the caller's querier: inside a finalize transaction they
// land with the rest of the run, standalone they get their own transaction.
func (j *journalRepositoryImpl) AppendEntry(ctx context.Context, entry ledger.JournalEntry) (ledger.JournalEntry, error) {
	if _, ok := ctx.Value("tx").(pgx.Tx); ok {
		return j.appendEntry(ctx, entry)
	}

	var stored ledger.JournalEntry
	err := WithTransaction(ctx, j.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		var err error
		stored, err = j.appendEntry(txCtx, entry)
		return err
	})
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	return stored, nil
}

func (j *journalRepositoryImpl) appendEntry(ctx context.Context, entry ledger.JournalEntry) (ledger.JournalEntry, error) {
	q := GetQuerier(ctx, j.db)

	headerQuery := `
		INSERT INTO journal_entries (
			company_id, entry_date, reference_number, description, source_type,
			is_posted, is_locked, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, company_id, entry_date, reference_number, description, source_type,
			is_posted, is_locked, created_at, updated_at
	`

	var stored ledger.JournalEntry
	err := q.QueryRow(ctx, headerQuery,
		entry.CompanyID, entry.EntryDate, entry.ReferenceNumber, entry.Description,
		entry.SourceType, entry.IsPosted, entry.IsLocked,
	).Scan(
		&stored.ID, &stored.CompanyID, &stored.EntryDate, &stored.ReferenceNumber,
		&stored.Description, &stored.SourceType, &stored.IsPosted, &stored.IsLocked,
		&stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return ledger.JournalEntry{}, fmt.Errorf("failed to create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (journal_entry_id, account_code, account_name, description, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for _, line := range entry.Lines {
		var lineID string
		err := q.QueryRow(ctx, lineQuery,
			stored.ID, line.AccountCode, line.AccountName, line.Description, line.Debit, line.Credit,
		).Scan(&lineID)
		if err != nil {
			return ledger.JournalEntry{}, fmt.Errorf("failed to insert journal line: %w", err)
		}
		line.ID = lineID
		line.JournalEntryID = stored.ID
		stored.Lines = append(stored.Lines, line)
	}

	return stored, nil
}

// GetByID implements ledger.JournalRepository.
func (j *journalRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (ledger.JournalEntry, error) {
	q := GetQuerier(ctx, j.db)

	headerQuery := `
		SELECT id, company_id, entry_date, reference_number, description, source_type,
			is_posted, is_locked, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND company_id = $2
	`

	var entry ledger.JournalEntry
	err := q.QueryRow(ctx, headerQuery, id, companyID).Scan(
		&entry.ID, &entry.CompanyID, &entry.EntryDate, &entry.ReferenceNumber,
		&entry.Description, &entry.SourceType, &entry.IsPosted, &entry.IsLocked,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.JournalEntry{}, ledger.ErrEntryNotFound
		}
		return ledger.JournalEntry{}, fmt.Errorf("failed to get journal entry with id %s: %w", id, err)
	}

	linesQuery := `
		SELECT id, journal_entry_id, account_code, account_name, description, debit, credit
		FROM journal_lines
		WHERE journal_entry_id = $1
		ORDER BY account_code
	`

	rows, err := q.Query(ctx, linesQuery, id)
	if err != nil {
		return ledger.JournalEntry{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line ledger.JournalLine
		if err := rows.Scan(&line.ID, &line.JournalEntryID, &line.AccountCode, &line.AccountName, &line.Description, &line.Debit, &line.Credit); err != nil {
			return ledger.JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, line)
	}
	if err = rows.Err(); err != nil {
		return ledger.JournalEntry{}, err
	}

	return entry, nil
}
