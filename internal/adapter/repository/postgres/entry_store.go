package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

const entryColumns = `id, account_id, kind, amount, resulting_balance, account_version, correlation_id, created_at`

// EntryStore implements usecase.EntryStore. The entries table is append-only.
type EntryStore struct {
	pool *pgxpool.Pool
}

// NewEntryStore creates a new EntryStore.
func NewEntryStore(pool *pgxpool.Pool) *EntryStore {
	return &EntryStore{pool: pool}
}

// Append inserts the entry inside the transaction. An existing row with the
// same ID and identical content makes this a no-op returning the existing ID;
// same ID with different content is domain.ErrInvalidEntry.
func (s *EntryStore) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`INSERT INTO entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		entry.ID,
		entry.AccountID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.ResultingBalance),
		entry.AccountVersion,
		textOrNull(entry.CorrelationID),
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return "", err
	}

	if tag.RowsAffected() == 0 {
		existing, err := scanEntry(pgxTx.QueryRow(ctx,
			`SELECT `+entryColumns+` FROM entries WHERE id = $1`, entry.ID))
		if err != nil {
			return "", err
		}

		if !existing.SameContent(entry) {
			return "", domain.ErrInvalidEntry
		}
	}

	return entry.ID, nil
}

// GetByID retrieves an entry by ID.
func (s *EntryStore) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return scanEntry(s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, id))
}

// ListByAccount retrieves the account's entries in chronological order, ties
// broken by entry ID ascending.
func (s *EntryStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE account_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByCorrelation retrieves the entries sharing a correlation ID.
func (s *EntryStore) ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE correlation_id = $1
		 ORDER BY created_at, id`,
		correlationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByAccount returns the sum of signed entry amounts for the account.
func (s *EntryStore) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM entries WHERE account_id = $1`,
		accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry                    domain.Entry
		kind                     string
		amount, resultingBalance pgtype.Numeric
		correlationID            pgtype.Text
		createdAt                pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&kind,
		&amount,
		&resultingBalance,
		&entry.AccountVersion,
		&correlationID,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Amount = numericToDecimal(amount)
	entry.ResultingBalance = numericToDecimal(resultingBalance)
	entry.CorrelationID = correlationID.String
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
