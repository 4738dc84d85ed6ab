package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrnovoice/bankledger/internal/domain"
)

// HolderStore implements usecase.HolderStore.
type HolderStore struct {
	pool *pgxpool.Pool
}

// NewHolderStore creates a new HolderStore.
func NewHolderStore(pool *pgxpool.Pool) *HolderStore {
	return &HolderStore{pool: pool}
}

// Create inserts a new holder.
func (s *HolderStore) Create(ctx context.Context, holder *domain.Holder) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO holders (id, full_name, email, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		holder.ID,
		holder.FullName,
		holder.Email,
		textOrNull(holder.Phone),
		timeToPgTimestamptz(holder.CreatedAt),
	)

	return err
}

// GetByID retrieves a holder by ID.
func (s *HolderStore) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	var (
		holder    domain.Holder
		phone     pgtype.Text
		createdAt pgtype.Timestamptz
	)

	err := s.pool.QueryRow(ctx,
		`SELECT id, full_name, email, phone, created_at FROM holders WHERE id = $1`, id).
		Scan(&holder.ID, &holder.FullName, &holder.Email, &phone, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHolderNotFound
		}

		return nil, err
	}

	holder.Phone = phone.String
	holder.CreatedAt = createdAt.Time

	return &holder, nil
}
