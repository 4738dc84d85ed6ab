package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/mrnovoice/bankledger/internal/domain"
)

// HolderUseCase handles account-holder registration. Credentials and sessions
// live outside the ledger core.
type HolderUseCase struct {
	holders HolderStore
	idGen   IDGenerator
}

// NewHolderUseCase creates a new HolderUseCase.
func NewHolderUseCase(holders HolderStore, idGen IDGenerator) *HolderUseCase {
	return &HolderUseCase{
		holders: holders,
		idGen:   idGen,
	}
}

// RegisterHolderInput represents input for registering a holder.
type RegisterHolderInput struct {
	FullName string
	Email    string
	Phone    string
}

// Register validates and persists a new holder.
func (uc *HolderUseCase) Register(ctx context.Context, input RegisterHolderInput) (*domain.Holder, error) {
	if err := domain.ValidateHolderName(input.FullName); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}

	holder := &domain.Holder{
		ID:        uc.idGen.Generate(),
		FullName:  strings.TrimSpace(input.FullName),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.holders.Create(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

// Get retrieves a holder by ID.
func (uc *HolderUseCase) Get(ctx context.Context, id string) (*domain.Holder, error) {
	return uc.holders.GetByID(ctx, id)
}
