package product

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// CandidateFilter selects match candidates for a product.
type CandidateFilter struct {
	ExcludeOwnerID uuid.UUID
	CategoryIDs    []uuid.UUID
	MinPrice       *float64
	Limit          int
}

// Repository defines product persistence. UpdateStatusIf is the store-level
// compare-and-set primitive: it must be a single conditional write, not a
// read-then-write emulation.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID uuid.UUID) (*Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Product, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	UpdateStatusIf(ctx context.Context, productID uuid.UUID, from, to Status) (bool, error)
}
