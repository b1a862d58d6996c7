package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/domain/fault"
	domainProduct "github.com/swapmarket/swapmarket/internal/domain/product"
)

// Service manages product listings.
type Service struct {
	productRepo domainProduct.Repository
	logger      zerolog.Logger
}

// NewService creates a product service.
func NewService(productRepo domainProduct.Repository, logger zerolog.Logger) *Service {
	return &Service{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// CreateInput describes a new listing.
type CreateInput struct {
	OwnerID            uuid.UUID
	Title              string
	Description        string
	CategoryID         uuid.UUID
	Price              float64
	AcceptsTradeOffers bool
	TradePreferences   *domainProduct.TradePreferences
}

// Create validates and persists a new active listing.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domainProduct.Product, error) {
	p := domainProduct.New(in.OwnerID, in.Title, in.CategoryID, in.Price, in.AcceptsTradeOffers)
	p.Description = in.Description
	p.TradePreferences = in.TradePreferences
	if err := p.Validate(); err != nil {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, err.Error())
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", p.ProductID.String()).Msg("product created")
	return p, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, productID uuid.UUID) (*domainProduct.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "product not found: %s", productID)
	}
	return p, nil
}

// ListByOwner returns a user's listings, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domainProduct.Product, error) {
	return s.productRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// UpdateInput holds the owner-editable listing fields. Nil fields are left
// unchanged.
type UpdateInput struct {
	Title              *string
	Description        *string
	Price              *float64
	AcceptsTradeOffers *bool
	TradePreferences   *domainProduct.TradePreferences
}

// Update edits a listing. Only the owner may edit, and sold products are
// immutable.
func (s *Service) Update(ctx context.Context, productID, actorID uuid.UUID, in UpdateInput) (*domainProduct.Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeProductNotOwned, "product is not owned by actor")
	}
	if p.Status == domainProduct.StatusSold {
		return nil, fault.New(fault.KindInvalidTransition, fault.CodeInvalidStateTransition, "sold products cannot be edited")
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.AcceptsTradeOffers != nil {
		p.AcceptsTradeOffers = *in.AcceptsTradeOffers
	}
	if in.TradePreferences != nil {
		p.TradePreferences = in.TradePreferences
	}
	if err := p.Validate(); err != nil {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, err.Error())
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStatus applies an owner-requested status transition. SOLD is reached
// only through the accept protocol, never through this endpoint.
func (s *Service) SetStatus(ctx context.Context, productID, actorID uuid.UUID, target domainProduct.Status) (*domainProduct.Product, error) {
	if err := domainProduct.ValidateStatus(target); err != nil {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, err.Error()).WithField("status")
	}
	if target == domainProduct.StatusSold {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, "products are sold through accepted offers").WithField("status")
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeProductNotOwned, "product is not owned by actor")
	}
	from := p.Status
	if err := p.SetStatus(target); err != nil {
		return nil, fault.Newf(fault.KindInvalidTransition, fault.CodeInvalidStateTransition, "cannot move product from %s to %s", from, target)
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("product_id", p.ProductID.String()).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("product status changed")
	return p, nil
}
