package match

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/product"
)

// DefaultLimit caps the number of candidates returned per query.
const DefaultLimit = 20

// Service suggests trade candidates for a product. Queries are read-only and
// never create offers.
type Service struct {
	productRepo product.Repository
	limit       int
	logger      zerolog.Logger
}

// NewService creates a matching service. limit <= 0 falls back to the default.
func NewService(productRepo product.Repository, limit int, logger zerolog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		productRepo: productRepo,
		limit:       limit,
		logger:      logger.With().Str("service", "match").Logger(),
	}
}

// FindMatches returns active products owned by other users that satisfy the
// product's trade preferences, newest first.
func (s *Service) FindMatches(ctx context.Context, productID, requesterID uuid.UUID) ([]*product.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "product not found: %s", productID)
	}
	if p.OwnerID != requesterID {
		return nil, fault.New(fault.KindValidation, fault.CodeNotEligibleForMatching, "product is not owned by requester")
	}
	if !p.AcceptsTradeOffers {
		return nil, fault.New(fault.KindValidation, fault.CodeNotEligibleForMatching, "product does not accept trade offers")
	}

	filter := product.CandidateFilter{
		ExcludeOwnerID: requesterID,
		Limit:          s.limit,
	}
	if prefs := p.TradePreferences; prefs != nil && !prefs.AcceptsAnyTrade {
		if len(prefs.PreferredCategoryIDs) > 0 {
			filter.CategoryIDs = prefs.PreferredCategoryIDs
		}
		if prefs.MinTradeValuePercentage != nil {
			min := p.Price * *prefs.MinTradeValuePercentage / 100
			filter.MinPrice = &min
		}
	}

	candidates, err := s.productRepo.ListCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("product_id", productID.String()).
		Int("candidates", len(candidates)).
		Msg("matching query")
	return candidates, nil
}
