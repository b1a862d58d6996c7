package chain

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/offer"
)

// DefaultMaxDepth bounds counter-offer chain traversal.
const DefaultMaxDepth = 50

// Node is one offer in a counter-offer tree.
type Node struct {
	Offer    *offer.TradeOffer `json:"offer"`
	Children []*Node           `json:"children"`
}

// Service assembles counter-offer chains for display.
type Service struct {
	offerRepo offer.Repository
	maxDepth  int
	logger    zerolog.Logger
}

// NewService creates a chain service. maxDepth <= 0 falls back to the default.
func NewService(offerRepo offer.Repository, maxDepth int, logger zerolog.Logger) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Service{
		offerRepo: offerRepo,
		maxDepth:  maxDepth,
		logger:    logger.With().Str("service", "chain").Logger(),
	}
}

// GetChain returns the full negotiation tree rooted at rootOfferID. The actor
// must be a party of the root offer. Child references that no longer resolve
// are skipped; a chain deeper than the cap is refused rather than truncated.
func (s *Service) GetChain(ctx context.Context, rootOfferID, actorID uuid.UUID) (*Node, error) {
	root, err := s.offerRepo.GetByID(ctx, rootOfferID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "offer not found: %s", rootOfferID)
	}
	if !root.IsParty(actorID) {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "not a party of this offer")
	}

	visited := map[uuid.UUID]bool{}
	return s.build(ctx, root, 1, visited)
}

func (s *Service) build(ctx context.Context, o *offer.TradeOffer, depth int, visited map[uuid.UUID]bool) (*Node, error) {
	if depth > s.maxDepth {
		return nil, fault.Newf(fault.KindValidation, fault.CodeChainTooDeep, "counter-offer chain exceeds depth %d", s.maxDepth)
	}
	visited[o.OfferID] = true

	node := &Node{Offer: o, Children: []*Node{}}
	for _, childID := range o.ChildOfferIDs {
		if visited[childID] {
			continue
		}
		child, err := s.offerRepo.GetByID(ctx, childID)
		if err != nil {
			return nil, err
		}
		if child == nil {
			// Dangling reference, likely a deleted offer. Render the rest.
			s.logger.Warn().
				Str("offer_id", o.OfferID.String()).
				Str("child_id", childID.String()).
				Msg("skipping dangling counter-offer reference")
			continue
		}
		childNode, err := s.build(ctx, child, depth+1, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}
