package claim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/offer"
	"github.com/swapmarket/swapmarket/internal/domain/product"
)

// Store is the entity store view the accept protocol runs against. WithinTx
// executes fn atomically: either every conditional write inside fn is visible
// or none is. Implementations must serialize concurrent WithinTx calls that
// touch the same records.
type Store interface {
	Offers() offer.Repository
	Products() product.Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Result is the outcome of a successful accept.
type Result struct {
	Offer    *offer.TradeOffer
	Rejected []*offer.TradeOffer
}

// Coordinator performs the accept transition as one atomic unit so that two
// competing accepts over a shared product can never both succeed.
type Coordinator struct {
	store  Store
	logger zerolog.Logger
}

// NewCoordinator creates a claim coordinator.
func NewCoordinator(store Store, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		logger: logger.With().Str("service", "claim").Logger(),
	}
}

// Accept claims both products for the offer and cascade-rejects every other
// pending offer referencing either product.
//
// The offer-level compare-and-set is the sole serialization point per offer
// id; the product-level compare-and-sets arbitrate between offers sharing a
// product. A failed product claim rolls the offer back and surfaces as
// PRODUCT_NO_LONGER_AVAILABLE; a failed offer claim surfaces as
// OFFER_ALREADY_RESOLVED. Once the offer claim succeeds the protocol runs to
// completion or explicit rollback; there is no mid-flight cancellation.
func (c *Coordinator) Accept(ctx context.Context, offerID uuid.UUID, now time.Time) (*Result, error) {
	var result *Result
	err := c.store.WithinTx(ctx, func(ctx context.Context, s Store) error {
		o, err := s.Offers().GetByID(ctx, offerID)
		if err != nil {
			return err
		}
		if o == nil {
			return fault.Newf(fault.KindNotFound, fault.CodeNotFound, "offer not found: %s", offerID)
		}
		if o.Status == offer.StatusPending && o.IsExpired(now) {
			return fault.New(fault.KindInvalidTransition, fault.CodeOfferExpired, "offer has expired")
		}

		claimed, err := s.Offers().UpdateStatusIf(ctx, offerID, offer.StatusPending, offer.StatusAccepted, nil, now)
		if err != nil {
			return err
		}
		if !claimed {
			return fault.New(fault.KindConflict, fault.CodeOfferAlreadyResolved, "offer was already resolved")
		}

		if err := c.claimProducts(ctx, s, o, now); err != nil {
			return err
		}

		rejected, err := s.Offers().RejectPendingReferencing(
			ctx,
			[]uuid.UUID{o.OfferedProductID, o.RequestedProductID},
			offerID,
			offer.ReasonProductCommitted,
			now,
		)
		if err != nil {
			return err
		}

		accepted, err := s.Offers().GetByID(ctx, offerID)
		if err != nil {
			return err
		}
		result = &Result{Offer: accepted, Rejected: rejected}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("offer_id", result.Offer.OfferID.String()).
		Int("cascade_rejected", len(result.Rejected)).
		Msg("offer accepted")
	return result, nil
}

// claimProducts transitions both products ACTIVE -> SOLD, undoing partial
// work when either side lost its product to another accepted trade.
func (c *Coordinator) claimProducts(ctx context.Context, s Store, o *offer.TradeOffer, now time.Time) error {
	lost := func(failedID uuid.UUID) error {
		if _, err := s.Offers().UpdateStatusIf(ctx, o.OfferID, offer.StatusAccepted, offer.StatusPending, nil, now); err != nil {
			return err
		}
		return fault.Newf(fault.KindConflict, fault.CodeProductNoLongerAvailable,
			"product %s was claimed by another trade", failedID)
	}

	ok, err := s.Products().UpdateStatusIf(ctx, o.OfferedProductID, product.StatusActive, product.StatusSold)
	if err != nil {
		return err
	}
	if !ok {
		return lost(o.OfferedProductID)
	}

	ok, err = s.Products().UpdateStatusIf(ctx, o.RequestedProductID, product.StatusActive, product.StatusSold)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Products().UpdateStatusIf(ctx, o.OfferedProductID, product.StatusSold, product.StatusActive); err != nil {
			return err
		}
		return lost(o.RequestedProductID)
	}
	return nil
}
