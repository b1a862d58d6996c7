package claim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/offer"
	"github.com/swapmarket/swapmarket/internal/domain/product"
	"github.com/swapmarket/swapmarket/internal/infrastructure/memstore"
)

func newProduct(t *testing.T, store *memstore.Store, owner uuid.UUID) *product.Product {
	t.Helper()
	p := product.New(owner, "thing", uuid.New(), 100, true)
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func newOffer(t *testing.T, store *memstore.Store, offered, requested *product.Product) *offer.TradeOffer {
	t.Helper()
	o := offer.New(offered.ProductID, requested.ProductID, offered.OwnerID, requested.OwnerID, 0, "")
	require.NoError(t, store.Offers().Create(context.Background(), o))
	return o
}

func productStatus(t *testing.T, store *memstore.Store, id uuid.UUID) product.Status {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Status
}

func offerStatus(t *testing.T, store *memstore.Store, id uuid.UUID) offer.Status {
	t.Helper()
	o, err := store.Offers().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o.Status
}

func TestAcceptClaimsProductsAndCascades(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	alice, bob, carol, dave := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	p1 := newProduct(t, store, alice)
	p2 := newProduct(t, store, bob)
	p3 := newProduct(t, store, carol)
	p4 := newProduct(t, store, dave)

	winner := newOffer(t, store, p1, p2)
	competingOnP2 := newOffer(t, store, p3, p2)
	competingOnP1 := newOffer(t, store, p4, p1)

	result, err := coord.Accept(ctx, winner.OfferID, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, offer.StatusAccepted, result.Offer.Status)
	require.NotNil(t, result.Offer.ResolvedAt)
	assert.Equal(t, product.StatusSold, productStatus(t, store, p1.ProductID))
	assert.Equal(t, product.StatusSold, productStatus(t, store, p2.ProductID))

	rejectedIDs := map[uuid.UUID]bool{}
	for _, r := range result.Rejected {
		rejectedIDs[r.OfferID] = true
		assert.Equal(t, offer.StatusRejected, r.Status)
		require.NotNil(t, r.Reason)
		assert.Equal(t, offer.ReasonProductCommitted, *r.Reason)
	}
	assert.True(t, rejectedIDs[competingOnP2.OfferID])
	assert.True(t, rejectedIDs[competingOnP1.OfferID])
	assert.Len(t, result.Rejected, 2)

	// Loser products stay listed.
	assert.Equal(t, product.StatusActive, productStatus(t, store, p3.ProductID))
	assert.Equal(t, product.StatusActive, productStatus(t, store, p4.ProductID))
}

func TestAcceptOfferAlreadyResolved(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	p1 := newProduct(t, store, uuid.New())
	p2 := newProduct(t, store, uuid.New())
	o := newOffer(t, store, p1, p2)

	_, err := coord.Accept(ctx, o.OfferID, time.Now().UTC())
	require.NoError(t, err)

	_, err = coord.Accept(ctx, o.OfferID, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))
	assert.Equal(t, fault.CodeOfferAlreadyResolved, fault.CodeOf(err))
}

func TestAcceptRollsBackWhenProductUnavailable(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	p1 := newProduct(t, store, uuid.New())
	p2 := newProduct(t, store, uuid.New())
	o := newOffer(t, store, p1, p2)

	// The requested product was sold out of band.
	ok, err := store.Products().UpdateStatusIf(ctx, p2.ProductID, product.StatusActive, product.StatusSold)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = coord.Accept(ctx, o.OfferID, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, fault.CodeProductNoLongerAvailable, fault.CodeOf(err))

	// The offer reverts to pending and the offered product stays active.
	assert.Equal(t, offer.StatusPending, offerStatus(t, store, o.OfferID))
	assert.Equal(t, product.StatusActive, productStatus(t, store, p1.ProductID))
}

func TestAcceptOfferNotFound(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())

	_, err := coord.Accept(context.Background(), uuid.New(), time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
}

func TestAcceptExpiredOffer(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	p1 := newProduct(t, store, uuid.New())
	p2 := newProduct(t, store, uuid.New())
	o := newOffer(t, store, p1, p2)

	_, err := coord.Accept(ctx, o.OfferID, o.ExpiresAt.Add(time.Minute))
	require.Error(t, err)
	assert.Equal(t, fault.CodeOfferExpired, fault.CodeOf(err))
	assert.Equal(t, offer.StatusPending, offerStatus(t, store, o.OfferID))
}

func TestConcurrentAcceptsSingleWinner(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	target := newProduct(t, store, uuid.New())
	const n = 8
	offers := make([]*offer.TradeOffer, n)
	for i := range offers {
		offers[i] = newOffer(t, store, newProduct(t, store, uuid.New()), target)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	now := time.Now().UTC()
	for i := range offers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.Accept(ctx, offers[i].OfferID, now)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			assert.Equal(t, offer.StatusAccepted, offerStatus(t, store, offers[i].OfferID))
			continue
		}
		assert.Equal(t, fault.KindConflict, fault.KindOf(err))
		code := fault.CodeOf(err)
		assert.Contains(t, []string{fault.CodeOfferAlreadyResolved, fault.CodeProductNoLongerAvailable}, code)
		assert.Equal(t, offer.StatusRejected, offerStatus(t, store, offers[i].OfferID))
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, product.StatusSold, productStatus(t, store, target.ProductID))
}

func TestTwoOffersOneProduct(t *testing.T) {
	store := memstore.New()
	coord := claim.NewCoordinator(store, zerolog.Nop())
	ctx := context.Background()

	target := newProduct(t, store, uuid.New())
	first := newOffer(t, store, newProduct(t, store, uuid.New()), target)
	second := newOffer(t, store, newProduct(t, store, uuid.New()), target)

	result, err := coord.Accept(ctx, first.OfferID, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, second.OfferID, result.Rejected[0].OfferID)

	// Accepting the cascade-rejected offer afterwards must fail cleanly.
	_, err = coord.Accept(ctx, second.OfferID, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, fault.CodeOfferAlreadyResolved, fault.CodeOf(err))

	// The losing proposer's product was never claimed.
	loser, err := store.Offers().GetByID(ctx, second.OfferID)
	require.NoError(t, err)
	assert.Equal(t, product.StatusActive, productStatus(t, store, loser.OfferedProductID))
}
