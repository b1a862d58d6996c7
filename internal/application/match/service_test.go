package match_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket/internal/application/match"
	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/product"
	"github.com/swapmarket/swapmarket/internal/infrastructure/memstore"
)

func seedProduct(t *testing.T, store *memstore.Store, owner uuid.UUID, categoryID uuid.UUID, price float64) *product.Product {
	t.Helper()
	p := product.New(owner, "thing", categoryID, price, true)
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func TestFindMatchesEligibility(t *testing.T) {
	store := memstore.New()
	svc := match.NewService(store.Products(), 0, zerolog.Nop())
	ctx := context.Background()
	alice := uuid.New()

	t.Run("missing product", func(t *testing.T) {
		_, err := svc.FindMatches(ctx, uuid.New(), alice)
		require.Error(t, err)
		assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
	})

	t.Run("not owned by requester", func(t *testing.T) {
		p := seedProduct(t, store, uuid.New(), uuid.New(), 100)
		_, err := svc.FindMatches(ctx, p.ProductID, alice)
		require.Error(t, err)
		assert.Equal(t, fault.CodeNotEligibleForMatching, fault.CodeOf(err))
	})

	t.Run("not accepting trade offers", func(t *testing.T) {
		p := product.New(alice, "thing", uuid.New(), 100, false)
		require.NoError(t, store.Products().Create(ctx, p))
		_, err := svc.FindMatches(ctx, p.ProductID, alice)
		require.Error(t, err)
		assert.Equal(t, fault.CodeNotEligibleForMatching, fault.CodeOf(err))
	})
}

func TestFindMatchesFilters(t *testing.T) {
	store := memstore.New()
	svc := match.NewService(store.Products(), 0, zerolog.Nop())
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	books, games := uuid.New(), uuid.New()

	pct := 80.0
	mine := seedProduct(t, store, alice, books, 100)
	mine.TradePreferences = &product.TradePreferences{
		PreferredCategoryIDs:    []uuid.UUID{books},
		MinTradeValuePercentage: &pct,
	}
	require.NoError(t, store.Products().Update(ctx, mine))

	matching := seedProduct(t, store, bob, books, 90)
	seedProduct(t, store, bob, games, 90)   // wrong category
	seedProduct(t, store, bob, books, 50)   // below min value
	seedProduct(t, store, alice, books, 90) // own product

	sold := seedProduct(t, store, bob, books, 95)
	ok, err := store.Products().UpdateStatusIf(ctx, sold.ProductID, product.StatusActive, product.StatusSold)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := svc.FindMatches(ctx, mine.ProductID, alice)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, matching.ProductID, out[0].ProductID)
}

func TestFindMatchesAnyTradeSkipsPreferenceFilters(t *testing.T) {
	store := memstore.New()
	svc := match.NewService(store.Products(), 0, zerolog.Nop())
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	pct := 80.0
	mine := seedProduct(t, store, alice, uuid.New(), 100)
	mine.TradePreferences = &product.TradePreferences{
		AcceptsAnyTrade:         true,
		PreferredCategoryIDs:    []uuid.UUID{uuid.New()},
		MinTradeValuePercentage: &pct,
	}
	require.NoError(t, store.Products().Update(ctx, mine))

	cheap := seedProduct(t, store, bob, uuid.New(), 10)

	out, err := svc.FindMatches(ctx, mine.ProductID, alice)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, cheap.ProductID, out[0].ProductID)
}

func TestFindMatchesCapAndOrder(t *testing.T) {
	store := memstore.New()
	svc := match.NewService(store.Products(), 5, zerolog.Nop())
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	mine := seedProduct(t, store, alice, uuid.New(), 100)
	for i := 0; i < 10; i++ {
		seedProduct(t, store, bob, uuid.New(), 50)
	}

	out, err := svc.FindMatches(ctx, mine.ProductID, alice)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].CreatedAt.After(out[i-1].CreatedAt))
	}
}
