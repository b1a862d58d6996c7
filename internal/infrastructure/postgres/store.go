package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/offer"
	"github.com/swapmarket/swapmarket/internal/domain/product"
)

// Store bundles the offer and product repositories over one query surface.
// A store created by WithinTx runs everything on the transaction.
type Store struct {
	pool *pgxpool.Pool
	q    Querier
}

// NewStore creates a store backed by the connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// Offers returns the offer repository view.
func (s *Store) Offers() offer.Repository { return NewOfferRepository(s.q) }

// Products returns the product repository view.
func (s *Store) Products() product.Repository { return NewProductRepository(s.q) }

// WithinTx runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise. Nested calls reuse the
// already-open transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, cs claim.Store) error) error {
	if s.pool == nil {
		return fn(ctx, s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{q: tx}); err != nil {
		return translateTxConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateTxConflict(err)
	}
	return nil
}

// Transactions racing over the same offer or product rows can abort with a
// serialization failure (40001) or deadlock (40P01). Both mean another writer
// won the race, so callers see the same conflict as a lost compare-and-set.
func translateTxConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return fault.New(fault.KindConflict, fault.CodeConcurrentUpdate, "transaction aborted by a concurrent update")
	}
	return err
}
