// Package memstore is an in-memory entity store backed by a single mutex.
// It implements the same repository contracts as the postgres store and is
// used by tests and local development.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/domain/offer"
	"github.com/swapmarket/swapmarket/internal/domain/product"
)

type state struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product
	offers   map[uuid.UUID]*offer.TradeOffer
	seq      int64
}

// Store is a handle onto the shared state. Handles created by WithinTx skip
// locking because the transaction already holds the mutex.
type Store struct {
	st   *state
	inTx bool
}

// New creates an empty store.
func New() *Store {
	return &Store{st: &state{
		products: make(map[uuid.UUID]*product.Product),
		offers:   make(map[uuid.UUID]*offer.TradeOffer),
	}}
}

// Offers returns the offer repository view.
func (s *Store) Offers() offer.Repository { return offerRepo{s} }

// Products returns the product repository view.
func (s *Store) Products() product.Repository { return productRepo{s} }

// WithinTx runs fn while holding the store mutex, serializing it against all
// other operations. There is no rollback; callers compensate partial writes
// themselves, which is race-free under the single-writer guarantee.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, cs claim.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(ctx, &Store{st: s.st, inTx: true})
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *Store) nextSeq() int64 {
	s.st.seq++
	return s.st.seq
}

// --- products ---

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, p *product.Product) error {
	defer r.s.lock()()
	p.ID = r.s.nextSeq()
	r.s.st.products[p.ProductID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.st.products[productID]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r productRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*product.Product, error) {
	defer r.s.lock()()
	var out []*product.Product
	for _, p := range r.s.st.products {
		if p.OwnerID == ownerID {
			out = append(out, cloneProduct(p))
		}
	}
	sortProductsNewest(out)
	return window(out, limit, offset), nil
}

func (r productRepo) ListCandidates(ctx context.Context, filter product.CandidateFilter) ([]*product.Product, error) {
	defer r.s.lock()()
	var out []*product.Product
	for _, p := range r.s.st.products {
		if p.OwnerID == filter.ExcludeOwnerID || p.Status != product.StatusActive || !p.AcceptsTradeOffers {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !containsID(filter.CategoryIDs, p.CategoryID) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sortProductsNewest(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r productRepo) Update(ctx context.Context, p *product.Product) error {
	defer r.s.lock()()
	if _, ok := r.s.st.products[p.ProductID]; !ok {
		return nil
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.st.products[p.ProductID] = cloneProduct(p)
	return nil
}

func (r productRepo) UpdateStatusIf(ctx context.Context, productID uuid.UUID, from, to product.Status) (bool, error) {
	defer r.s.lock()()
	p, ok := r.s.st.products[productID]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

// --- offers ---

type offerRepo struct{ s *Store }

func (r offerRepo) Create(ctx context.Context, o *offer.TradeOffer) error {
	defer r.s.lock()()
	o.ID = r.s.nextSeq()
	r.s.st.offers[o.OfferID] = cloneOffer(o)
	return nil
}

func (r offerRepo) GetByID(ctx context.Context, offerID uuid.UUID) (*offer.TradeOffer, error) {
	defer r.s.lock()()
	o, ok := r.s.st.offers[offerID]
	if !ok {
		return nil, nil
	}
	return cloneOffer(o), nil
}

func (r offerRepo) List(ctx context.Context, filter offer.Filter, limit, offset int) ([]*offer.TradeOffer, error) {
	defer r.s.lock()()
	var out []*offer.TradeOffer
	for _, o := range r.s.st.offers {
		if !matchesFilter(o, filter) {
			continue
		}
		out = append(out, cloneOffer(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return windowOffers(out, limit, offset), nil
}

func (r offerRepo) Update(ctx context.Context, o *offer.TradeOffer) error {
	defer r.s.lock()()
	if _, ok := r.s.st.offers[o.OfferID]; !ok {
		return nil
	}
	o.UpdatedAt = time.Now().UTC()
	r.s.st.offers[o.OfferID] = cloneOffer(o)
	return nil
}

func (r offerRepo) UpdateStatusIf(ctx context.Context, offerID uuid.UUID, from, to offer.Status, reason *string, at time.Time) (bool, error) {
	defer r.s.lock()()
	o, ok := r.s.st.offers[offerID]
	if !ok || o.Status != from {
		return false, nil
	}
	applyStatus(o, to, reason, at)
	return true, nil
}

func (r offerRepo) AppendChild(ctx context.Context, parentOfferID, childOfferID uuid.UUID, at time.Time) error {
	defer r.s.lock()()
	p, ok := r.s.st.offers[parentOfferID]
	if !ok {
		return nil
	}
	p.AppendChild(childOfferID)
	p.UpdatedAt = at
	return nil
}

func (r offerRepo) RejectPendingReferencing(ctx context.Context, productIDs []uuid.UUID, excludeOfferID uuid.UUID, reason string, at time.Time) ([]*offer.TradeOffer, error) {
	defer r.s.lock()()
	var rejected []*offer.TradeOffer
	for _, o := range r.s.st.offers {
		if o.OfferID == excludeOfferID || o.Status != offer.StatusPending {
			continue
		}
		refs := false
		for _, pid := range productIDs {
			if o.References(pid) {
				refs = true
				break
			}
		}
		if !refs {
			continue
		}
		rr := reason
		applyStatus(o, offer.StatusRejected, &rr, at)
		rejected = append(rejected, cloneOffer(o))
	}
	return rejected, nil
}

func (r offerRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*offer.TradeOffer, error) {
	defer r.s.lock()()
	var out []*offer.TradeOffer
	for _, o := range r.s.st.offers {
		if o.Status == offer.StatusPending && o.IsExpired(now) {
			out = append(out, cloneOffer(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- helpers ---

func applyStatus(o *offer.TradeOffer, to offer.Status, reason *string, at time.Time) {
	o.Status = to
	o.UpdatedAt = at
	switch to {
	case offer.StatusAccepted, offer.StatusRejected, offer.StatusCancelled:
		t := at
		o.ResolvedAt = &t
		if reason != nil {
			r := *reason
			o.Reason = &r
		}
	case offer.StatusCompleted:
		t := at
		o.CompletedAt = &t
	case offer.StatusPending:
		o.ResolvedAt = nil
		o.Reason = nil
	}
}

func matchesFilter(o *offer.TradeOffer, f offer.Filter) bool {
	if f.OfferedBy != nil && o.OfferedBy != *f.OfferedBy {
		return false
	}
	if f.RequestedFrom != nil && o.RequestedFrom != *f.RequestedFrom {
		return false
	}
	if f.Party != nil && !o.IsParty(*f.Party) {
		return false
	}
	if f.ProductID != nil && !o.References(*f.ProductID) {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	return true
}

func cloneProduct(p *product.Product) *product.Product {
	cp := *p
	if p.TradePreferences != nil {
		prefs := *p.TradePreferences
		prefs.PreferredCategoryIDs = append([]uuid.UUID(nil), p.TradePreferences.PreferredCategoryIDs...)
		cp.TradePreferences = &prefs
	}
	return &cp
}

func cloneOffer(o *offer.TradeOffer) *offer.TradeOffer {
	co := *o
	co.ChildOfferIDs = append([]uuid.UUID(nil), o.ChildOfferIDs...)
	if o.Reason != nil {
		r := *o.Reason
		co.Reason = &r
	}
	if o.ParentOfferID != nil {
		p := *o.ParentOfferID
		co.ParentOfferID = &p
	}
	if o.ResolvedAt != nil {
		t := *o.ResolvedAt
		co.ResolvedAt = &t
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		co.CompletedAt = &t
	}
	return &co
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func sortProductsNewest(ps []*product.Product) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
}

func window(ps []*product.Product, limit, offset int) []*product.Product {
	if offset >= len(ps) {
		return []*product.Product{}
	}
	ps = ps[offset:]
	if limit > 0 && len(ps) > limit {
		ps = ps[:limit]
	}
	return ps
}

func windowOffers(os []*offer.TradeOffer, limit, offset int) []*offer.TradeOffer {
	if offset >= len(os) {
		return []*offer.TradeOffer{}
	}
	os = os[offset:]
	if limit > 0 && len(os) > limit {
		os = os[:limit]
	}
	return os
}
