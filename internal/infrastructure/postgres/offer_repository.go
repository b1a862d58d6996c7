package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/swapmarket/swapmarket/internal/domain/offer"
)

const offerColumns = `id, offer_id, offered_product_id, requested_product_id, offered_by, requested_from, additional_cash_offer, status, message, reason, is_counter_offer, parent_offer_id, child_offer_ids, expires_at, created_at, updated_at, resolved_at, completed_at`

// OfferRepository implements offer.Repository.
type OfferRepository struct {
	q Querier
}

func NewOfferRepository(q Querier) *OfferRepository {
	return &OfferRepository{q: q}
}

func (r *OfferRepository) Create(ctx context.Context, o *offer.TradeOffer) error {
	childIDs := o.ChildOfferIDs
	if childIDs == nil {
		childIDs = []uuid.UUID{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO trade_offers (offer_id, offered_product_id, requested_product_id, offered_by, requested_from, additional_cash_offer, status, message, reason, is_counter_offer, parent_offer_id, child_offer_ids, expires_at, created_at, updated_at, resolved_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, o.OfferID, o.OfferedProductID, o.RequestedProductID, o.OfferedBy, o.RequestedFrom, o.AdditionalCashOffer, o.Status, o.Message, o.Reason, o.IsCounterOffer, o.ParentOfferID, childIDs, o.ExpiresAt, o.CreatedAt, o.UpdatedAt, o.ResolvedAt, o.CompletedAt)
	return err
}

func (r *OfferRepository) GetByID(ctx context.Context, offerID uuid.UUID) (*offer.TradeOffer, error) {
	row := r.q.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM trade_offers WHERE offer_id=$1
	`, offerID)
	return scanOffer(row)
}

func (r *OfferRepository) List(ctx context.Context, filter offer.Filter, limit, offset int) ([]*offer.TradeOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM trade_offers`
	args := []interface{}{}
	where := ""
	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	if filter.OfferedBy != nil {
		args = append(args, *filter.OfferedBy)
		and("offered_by=$" + strconv.Itoa(len(args)))
	}
	if filter.RequestedFrom != nil {
		args = append(args, *filter.RequestedFrom)
		and("requested_from=$" + strconv.Itoa(len(args)))
	}
	if filter.Party != nil {
		args = append(args, *filter.Party)
		n := strconv.Itoa(len(args))
		and("(offered_by=$" + n + " OR requested_from=$" + n + ")")
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		n := strconv.Itoa(len(args))
		and("(offered_product_id=$" + n + " OR requested_product_id=$" + n + ")")
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		and("status=$" + strconv.Itoa(len(args)))
	}
	query += where + " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func (r *OfferRepository) Update(ctx context.Context, o *offer.TradeOffer) error {
	childIDs := o.ChildOfferIDs
	if childIDs == nil {
		childIDs = []uuid.UUID{}
	}
	_, err := r.q.Exec(ctx, `
		UPDATE trade_offers
		SET status=$1, message=$2, reason=$3, child_offer_ids=$4, expires_at=$5, updated_at=$6, resolved_at=$7, completed_at=$8
		WHERE offer_id=$9
	`, o.Status, o.Message, o.Reason, childIDs, o.ExpiresAt, o.UpdatedAt, o.ResolvedAt, o.CompletedAt, o.OfferID)
	return err
}

// UpdateStatusIf is a single conditional UPDATE guarded by the current
// status, which makes it safe under concurrent writers without row locks.
func (r *OfferRepository) UpdateStatusIf(ctx context.Context, offerID uuid.UUID, from, to offer.Status, reason *string, at time.Time) (bool, error) {
	var tag pgconn.CommandTag
	var err error
	switch to {
	case offer.StatusAccepted, offer.StatusRejected, offer.StatusCancelled:
		tag, err = r.q.Exec(ctx, `
			UPDATE trade_offers SET status=$1, reason=$2, resolved_at=$3, updated_at=$3
			WHERE offer_id=$4 AND status=$5
		`, to, reason, at, offerID, from)
	case offer.StatusCompleted:
		tag, err = r.q.Exec(ctx, `
			UPDATE trade_offers SET status=$1, completed_at=$2, updated_at=$2
			WHERE offer_id=$3 AND status=$4
		`, to, at, offerID, from)
	default:
		// Revert to PENDING clears resolution fields.
		tag, err = r.q.Exec(ctx, `
			UPDATE trade_offers SET status=$1, reason=NULL, resolved_at=NULL, updated_at=$2
			WHERE offer_id=$3 AND status=$4
		`, to, at, offerID, from)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OfferRepository) AppendChild(ctx context.Context, parentOfferID, childOfferID uuid.UUID, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE trade_offers SET child_offer_ids = array_append(child_offer_ids, $1), updated_at=$2
		WHERE offer_id=$3
	`, childOfferID, at, parentOfferID)
	return err
}

func (r *OfferRepository) RejectPendingReferencing(ctx context.Context, productIDs []uuid.UUID, excludeOfferID uuid.UUID, reason string, at time.Time) ([]*offer.TradeOffer, error) {
	rows, err := r.q.Query(ctx, `
		UPDATE trade_offers SET status=$1, reason=$2, resolved_at=$3, updated_at=$3
		WHERE status=$4
		AND offer_id <> $5
		AND (offered_product_id = ANY($6) OR requested_product_id = ANY($6))
		RETURNING `+offerColumns+`
	`, offer.StatusRejected, reason, at, offer.StatusPending, excludeOfferID, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func (r *OfferRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*offer.TradeOffer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+offerColumns+`
		FROM trade_offers
		WHERE status=$1 AND expires_at < $2
		ORDER BY expires_at ASC
		LIMIT $3
	`, offer.StatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func scanOffer(row pgx.Row) (*offer.TradeOffer, error) {
	var o offer.TradeOffer
	var childIDs []uuid.UUID
	if err := row.Scan(&o.ID, &o.OfferID, &o.OfferedProductID, &o.RequestedProductID, &o.OfferedBy, &o.RequestedFrom, &o.AdditionalCashOffer, &o.Status, &o.Message, &o.Reason, &o.IsCounterOffer, &o.ParentOfferID, &childIDs, &o.ExpiresAt, &o.CreatedAt, &o.UpdatedAt, &o.ResolvedAt, &o.CompletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	o.ChildOfferIDs = childIDs
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]*offer.TradeOffer, error) {
	var offers []*offer.TradeOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
