package offer

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter selects offers for listing.
type Filter struct {
	OfferedBy     *uuid.UUID
	RequestedFrom *uuid.UUID
	Party         *uuid.UUID // either side
	ProductID     *uuid.UUID // either side
	Status        *Status
}

// Repository defines trade offer persistence. UpdateStatusIf and
// RejectPendingReferencing are conditional writes guarded by the current
// status column; they are the serialization points the accept protocol
// relies on and must not be emulated with read-then-write.
type Repository interface {
	Create(ctx context.Context, o *TradeOffer) error
	GetByID(ctx context.Context, offerID uuid.UUID) (*TradeOffer, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*TradeOffer, error)
	Update(ctx context.Context, o *TradeOffer) error

	// UpdateStatusIf transitions offerID from->to and returns whether the
	// conditional write applied.
	UpdateStatusIf(ctx context.Context, offerID uuid.UUID, from, to Status, reason *string, at time.Time) (bool, error)

	// AppendChild appends childID to the parent's child list.
	AppendChild(ctx context.Context, parentOfferID, childOfferID uuid.UUID, at time.Time) error

	// RejectPendingReferencing rejects every pending offer referencing any of
	// productIDs on either side, excluding excludeOfferID, and returns the
	// offers it rejected.
	RejectPendingReferencing(ctx context.Context, productIDs []uuid.UUID, excludeOfferID uuid.UUID, reason string, at time.Time) ([]*TradeOffer, error)

	// ListExpiredPending returns pending offers whose expiry has passed.
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*TradeOffer, error)
}
