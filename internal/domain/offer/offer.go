package offer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents trade offer status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// DefaultTTL is how long a new offer stays actionable.
const DefaultTTL = 7 * 24 * time.Hour

// ReasonProductCommitted is the system reason applied to offers that lose a
// race for a product claimed by another accepted trade.
const ReasonProductCommitted = "product committed to another trade"

// ReasonExpired is the system reason applied by the expiry sweep.
const ReasonExpired = "offer expired"

var ErrInvalidTransition = errors.New("invalid offer status transition")

// TradeOffer proposes exchanging one product for another, optionally with
// an added cash component.
type TradeOffer struct {
	ID                  int64       `json:"id"`
	OfferID             uuid.UUID   `json:"offerId"`
	OfferedProductID    uuid.UUID   `json:"offeredProductId"`
	RequestedProductID  uuid.UUID   `json:"requestedProductId"`
	OfferedBy           uuid.UUID   `json:"offeredBy"`
	RequestedFrom       uuid.UUID   `json:"requestedFrom"`
	AdditionalCashOffer float64     `json:"additionalCashOffer"`
	Status              Status      `json:"status"`
	Message             string      `json:"message,omitempty"`
	Reason              *string     `json:"reason,omitempty"`
	IsCounterOffer      bool        `json:"isCounterOffer"`
	ParentOfferID       *uuid.UUID  `json:"parentOfferId,omitempty"`
	ChildOfferIDs       []uuid.UUID `json:"childOfferIds,omitempty"`
	ExpiresAt           time.Time   `json:"expiresAt"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
	ResolvedAt          *time.Time  `json:"resolvedAt,omitempty"`
	CompletedAt         *time.Time  `json:"completedAt,omitempty"`
}

// New creates a pending offer. Parties are snapshotted from the two product
// owners at creation time and never re-derived afterwards.
func New(offeredProductID, requestedProductID, offeredBy, requestedFrom uuid.UUID, cash float64, message string) *TradeOffer {
	now := time.Now().UTC()
	return &TradeOffer{
		OfferID:             uuid.New(),
		OfferedProductID:    offeredProductID,
		RequestedProductID:  requestedProductID,
		OfferedBy:           offeredBy,
		RequestedFrom:       requestedFrom,
		AdditionalCashOffer: cash,
		Status:              StatusPending,
		Message:             message,
		ExpiresAt:           now.Add(DefaultTTL),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// CanTransitionTo validates offer status transition.
func (o *TradeOffer) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
		StatusAccepted:  {StatusCompleted},
		StatusRejected:  {},
		StatusCancelled: {},
		StatusCompleted: {},
	}
	allowed := transitions[o.Status]
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (o *TradeOffer) IsTerminal() bool {
	return o.Status == StatusRejected || o.Status == StatusCancelled || o.Status == StatusCompleted
}

// IsExpired reports whether the offer's actionable window has passed.
func (o *TradeOffer) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsActionable reports whether pending-state transitions may still be applied.
// An expired pending offer is non-actionable even before the sweep ran.
func (o *TradeOffer) IsActionable(now time.Time) bool {
	return o.Status == StatusPending && !o.IsExpired(now)
}

// References reports whether the offer carries productID on either side.
func (o *TradeOffer) References(productID uuid.UUID) bool {
	return o.OfferedProductID == productID || o.RequestedProductID == productID
}

// IsParty reports whether userID is one of the two offer parties.
func (o *TradeOffer) IsParty(userID uuid.UUID) bool {
	return o.OfferedBy == userID || o.RequestedFrom == userID
}

// AppendChild records a counter-offer id. The list is append-only.
func (o *TradeOffer) AppendChild(childID uuid.UUID) {
	o.ChildOfferIDs = append(o.ChildOfferIDs, childID)
}

// Validate checks creation invariants.
func (o *TradeOffer) Validate() error {
	if o.OfferedProductID == uuid.Nil || o.RequestedProductID == uuid.Nil {
		return errors.New("both products are required")
	}
	if o.OfferedProductID == o.RequestedProductID {
		return errors.New("offered and requested product must differ")
	}
	if o.OfferedBy == uuid.Nil || o.RequestedFrom == uuid.Nil {
		return errors.New("both parties are required")
	}
	if o.AdditionalCashOffer < 0 {
		return errors.New("additional cash offer must be non-negative")
	}
	return nil
}

// ValidateStatus checks a status value.
func ValidateStatus(status Status) error {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted:
		return nil
	default:
		return errors.New("invalid offer status")
	}
}
