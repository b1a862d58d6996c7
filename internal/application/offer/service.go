package offer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/domain/fault"
	"github.com/swapmarket/swapmarket/internal/domain/notification"
	domainOffer "github.com/swapmarket/swapmarket/internal/domain/offer"
	"github.com/swapmarket/swapmarket/internal/domain/product"
)

// Service validates offer transitions and orchestrates their side effects.
// Every mutating operation is idempotent against retries: re-issuing an
// already-applied transition returns the current record unchanged.
type Service struct {
	offerRepo   domainOffer.Repository
	productRepo product.Repository
	coordinator *claim.Coordinator
	notifier    notification.Notifier
	offerTTL    time.Duration
	logger      zerolog.Logger
}

// NewService creates an offer service.
func NewService(
	offerRepo domainOffer.Repository,
	productRepo product.Repository,
	coordinator *claim.Coordinator,
	notifier notification.Notifier,
	offerTTL time.Duration,
	logger zerolog.Logger,
) *Service {
	if offerTTL <= 0 {
		offerTTL = domainOffer.DefaultTTL
	}
	return &Service{
		offerRepo:   offerRepo,
		productRepo: productRepo,
		coordinator: coordinator,
		notifier:    notifier,
		offerTTL:    offerTTL,
		logger:      logger.With().Str("service", "offer").Logger(),
	}
}

// CreateInput describes a new root or counter offer.
type CreateInput struct {
	OfferedProductID   uuid.UUID
	RequestedProductID uuid.UUID
	ProposerID         uuid.UUID
	AdditionalCash     float64
	Message            string
	ParentOfferID      *uuid.UUID
}

// Create validates and persists a new pending offer. Parties are snapshotted
// from the product owners at creation time.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domainOffer.TradeOffer, error) {
	if in.OfferedProductID == uuid.Nil || in.RequestedProductID == uuid.Nil {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, "both product ids are required")
	}
	if in.OfferedProductID == in.RequestedProductID {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, "offered and requested product must differ").WithField("requestedProductId")
	}
	if in.AdditionalCash < 0 {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, "additional cash offer must be non-negative").WithField("additionalCashOffer")
	}

	offered, err := s.productRepo.GetByID(ctx, in.OfferedProductID)
	if err != nil {
		return nil, err
	}
	if offered == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "offered product not found: %s", in.OfferedProductID).WithField("offeredProductId")
	}
	requested, err := s.productRepo.GetByID(ctx, in.RequestedProductID)
	if err != nil {
		return nil, err
	}
	if requested == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "requested product not found: %s", in.RequestedProductID).WithField("requestedProductId")
	}

	if offered.OwnerID != in.ProposerID {
		return nil, fault.New(fault.KindValidation, fault.CodeProductNotOwned, "offered product is not owned by proposer").WithField("offeredProductId")
	}
	if requested.OwnerID == in.ProposerID {
		return nil, fault.New(fault.KindValidation, fault.CodeSelfTradeNotAllowed, "cannot trade with yourself").WithField("requestedProductId")
	}
	if offered.Status != product.StatusActive {
		return nil, fault.New(fault.KindValidation, fault.CodeProductNotActive, "offered product is not active").WithField("offeredProductId")
	}
	if requested.Status != product.StatusActive {
		return nil, fault.New(fault.KindValidation, fault.CodeProductNotActive, "requested product is not active").WithField("requestedProductId")
	}
	if !requested.AcceptsTradeOffers {
		return nil, fault.New(fault.KindValidation, fault.CodeProductNotTradeable, "requested product does not accept trade offers").WithField("requestedProductId")
	}

	var parent *domainOffer.TradeOffer
	if in.ParentOfferID != nil {
		parent, err = s.offerRepo.GetByID(ctx, *in.ParentOfferID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "parent offer not found: %s", *in.ParentOfferID).WithField("parentOfferId")
		}
		if !parent.IsParty(in.ProposerID) {
			return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "only a party of the parent offer may counter")
		}
		if !parent.IsActionable(time.Now().UTC()) {
			return nil, fault.New(fault.KindValidation, fault.CodeParentOfferNotPending, "parent offer is not pending").WithField("parentOfferId")
		}
	}

	o := domainOffer.New(in.OfferedProductID, in.RequestedProductID, in.ProposerID, requested.OwnerID, in.AdditionalCash, in.Message)
	o.ExpiresAt = o.CreatedAt.Add(s.offerTTL)
	if parent != nil {
		o.IsCounterOffer = true
		o.ParentOfferID = in.ParentOfferID
	}
	if err := o.Validate(); err != nil {
		return nil, fault.New(fault.KindValidation, fault.CodeInvalidParam, err.Error())
	}

	if err := s.offerRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	if parent != nil {
		if err := s.offerRepo.AppendChild(ctx, parent.OfferID, o.OfferID, o.CreatedAt); err != nil {
			return nil, err
		}
	}

	s.notifier.Publish(notification.NewEvent(notification.EventOfferCreated, o.OfferID, o.RequestedFrom, ""))
	s.logger.Info().
		Str("offer_id", o.OfferID.String()).
		Bool("counter", o.IsCounterOffer).
		Msg("offer created")
	return o, nil
}

// Reject declines a pending offer. Only the requested-from party may reject.
func (s *Service) Reject(ctx context.Context, offerID, actorID uuid.UUID, reason *string) (*domainOffer.TradeOffer, error) {
	o, err := s.getForTransition(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actorID != o.RequestedFrom {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "only the offer recipient may reject")
	}
	if o.Status == domainOffer.StatusRejected {
		return o, nil
	}
	if err := s.requireActionable(o); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applied, err := s.offerRepo.UpdateStatusIf(ctx, offerID, domainOffer.StatusPending, domainOffer.StatusRejected, reason, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fault.New(fault.KindConflict, fault.CodeOfferAlreadyResolved, "offer was already resolved")
	}

	o, err = s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notification.NewEvent(notification.EventOfferRejected, o.OfferID, o.OfferedBy, derefReason(o.Reason)))
	s.logger.Info().Str("offer_id", offerID.String()).Msg("offer rejected")
	return o, nil
}

// Cancel withdraws a pending offer. Only the proposer may cancel.
func (s *Service) Cancel(ctx context.Context, offerID, actorID uuid.UUID) (*domainOffer.TradeOffer, error) {
	o, err := s.getForTransition(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actorID != o.OfferedBy {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "only the proposer may cancel")
	}
	if o.Status == domainOffer.StatusCancelled {
		return o, nil
	}
	if err := s.requireActionable(o); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applied, err := s.offerRepo.UpdateStatusIf(ctx, offerID, domainOffer.StatusPending, domainOffer.StatusCancelled, nil, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fault.New(fault.KindConflict, fault.CodeOfferAlreadyResolved, "offer was already resolved")
	}

	o, err = s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notification.NewEvent(notification.EventOfferCancelled, o.OfferID, o.RequestedFrom, ""))
	s.logger.Info().Str("offer_id", offerID.String()).Msg("offer cancelled")
	return o, nil
}

// Accept commits the trade. Only the requested-from party may accept; the
// atomic claim protocol is delegated to the claim coordinator.
func (s *Service) Accept(ctx context.Context, offerID, actorID uuid.UUID) (*domainOffer.TradeOffer, error) {
	o, err := s.getForTransition(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actorID != o.RequestedFrom {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "only the offer recipient may accept")
	}
	if o.Status == domainOffer.StatusAccepted {
		return o, nil
	}
	if err := s.requireActionable(o); err != nil {
		return nil, err
	}

	result, err := s.coordinator.Accept(ctx, offerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notification.NewEvent(notification.EventOfferAccepted, result.Offer.OfferID, result.Offer.OfferedBy, ""))
	for _, r := range result.Rejected {
		s.notifier.Publish(notification.NewEvent(notification.EventOfferCascadeRejected, r.OfferID, r.OfferedBy, domainOffer.ReasonProductCommitted))
		s.notifier.Publish(notification.NewEvent(notification.EventOfferCascadeRejected, r.OfferID, r.RequestedFrom, domainOffer.ReasonProductCommitted))
	}
	return result.Offer, nil
}

// Complete marks an accepted offer as completed. Either party may complete;
// products were already marked sold at accept time.
func (s *Service) Complete(ctx context.Context, offerID, actorID uuid.UUID) (*domainOffer.TradeOffer, error) {
	o, err := s.getForTransition(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !o.IsParty(actorID) {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "only an offer party may complete")
	}
	if o.Status == domainOffer.StatusCompleted {
		return o, nil
	}
	if o.Status != domainOffer.StatusAccepted {
		return nil, fault.Newf(fault.KindInvalidTransition, fault.CodeInvalidStateTransition, "cannot complete offer in status %s", o.Status)
	}

	now := time.Now().UTC()
	applied, err := s.offerRepo.UpdateStatusIf(ctx, offerID, domainOffer.StatusAccepted, domainOffer.StatusCompleted, nil, now)
	if err != nil {
		return nil, err
	}
	o, err = s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !applied {
		if o != nil && o.Status == domainOffer.StatusCompleted {
			return o, nil
		}
		return nil, fault.New(fault.KindConflict, fault.CodeOfferAlreadyResolved, "offer was already resolved")
	}

	other := o.OfferedBy
	if actorID == o.OfferedBy {
		other = o.RequestedFrom
	}
	s.notifier.Publish(notification.NewEvent(notification.EventOfferCompleted, o.OfferID, other, ""))
	s.logger.Info().Str("offer_id", offerID.String()).Msg("offer completed")
	return o, nil
}

// Get returns an offer visible to one of its parties.
func (s *Service) Get(ctx context.Context, offerID, actorID uuid.UUID) (*domainOffer.TradeOffer, error) {
	o, err := s.getForTransition(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !o.IsParty(actorID) {
		return nil, fault.New(fault.KindUnauthorized, fault.CodeNotOfferParty, "not a party of this offer")
	}
	return o, nil
}

// ListDirection selects which side of the actor's offers to list.
type ListDirection string

const (
	DirectionAll      ListDirection = "all"
	DirectionIncoming ListDirection = "incoming"
	DirectionOutgoing ListDirection = "outgoing"
)

// List returns the actor's offers, newest first.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, direction ListDirection, status *domainOffer.Status, limit, offset int) ([]*domainOffer.TradeOffer, error) {
	filter := domainOffer.Filter{Status: status}
	switch direction {
	case DirectionIncoming:
		filter.RequestedFrom = &actorID
	case DirectionOutgoing:
		filter.OfferedBy = &actorID
	default:
		filter.Party = &actorID
	}
	return s.offerRepo.List(ctx, filter, limit, offset)
}

// ExpirePending sweeps expired pending offers into CANCELLED with a system
// reason. Transition checks already treat expired offers as non-actionable,
// so the sweep is a cleanup, not a correctness requirement.
func (s *Service) ExpirePending(ctx context.Context, now time.Time, limit int) (int, error) {
	expired, err := s.offerRepo.ListExpiredPending(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, o := range expired {
		reason := domainOffer.ReasonExpired
		applied, err := s.offerRepo.UpdateStatusIf(ctx, o.OfferID, domainOffer.StatusPending, domainOffer.StatusCancelled, &reason, now)
		if err != nil {
			s.logger.Warn().Err(err).Str("offer_id", o.OfferID.String()).Msg("failed to expire offer")
			continue
		}
		if applied {
			count++
			s.notifier.Publish(notification.NewEvent(notification.EventOfferExpired, o.OfferID, o.OfferedBy, reason))
		}
	}
	return count, nil
}

func (s *Service) getForTransition(ctx context.Context, offerID uuid.UUID) (*domainOffer.TradeOffer, error) {
	o, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fault.Newf(fault.KindNotFound, fault.CodeNotFound, "offer not found: %s", offerID)
	}
	return o, nil
}

func (s *Service) requireActionable(o *domainOffer.TradeOffer) error {
	if o.Status != domainOffer.StatusPending {
		return fault.Newf(fault.KindInvalidTransition, fault.CodeInvalidStateTransition, "offer is %s, not PENDING", o.Status)
	}
	if o.IsExpired(time.Now().UTC()) {
		return fault.New(fault.KindInvalidTransition, fault.CodeOfferExpired, "offer has expired")
	}
	return nil
}

func derefReason(r *string) string {
	if r == nil {
		return ""
	}
	return *r
}
