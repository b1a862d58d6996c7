package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents product status.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusReserved Status = "RESERVED"
	StatusSold     Status = "SOLD"
	StatusInactive Status = "INACTIVE"
)

var ErrInvalidTransition = errors.New("invalid product status transition")

// TradePreferences narrows which counter-party products a listing owner
// wants to see offered. All fields are optional.
type TradePreferences struct {
	AcceptsAnyTrade         bool        `json:"acceptsAnyTrade"`
	PreferredCategoryIDs    []uuid.UUID `json:"preferredCategoryIds,omitempty"`
	MinTradeValuePercentage *float64    `json:"minTradeValuePercentage,omitempty"`
	Note                    string      `json:"note,omitempty"`
}

// Validate checks preference bounds.
func (p *TradePreferences) Validate() error {
	if p.MinTradeValuePercentage != nil {
		v := *p.MinTradeValuePercentage
		if v < 0 || v > 200 {
			return errors.New("minTradeValuePercentage must be between 0 and 200")
		}
	}
	return nil
}

// PrefersCategory reports whether categoryID is in the preferred set.
// An empty set means no category restriction.
func (p *TradePreferences) PrefersCategory(categoryID uuid.UUID) bool {
	if len(p.PreferredCategoryIDs) == 0 {
		return true
	}
	for _, id := range p.PreferredCategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Product represents a listed good.
type Product struct {
	ID                 int64             `json:"id"`
	ProductID          uuid.UUID         `json:"productId"`
	OwnerID            uuid.UUID         `json:"ownerId"`
	Title              string            `json:"title"`
	Description        string            `json:"description,omitempty"`
	CategoryID         uuid.UUID         `json:"categoryId"`
	Price              float64           `json:"price"`
	Status             Status            `json:"status"`
	AcceptsTradeOffers bool              `json:"acceptsTradeOffers"`
	TradePreferences   *TradePreferences `json:"tradePreferences,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// New creates an active product listing.
func New(ownerID uuid.UUID, title string, categoryID uuid.UUID, price float64, acceptsTradeOffers bool) *Product {
	now := time.Now().UTC()
	return &Product{
		ProductID:          uuid.New(),
		OwnerID:            ownerID,
		Title:              strings.TrimSpace(title),
		CategoryID:         categoryID,
		Price:              price,
		Status:             StatusActive,
		AcceptsTradeOffers: acceptsTradeOffers,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Validate checks creation invariants.
func (p *Product) Validate() error {
	if p.OwnerID == uuid.Nil {
		return errors.New("owner is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title is required")
	}
	if p.Price < 0 {
		return errors.New("price must be non-negative")
	}
	if p.TradePreferences != nil {
		return p.TradePreferences.Validate()
	}
	return nil
}

// CanTransitionTo validates product status transition. SOLD is terminal:
// a sold product is never re-listed under the same identity.
func (p *Product) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusActive:   {StatusReserved, StatusSold, StatusInactive},
		StatusReserved: {StatusActive, StatusSold},
		StatusInactive: {StatusActive},
		StatusSold:     {},
	}
	allowed := transitions[p.Status]
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// SetStatus applies a validated status transition.
func (p *Product) SetStatus(target Status) error {
	if !p.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	p.Status = target
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTradeable reports whether new offers may target this product.
func (p *Product) IsTradeable() bool {
	return p.Status == StatusActive && p.AcceptsTradeOffers
}

// ValidateStatus checks a status value.
func ValidateStatus(status Status) error {
	switch status {
	case StatusActive, StatusReserved, StatusSold, StatusInactive:
		return nil
	default:
		return errors.New("invalid product status")
	}
}
