package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	owner := uuid.New()
	category := uuid.New()

	p := New(owner, "  vintage camera ", category, 120, true)

	require.NotNil(t, p)
	assert.NotEqual(t, uuid.Nil, p.ProductID)
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, "vintage camera", p.Title)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.AcceptsTradeOffers)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProduct_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     Status
		to       Status
		expected bool
	}{
		{"ACTIVE -> RESERVED", StatusActive, StatusReserved, true},
		{"ACTIVE -> SOLD", StatusActive, StatusSold, true},
		{"ACTIVE -> INACTIVE", StatusActive, StatusInactive, true},
		{"RESERVED -> ACTIVE", StatusReserved, StatusActive, true},
		{"RESERVED -> SOLD", StatusReserved, StatusSold, true},
		{"INACTIVE -> ACTIVE", StatusInactive, StatusActive, true},
		{"SOLD -> ACTIVE (invalid)", StatusSold, StatusActive, false},
		{"SOLD -> INACTIVE (invalid)", StatusSold, StatusInactive, false},
		{"INACTIVE -> SOLD (invalid)", StatusInactive, StatusSold, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(uuid.New(), "x", uuid.New(), 1, true)
			p.Status = tt.from
			assert.Equal(t, tt.expected, p.CanTransitionTo(tt.to))
		})
	}
}

func TestProduct_SetStatus(t *testing.T) {
	p := New(uuid.New(), "x", uuid.New(), 1, true)

	require.NoError(t, p.SetStatus(StatusSold))
	assert.Equal(t, StatusSold, p.Status)

	err := p.SetStatus(StatusActive)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusSold, p.Status)
}

func TestProduct_IsTradeable(t *testing.T) {
	p := New(uuid.New(), "x", uuid.New(), 1, true)
	assert.True(t, p.IsTradeable())

	p.AcceptsTradeOffers = false
	assert.False(t, p.IsTradeable())

	p.AcceptsTradeOffers = true
	p.Status = StatusSold
	assert.False(t, p.IsTradeable())
}

func TestTradePreferences_Validate(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	assert.NoError(t, (&TradePreferences{}).Validate())
	assert.NoError(t, (&TradePreferences{MinTradeValuePercentage: pct(80)}).Validate())
	assert.NoError(t, (&TradePreferences{MinTradeValuePercentage: pct(200)}).Validate())
	assert.Error(t, (&TradePreferences{MinTradeValuePercentage: pct(-1)}).Validate())
	assert.Error(t, (&TradePreferences{MinTradeValuePercentage: pct(201)}).Validate())
}

func TestTradePreferences_PrefersCategory(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	empty := &TradePreferences{}
	assert.True(t, empty.PrefersCategory(a))

	prefs := &TradePreferences{PreferredCategoryIDs: []uuid.UUID{a}}
	assert.True(t, prefs.PrefersCategory(a))
	assert.False(t, prefs.PrefersCategory(b))
}

func TestProduct_Validate(t *testing.T) {
	valid := New(uuid.New(), "x", uuid.New(), 1, true)
	require.NoError(t, valid.Validate())

	noOwner := New(uuid.Nil, "x", uuid.New(), 1, true)
	assert.Error(t, noOwner.Validate())

	noTitle := New(uuid.New(), "   ", uuid.New(), 1, true)
	assert.Error(t, noTitle.Validate())

	negPrice := New(uuid.New(), "x", uuid.New(), -5, true)
	assert.Error(t, negPrice.Validate())
}
