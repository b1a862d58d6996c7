package offer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOffer() *TradeOffer {
	return New(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 0, "")
}

func TestNew(t *testing.T) {
	offered := uuid.New()
	requested := uuid.New()
	proposer := uuid.New()
	recipient := uuid.New()

	o := New(offered, requested, proposer, recipient, 25.5, "interested?")

	require.NotNil(t, o)
	assert.NotEqual(t, uuid.Nil, o.OfferID)
	assert.Equal(t, offered, o.OfferedProductID)
	assert.Equal(t, requested, o.RequestedProductID)
	assert.Equal(t, proposer, o.OfferedBy)
	assert.Equal(t, recipient, o.RequestedFrom)
	assert.Equal(t, 25.5, o.AdditionalCashOffer)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.IsCounterOffer)
	assert.Nil(t, o.ParentOfferID)
	assert.Empty(t, o.ChildOfferIDs)
	assert.Equal(t, o.CreatedAt.Add(DefaultTTL), o.ExpiresAt)
}

func TestTradeOffer_CanTransitionTo(t *testing.T) {
	all := []Status{StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted}
	legal := map[Status]map[Status]bool{
		StatusPending:  {StatusAccepted: true, StatusRejected: true, StatusCancelled: true},
		StatusAccepted: {StatusCompleted: true},
	}

	// Every (from, to) pair: anything outside the legal map is unreachable.
	for _, from := range all {
		for _, to := range all {
			o := newTestOffer()
			o.Status = from
			want := legal[from][to]
			assert.Equalf(t, want, o.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTradeOffer_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusAccepted, false},
		{StatusRejected, true},
		{StatusCancelled, true},
		{StatusCompleted, true},
	}
	for _, tt := range tests {
		o := newTestOffer()
		o.Status = tt.status
		assert.Equalf(t, tt.terminal, o.IsTerminal(), "status %s", tt.status)
	}
}

func TestTradeOffer_IsActionable(t *testing.T) {
	now := time.Now().UTC()

	t.Run("pending and unexpired", func(t *testing.T) {
		o := newTestOffer()
		assert.True(t, o.IsActionable(now))
	})

	t.Run("pending but expired is non-actionable before the sweep runs", func(t *testing.T) {
		o := newTestOffer()
		o.ExpiresAt = now.Add(-time.Minute)
		assert.False(t, o.IsActionable(now))
		assert.True(t, o.IsExpired(now))
	})

	t.Run("non-pending states are never actionable", func(t *testing.T) {
		for _, st := range []Status{StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted} {
			o := newTestOffer()
			o.Status = st
			assert.Falsef(t, o.IsActionable(now), "status %s", st)
		}
	})
}

func TestTradeOffer_References(t *testing.T) {
	o := newTestOffer()
	assert.True(t, o.References(o.OfferedProductID))
	assert.True(t, o.References(o.RequestedProductID))
	assert.False(t, o.References(uuid.New()))
}

func TestTradeOffer_IsParty(t *testing.T) {
	o := newTestOffer()
	assert.True(t, o.IsParty(o.OfferedBy))
	assert.True(t, o.IsParty(o.RequestedFrom))
	assert.False(t, o.IsParty(uuid.New()))
}

func TestTradeOffer_AppendChild(t *testing.T) {
	o := newTestOffer()
	a, b := uuid.New(), uuid.New()
	o.AppendChild(a)
	o.AppendChild(b)
	assert.Equal(t, []uuid.UUID{a, b}, o.ChildOfferIDs)
}

func TestTradeOffer_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, newTestOffer().Validate())
	})

	t.Run("same product on both sides", func(t *testing.T) {
		o := newTestOffer()
		o.RequestedProductID = o.OfferedProductID
		assert.Error(t, o.Validate())
	})

	t.Run("negative cash", func(t *testing.T) {
		o := newTestOffer()
		o.AdditionalCashOffer = -1
		assert.Error(t, o.Validate())
	})

	t.Run("missing party", func(t *testing.T) {
		o := newTestOffer()
		o.RequestedFrom = uuid.Nil
		assert.Error(t, o.Validate())
	})
}

func TestValidateStatus(t *testing.T) {
	for _, st := range []Status{StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted} {
		assert.NoError(t, ValidateStatus(st))
	}
	assert.Error(t, ValidateStatus(Status("OPEN")))
}
