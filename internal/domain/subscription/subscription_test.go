package subscription

import (
	"testing"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *Plan {
	return &Plan{
		ID:           uuid.New(),
		Name:         "Premium",
		DurationDays: 30,
		PriceCents:   999,
		Currency:     "USD",
		IsActive:     true,
	}
}

func TestNewPending(t *testing.T) {
	userID := uuid.New()
	plan := testPlan()

	sub, err := NewPending(userID, plan, "sess_1")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, plan.ID, sub.PlanID)
	assert.Equal(t, "sess_1", sub.PaymentReference)
	assert.False(t, sub.IsVerified)
	assert.WithinDuration(t, sub.StartDate.AddDate(0, 0, 30), sub.EndDate, time.Second)
}

func TestNewPending_EmptyReference(t *testing.T) {
	_, err := NewPending(uuid.New(), testPlan(), "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
}

func TestMarkVerified_TransitionsOnce(t *testing.T) {
	sub, err := NewPending(uuid.New(), testPlan(), "sess_1")
	require.NoError(t, err)

	assert.True(t, sub.MarkVerified())
	assert.True(t, sub.IsVerified)

	// Second call is a no-op.
	assert.False(t, sub.MarkVerified())
	assert.True(t, sub.IsVerified)
}

func TestActive(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name     string
		verified bool
		endDate  time.Time
		want     bool
	}{
		{"verified and unexpired", true, now.Add(24 * time.Hour), true},
		{"verified but expired", true, now.Add(-time.Hour), false},
		{"unverified", false, now.Add(24 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &UserSubscription{IsVerified: tt.verified, EndDate: tt.endDate}
			assert.Equal(t, tt.want, sub.Active(now))
		})
	}
}
