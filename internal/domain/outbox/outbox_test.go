package outbox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventMessage(t *testing.T) {
	payload := map[string]any{
		"user_id": "user-1",
		"plan_id": "plan-1",
	}

	msg, err := NewEventMessage("SubscriptionPurchased", payload)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, KindEvent, msg.Kind)
	assert.Equal(t, "Event:SubscriptionPurchased", msg.Type)
	assert.JSONEq(t, `{"user_id":"user-1","plan_id":"plan-1"}`, string(msg.Content))
	assert.False(t, msg.OccurredAt.IsZero())
	assert.Nil(t, msg.ProcessedAt)
	assert.Equal(t, 0, msg.AttemptCount)
	assert.Nil(t, msg.LastError)
	assert.True(t, msg.Pending())
}

func TestNewEmailMessage(t *testing.T) {
	msg, err := NewEmailMessage("SubscriptionReceipt", EmailPayload{
		To:      "user@example.com",
		Subject: "Welcome to Premium",
		Body:    "Your subscription is active.",
	})
	require.NoError(t, err)

	assert.Equal(t, KindEmail, msg.Kind)
	assert.Equal(t, "Email:SubscriptionReceipt", msg.Type)
	assert.Equal(t, "SubscriptionReceipt", msg.Name())
}

func TestNewMessage_UnmarshalablePayload(t *testing.T) {
	_, err := NewEventMessage("Broken", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestMessage_Name(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		typ  string
		want string
	}{
		{"event tag", KindEvent, "Event:SubscriptionPurchased", "SubscriptionPurchased"},
		{"email tag", KindEmail, "Email:SubscriptionReceipt", "SubscriptionReceipt"},
		{"unknown kind falls back to full tag", Kind("other"), "Other:Thing", "Other:Thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Kind: tt.kind, Type: tt.typ}
			assert.Equal(t, tt.want, m.Name())
		})
	}
}
