package outbox

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Append persists a new pending message (typically inside a transaction,
	// so the append commits or rolls back with the business mutation).
	Append(ctx context.Context, msg *Message) error

	// FetchPending returns up to limit pending messages, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*Message, error)

	// MarkProcessed records successful dispatch. Idempotent.
	MarkProcessed(ctx context.Context, id uuid.UUID) error

	// RecordFailure increments the attempt count and stores the last error,
	// leaving the message pending for the next poll.
	RecordFailure(ctx context.Context, id uuid.UUID, dispatchErr string) error
}
