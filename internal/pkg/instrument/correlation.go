package instrument

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// CorrelationIDHeader is the message header carrying the correlation ID
// across process boundaries.
const CorrelationIDHeader = "x-correlation-id"

// SetCorrelationID stores the given correlation ID in the context. An empty
// value generates a fresh one, so every flow ends up with an ID.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewCorrelationID()
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the correlation ID from the context, or "" when
// none was set.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewCorrelationID generates a fresh correlation ID.
func NewCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
