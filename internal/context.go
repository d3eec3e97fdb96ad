package internal

import (
	"context"
	"time"
)

type ctxKey string

// ContextActorKey holds the authenticated administrative identity, when the
// upstream token was present and valid. Handlers treat a missing actor as
// "audit gating off", never as a request failure.
const ContextActorKey ctxKey = "actor"

// Actor is the minimal identity attached to administrative requests.
type Actor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	if actor, ok := ctx.Value(ContextActorKey).(*Actor); ok && actor != nil {
		return actor, true
	}
	return nil, false
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
