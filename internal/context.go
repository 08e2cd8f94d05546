package internal

import (
	"context"
	"time"
)

// Actor is the resolved caller identity for every core operation. The
// transport layer authenticates and builds it; the core only enforces
// role and ownership rules against it.
type Actor struct {
	UserID     int64
	EmployeeID int64 // 0 when the user has no employee record in the tenant
	TenantID   int64
	Role       string
}

type ctxKey string

const ContextActorKey ctxKey = "actor"

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	return actor, ok
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
