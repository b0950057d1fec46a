package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorKey     ctxKey = "actor"
)

// SystemActor is recorded when no caller identity is available.
const SystemActor = "system"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// GetActor returns the authenticated actor and whether one was set.
func GetActor(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(actorKey).(string)
	return value, ok && value != ""
}

// ActorOrSystem is GetActor falling back to SystemActor.
func ActorOrSystem(ctx context.Context) string {
	if actor, ok := GetActor(ctx); ok {
		return actor
	}
	return SystemActor
}
