package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Equal(t, "req-1", GetRequestID(WithRequestID(ctx, "req-1")))
}

func TestActor(t *testing.T) {
	ctx := context.Background()
	_, ok := GetActor(ctx)
	assert.False(t, ok)
	assert.Equal(t, SystemActor, ActorOrSystem(ctx))

	ctx = WithActor(ctx, "actor-1")
	actor, ok := GetActor(ctx)
	assert.True(t, ok)
	assert.Equal(t, "actor-1", actor)
	assert.Equal(t, "actor-1", ActorOrSystem(ctx))

	_, ok = GetActor(WithActor(context.Background(), ""))
	assert.False(t, ok)
}
