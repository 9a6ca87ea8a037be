package pubsub

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	ctx := context.Background()
	h := NewHub()

	a, releaseA, err := h.Watch(ctx, "u1", domain.CollectionItera)
	require.NoError(t, err)
	b, releaseB, err := h.Watch(ctx, "u1", domain.CollectionItera)
	require.NoError(t, err)
	other, releaseOther, err := h.Watch(ctx, "u1", domain.CollectionHabits)
	require.NoError(t, err)
	defer releaseOther()

	assert.Equal(t, 3, h.Watchers())

	require.NoError(t, h.Publish(ctx, "u1", domain.CollectionItera))
	require.NoError(t, h.Publish(ctx, "u1", domain.CollectionItera))

	assert.Len(t, a, 1, "signals coalesce")
	assert.Len(t, b, 1)
	assert.Len(t, other, 0)

	releaseA()
	releaseA()
	<-a
	_, ok := <-a
	assert.False(t, ok)

	releaseB()
	assert.Equal(t, 1, h.Watchers())

	require.NoError(t, h.Publish(ctx, "u1", domain.CollectionItera))
}
