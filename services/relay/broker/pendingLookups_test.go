package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingLookups(t *testing.T) {
	t.Parallel()

	t.Run("current token should run the handler", func(t *testing.T) {
		t.Parallel()

		pl := newPendingLookups()
		ctx, cancel := context.WithCancel(context.Background())
		token := pl.start("conn-A", cancel)
		assert.Equal(t, 1, pl.count())

		called := false
		applied := pl.complete("conn-A", token, func() {
			called = true
		})
		assert.True(t, applied)
		assert.True(t, called)
		assert.Equal(t, 0, pl.count())
		assert.Nil(t, ctx.Err())
	})
	t.Run("newer start should cancel and supersede the previous lookup", func(t *testing.T) {
		t.Parallel()

		pl := newPendingLookups()
		firstCtx, firstCancel := context.WithCancel(context.Background())
		first := pl.start("conn-A", firstCancel)
		_, secondCancel := context.WithCancel(context.Background())
		second := pl.start("conn-A", secondCancel)

		assert.NotEqual(t, first, second)
		assert.Error(t, firstCtx.Err())
		assert.False(t, pl.complete("conn-A", first, func() {
			assert.Fail(t, "should not have been called")
		}))
		assert.True(t, pl.complete("conn-A", second, func() {}))
	})
	t.Run("discard should cancel", func(t *testing.T) {
		t.Parallel()

		pl := newPendingLookups()
		ctx, cancel := context.WithCancel(context.Background())
		token := pl.start("conn-A", cancel)
		pl.discard("conn-A")
		pl.discard("conn-unknown")

		assert.Error(t, ctx.Err())
		assert.False(t, pl.complete("conn-A", token, func() {}))
	})
	t.Run("discard all should cancel everything", func(t *testing.T) {
		t.Parallel()

		pl := newPendingLookups()
		ctxA, cancelA := context.WithCancel(context.Background())
		ctxB, cancelB := context.WithCancel(context.Background())
		pl.start("conn-A", cancelA)
		pl.start("conn-B", cancelB)

		pl.discardAll()
		assert.Equal(t, 0, pl.count())
		assert.Error(t, ctxA.Err())
		assert.Error(t, ctxB.Err())
	})
}
