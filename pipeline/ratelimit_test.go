package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/pagemark/pagemark/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request proceeds immediately", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(1.0, 1)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("spaces out requests to the same domain", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(20.0, 1) // 50ms between requests

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("different domains do not block each other", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(1.0, 1)

		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("returns error when context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(0.1, 1) // 10s between requests

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "example.com")
		require.Error(t, err)
	})
}
