package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pagemark/pagemark/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("reports added URLs as seen", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.False(t, f.Seen("https://example.com/a"))
		f.Add("https://example.com/a")
		assert.True(t, f.Seen("https://example.com/a"))
	})

	t.Run("no false negatives over many URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(10000, 0.001)
		for i := 0; i < 5000; i++ {
			f.Add(fmt.Sprintf("https://example.com/page/%d", i))
		}
		for i := 0; i < 5000; i++ {
			assert.True(t, f.Seen(fmt.Sprintf("https://example.com/page/%d", i)))
		}
	})

	t.Run("estimates count", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		for i := 0; i < 100; i++ {
			f.Add(fmt.Sprintf("https://example.com/%d", i))
		}

		count := f.EstimatedCount()
		assert.InDelta(t, 100, count, 10)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(10000, 0.01)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					url := fmt.Sprintf("https://example.com/%d/%d", n, j)
					f.Add(url)
					f.Seen(url)
				}
			}(i)
		}
		wg.Wait()

		assert.True(t, f.Seen("https://example.com/0/0"))
	})
}
