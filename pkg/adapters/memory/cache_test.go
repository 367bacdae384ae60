package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestCache_Contract(t *testing.T) {
	ports.RunViewCacheContract(t, memory.NewCache())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("view-%d", i%4)
			_ = cache.Set(ctx, key, "<p></p>")
			_, _, _ = cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, cache.Len())
}
