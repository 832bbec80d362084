package variation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorExactlyOncePerCycle(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	s := NewSelector(pool)

	seen := make(map[string]int)
	for i := 0; i < len(pool); i++ {
		seen[s.Next()]++
	}
	for _, item := range pool {
		assert.Equal(t, 1, seen[item], "item %q should appear exactly once per cycle", item)
	}
}

func TestSelectorReshufflesOnExhaustion(t *testing.T) {
	pool := []string{"x", "y", "z"}
	s := NewSelector(pool)

	// Two full cycles: each cycle contains every element exactly once.
	for cycle := 0; cycle < 2; cycle++ {
		seen := make(map[string]bool)
		for i := 0; i < len(pool); i++ {
			seen[s.Next()] = true
		}
		assert.Len(t, seen, len(pool))
	}
}

func TestSelectorBatch(t *testing.T) {
	pool := []int{1, 2, 3, 4}
	s := NewSelector(pool)

	batch := s.Batch(4)
	require.Len(t, batch, 4)
	seen := make(map[int]bool)
	for _, v := range batch {
		seen[v] = true
	}
	assert.Len(t, seen, 4)
}

func TestSelectorPeekDoesNotAdvance(t *testing.T) {
	pool := []string{"a", "b", "c"}
	s := NewSelector(pool)

	preview := s.Peek(2)
	require.Len(t, preview, 2)
	assert.Equal(t, 3, s.Remaining())

	assert.Equal(t, preview[0], s.Next())
	assert.Equal(t, preview[1], s.Next())
}

func TestSelectorPeekPastReshuffleBoundary(t *testing.T) {
	pool := []string{"a", "b"}
	s := NewSelector(pool)

	// Peeking past the permutation end must not mutate selector state.
	preview := s.Peek(5)
	require.Len(t, preview, 5)
	assert.Equal(t, 2, s.Remaining())
}

func TestSelectorReset(t *testing.T) {
	s := NewSelector([]int{1, 2, 3})
	s.Next()
	s.Next()
	assert.Equal(t, 1, s.Remaining())

	s.Reset()
	assert.Equal(t, 3, s.Remaining())
}

func TestSelectorDoesNotAliasInput(t *testing.T) {
	pool := []string{"a", "b", "c"}
	s := NewSelector(pool)
	pool[0] = "mutated"

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		seen[s.Next()] = true
	}
	assert.True(t, seen["a"], "selector should have copied the pool at construction")
}

func TestSelectorConcurrentDraws(t *testing.T) {
	pool := make([]int, 100)
	for i := range pool {
		pool[i] = i
	}
	s := NewSelector(pool)

	// 10 goroutines each draw a full pool's worth: every element must be
	// drawn exactly 10 times in total.
	var wg sync.WaitGroup
	counts := make([]int, len(pool))
	var mu sync.Mutex
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < len(pool); i++ {
				v := s.Next()
				mu.Lock()
				counts[v]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for i, c := range counts {
		assert.Equal(t, 10, c, "element %d draw count", i)
	}
}

func TestLibrarySeriesSets(t *testing.T) {
	lib := NewLibrary()
	sets := lib.SeriesSets(4)
	require.Len(t, sets, 4)

	// Pools are larger than 4, so four draws never repeat a hook.
	hooks := make(map[string]bool)
	for _, set := range sets {
		assert.NotEmpty(t, set.Hook)
		assert.NotEmpty(t, set.Voice.Name)
		assert.NotEmpty(t, set.Tone.Name)
		assert.NotEmpty(t, set.CTA)
		hooks[set.Hook] = true
	}
	assert.Len(t, hooks, 4)
}
