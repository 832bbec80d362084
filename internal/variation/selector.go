// Package variation provides no-repeat random sampling over fixed pools of
// stylistic options, used to diversify prompts across generations.
package variation

import (
	"math/rand"
	"sync"
)

// Selector draws from a finite pool in a random order, guaranteeing that no
// element repeats until the whole pool has been exhausted, at which point a
// fresh permutation is drawn. Selector instances are shared process-wide, so
// the cursor advance is guarded by a mutex.
type Selector[T any] struct {
	mu       sync.Mutex
	items    []T
	shuffled []T
	cursor   int
}

// NewSelector copies the pool and shuffles it.
func NewSelector[T any](items []T) *Selector[T] {
	s := &Selector[T]{items: append([]T(nil), items...)}
	s.shuffled = shuffled(s.items)
	return s
}

// shuffled returns a fresh uniformly random permutation of items.
func shuffled[T any](items []T) []T {
	out := append([]T(nil), items...)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Next returns the next element of the current permutation, reshuffling once
// the permutation is exhausted. Between two reshuffles every pool element is
// returned exactly once.
func (s *Selector[T]) Next() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

func (s *Selector[T]) nextLocked() T {
	if s.cursor >= len(s.shuffled) {
		s.shuffled = shuffled(s.items)
		s.cursor = 0
	}
	item := s.shuffled[s.cursor]
	s.cursor++
	return item
}

// Batch returns n sequential draws. A batch larger than the pool spans a
// reshuffle boundary and may therefore contain repeats.
func (s *Selector[T]) Batch(n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.nextLocked())
	}
	return out
}

// Peek previews the next n draws without advancing the selector. The preview
// replays the reshuffle-on-exhaustion rule against private copies, so peeking
// past the end of the current permutation is allowed.
func (s *Selector[T]) Peek(n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, n)
	cursor := s.cursor
	window := s.shuffled
	for i := 0; i < n; i++ {
		if cursor >= len(window) {
			window = shuffled(s.items)
			cursor = 0
		}
		out = append(out, window[cursor])
		cursor++
	}
	return out
}

// Reset discards the current permutation and reshuffles.
func (s *Selector[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffled = shuffled(s.items)
	s.cursor = 0
}

// Remaining reports how many draws are left before the next reshuffle.
func (s *Selector[T]) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shuffled) - s.cursor
}

// Size returns the pool size.
func (s *Selector[T]) Size() int {
	return len(s.items)
}
