package services

import (
	"context"
	"log"
	"sync"

	"github.com/ajramos/giztriage/internal/cache"
)

// ViewPhase is where a view is in its load cycle
type ViewPhase int

const (
	PhaseIdle ViewPhase = iota
	PhaseLoading
	PhaseError
)

func (p ViewPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ViewState is a view's load phase plus the message shown on error
type ViewState struct {
	Phase   ViewPhase
	Message string
	// Retryable marks a failure that a refresh may clear
	Retryable bool
}

// Idle is the resting state
func Idle() ViewState { return ViewState{Phase: PhaseIdle} }

// Loading is the state while a call is in flight
func Loading() ViewState { return ViewState{Phase: PhaseLoading} }

// Failed is the state after a call failed
func Failed(message string) ViewState { return ViewState{Phase: PhaseError, Message: message} }

// IsLoading reports whether a call is in flight
func (s ViewState) IsLoading() bool { return s.Phase == PhaseLoading }

// IsError reports whether the last call failed
func (s ViewState) IsError() bool { return s.Phase == PhaseError }

// collection is the mutable list and load state behind one view. Backend
// results land on arbitrary goroutines, so every access goes through mu.
type collection[T any] struct {
	mu       sync.RWMutex
	items    []T
	state    ViewState
	pending  int
	onChange func()

	// persistMu serializes cache writes so the last write is always the
	// latest collection
	persistMu sync.Mutex
	cache     *cache.ViewCache[T]
	logger    *log.Logger
}

func newCollection[T any](vc *cache.ViewCache[T], logger *log.Logger) *collection[T] {
	return &collection[T]{state: Idle(), cache: vc, logger: logger}
}

func (c *collection[T]) setOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) viewState() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// begin marks a call in flight
func (c *collection[T]) begin() {
	c.mu.Lock()
	c.pending++
	c.state = Loading()
	fn := c.onChange
	c.mu.Unlock()
	c.notify(fn)
}

// finish applies a successful result. apply runs under the lock against the
// collection as it is now, not as it was when the call started.
func (c *collection[T]) finish(apply func(current []T) []T) {
	c.mu.Lock()
	if c.pending > 0 {
		c.pending--
	}
	c.items = apply(c.items)
	if c.pending == 0 {
		c.state = Idle()
	}
	fn := c.onChange
	c.mu.Unlock()
	c.notify(fn)
}

// fail records an error without touching the items
func (c *collection[T]) fail(message string, err error) {
	c.logf("%s: %v", message, err)
	c.mu.Lock()
	if c.pending > 0 {
		c.pending--
	}
	c.state = Failed(message)
	c.state.Retryable = IsRetryableError(err)
	fn := c.onChange
	c.mu.Unlock()
	c.notify(fn)
}

// restore loads the cached collection. It reports false on a miss.
func (c *collection[T]) restore(ctx context.Context) bool {
	if c.cache == nil {
		return false
	}
	items, ok := c.cache.Load(ctx)
	if !ok {
		return false
	}
	c.mu.Lock()
	c.items = items
	if c.pending == 0 {
		c.state = Idle()
	}
	fn := c.onChange
	c.mu.Unlock()
	c.notify(fn)
	return true
}

// persist writes the current collection to the cache
func (c *collection[T]) persist(ctx context.Context) {
	if c.cache == nil {
		return
	}
	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	if err := c.cache.Save(ctx, c.snapshot()); err != nil {
		c.logf("cache %s: %v", c.cache.Key(), err)
	}
}

func (c *collection[T]) notify(fn func()) {
	if fn != nil {
		fn()
	}
}

func (c *collection[T]) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
