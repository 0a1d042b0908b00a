package importing

import (
	"context"
	"sync"
)

// Completion is a single-assignment handle for one import's terminal result.
// It is resolved or failed exactly once; every Await observes the same
// outcome, including callers that register after completion.
type Completion struct {
	done chan struct{}
	once sync.Once

	result *ImportFinishedContext
	err    error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolvedCompletion returns a handle that is already settled, for callers
// that ask after the import finished.
func resolvedCompletion(result *ImportFinishedContext) *Completion {
	c := newCompletion()
	c.resolve(result)
	return c
}

func (c *Completion) resolve(result *ImportFinishedContext) {
	c.once.Do(func() {
		c.result = result
		close(c.done)
	})
}

func (c *Completion) fail(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once the import has terminated.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Await blocks until the import terminates or ctx is done.
func (c *Completion) Await(ctx context.Context) (*ImportFinishedContext, error) {
	select {
	case <-c.done:
		return c.result, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the settled outcome without blocking. ok is false while the
// import is still running.
func (c *Completion) Result() (result *ImportFinishedContext, err error, ok bool) {
	select {
	case <-c.done:
		return c.result, c.err, true
	default:
		return nil, nil, false
	}
}
