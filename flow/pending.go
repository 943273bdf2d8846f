package flow

import (
	"context"
	"sync"
)

// Pending is the outcome of one external call issued by a controller.
// It completes once the result has been applied to its session or discarded as stale.
type Pending[S any] struct {
	ticket Ticket
	done   chan struct{}

	once    sync.Once
	state   S
	applied bool
}

func newPending[S any](ticket Ticket) *Pending[S] {
	return &Pending[S]{ticket: ticket, done: make(chan struct{})}
}

func (p *Pending[S]) Ticket() Ticket {
	return p.ticket
}

// Done is closed when the result has been handled.
func (p *Pending[S]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result has been handled and returns the controller state at that moment.
func (p *Pending[S]) Wait(ctx context.Context) (S, error) {
	select {
	case <-p.done:
		return p.state, nil
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// Applied reports whether the result reached its session. It is false until Done is closed.
func (p *Pending[S]) Applied() bool {
	select {
	case <-p.done:
		return p.applied
	default:
		return false
	}
}

func (p *Pending[S]) complete(state S, applied bool) {
	p.once.Do(func() {
		p.state = state
		p.applied = applied
		close(p.done)
	})
}
