package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tbxark/leadflow/dispatch"
	"github.com/tbxark/leadflow/types"
)

type ContactOption func(*Contact)

func WithContactLogger(logger *slog.Logger) ContactOption {
	return func(c *Contact) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContactObserver registers a callback invoked with applied states in the order they were applied.
// It must not send events to the Contact itself.
func WithContactObserver(fn func(ContactState)) ContactOption {
	return func(c *Contact) {
		c.observer = fn
	}
}

// Contact is the standalone contact page controller for one visitor.
type Contact struct {
	mu         sync.Mutex
	state      ContactState
	dispatcher Dispatcher
	logger     *slog.Logger
	observer   func(ContactState)

	version   uint64
	notifyMu  sync.Mutex
	delivered uint64
}

func NewContact(dispatcher Dispatcher, opts ...ContactOption) *Contact {
	c := &Contact{
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewContactState(uuid.NewString(), 1)
	return c
}

func (c *Contact) Snapshot() ContactState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Contact) SetField(pointer, value string) (ContactState, error) {
	c.mu.Lock()
	next, err := c.state.SetField(pointer, value)
	if err != nil {
		snap := c.state
		c.mu.Unlock()
		return snap, err
	}
	c.state = next
	snap, seq := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap, seq)
	return snap, nil
}

// Submit sends the message. A failed send returns the form to Editing with every field kept.
func (c *Contact) Submit(ctx context.Context) (*Pending[ContactState], error) {
	c.mu.Lock()
	next, err := c.state.BeginSend()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.state = next
	ticket := next.Ticket()
	payload := dispatch.ContactPayload(next.Form)
	snap, seq := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap, seq)

	p := newPending[ContactState](ticket)
	callCtx := context.WithoutCancel(ctx)
	go func() {
		result := c.dispatcher.Send(callCtx, payload)
		c.mu.Lock()
		applied, err := c.state.CompleteSend(ticket, result.Err)
		if err != nil {
			snap := c.state
			c.mu.Unlock()
			c.logger.Debug("Discarded result", "session", ticket.Session, "error", err)
			p.complete(snap, false)
			return
		}
		c.state = applied
		snap, seq := c.commitLocked()
		c.mu.Unlock()
		c.notify(snap, seq)
		p.complete(snap, true)
	}()
	return p, nil
}

// SendAnother clears the form after a successful send.
func (c *Contact) SendAnother() (ContactState, error) {
	c.mu.Lock()
	if c.state.Step != types.ContactSent {
		snap := c.state
		c.mu.Unlock()
		return snap, ErrWrongStep
	}
	c.state = NewContactState(uuid.NewString(), c.state.Generation+1)
	snap, seq := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap, seq)
	return snap, nil
}

// Close clears the page state. A send still in flight is not cancelled; its result is discarded.
func (c *Contact) Close() ContactState {
	c.mu.Lock()
	if c.state.Loading {
		c.logger.Debug("Session superseded with a call in flight", "session", c.state.Session)
	}
	c.state = NewContactState(uuid.NewString(), c.state.Generation+1)
	snap, seq := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap, seq)
	return snap
}

func (c *Contact) commitLocked() (ContactState, uint64) {
	c.version++
	return c.state, c.version
}

func (c *Contact) notify(snap ContactState, seq uint64) {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.delivered {
		return
	}
	c.delivered = seq
	c.observer(snap)
}
