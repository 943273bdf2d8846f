package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tbxark/leadflow/dispatch"
	"github.com/tbxark/leadflow/types"
)

// InsightSource produces the preview insights. *insight.Client satisfies it and never fails.
type InsightSource interface {
	Generate(ctx context.Context, businessName, goals string) types.InsightList
}

// Dispatcher delivers one email. *dispatch.Client satisfies it.
type Dispatcher interface {
	Send(ctx context.Context, payload dispatch.Payload) dispatch.Result
}

type WizardOption func(*Wizard)

func WithSlots(slots []types.Slot) WizardOption {
	return func(w *Wizard) {
		if len(slots) > 0 {
			w.slots = append([]types.Slot(nil), slots...)
		}
	}
}

func WithLogger(logger *slog.Logger) WizardOption {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver registers a callback invoked with applied states in the order they were applied.
// A state superseded before its callback ran is skipped. The callback may run on the
// goroutine that completed an external call and must not send events to the Wizard itself.
func WithObserver(fn func(WizardState)) WizardOption {
	return func(w *Wizard) {
		w.observer = fn
	}
}

// Wizard is the booking flow controller for one visitor.
// Events are serialized; external calls run on their own goroutines and
// their results are applied only if the issuing session is still current.
type Wizard struct {
	mu         sync.Mutex
	state      WizardState
	insights   InsightSource
	dispatcher Dispatcher
	slots      []types.Slot
	logger     *slog.Logger
	observer   func(WizardState)

	version   uint64
	notifyMu  sync.Mutex
	delivered uint64
}

func NewWizard(insights InsightSource, dispatcher Dispatcher, opts ...WizardOption) *Wizard {
	w := &Wizard{
		insights:   insights,
		dispatcher: dispatcher,
		slots:      append([]types.Slot(nil), types.DefaultSlots...),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state = NewWizardState(uuid.NewString(), 1, false)
	return w
}

// Slots returns the offered call times.
func (w *Wizard) Slots() []types.Slot {
	return append([]types.Slot(nil), w.slots...)
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Open starts a fresh session, prefilled with the non-empty fields of initial.
// Results of calls issued by an earlier session are discarded.
func (w *Wizard) Open(initial types.LeadForm) (WizardState, error) {
	w.mu.Lock()
	next := w.restartLocked(true)
	filled, err := next.Prefill(initial)
	if err != nil {
		w.state = next
		snap, seq := w.commitLocked()
		w.mu.Unlock()
		w.notify(snap, seq)
		return snap, err
	}
	w.state = filled
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)
	return snap, nil
}

// Reset clears the form, insights and slot and returns to Collecting. The wizard stays open.
func (w *Wizard) Reset() WizardState {
	return w.restart(true)
}

// Close dismisses the wizard. Its state is cleared exactly as Reset does.
func (w *Wizard) Close() WizardState {
	return w.restart(false)
}

func (w *Wizard) restart(open bool) WizardState {
	w.mu.Lock()
	w.state = w.restartLocked(open)
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)
	return snap
}

func (w *Wizard) restartLocked(open bool) WizardState {
	if w.state.Loading {
		w.logger.Debug("Session superseded with a call in flight", "session", w.state.Session, "step", w.state.Step)
	}
	return NewWizardState(uuid.NewString(), w.state.Generation+1, open)
}

// SetField applies an input change event to the lead form.
func (w *Wizard) SetField(pointer, value string) (WizardState, error) {
	w.mu.Lock()
	next, err := w.state.SetField(pointer, value)
	if err != nil {
		snap := w.state.clone()
		w.mu.Unlock()
		return snap, err
	}
	w.state = next
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)
	return snap, nil
}

// Submit requests insights for the collected form. On success the returned
// Pending completes once the session has moved to Previewing or the result was discarded.
// A submit while a call is in flight returns ErrBusy and issues nothing.
func (w *Wizard) Submit(ctx context.Context) (*Pending[WizardState], error) {
	w.mu.Lock()
	next, err := w.state.BeginInsights()
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.state = next
	ticket := next.Ticket()
	form := next.Form
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)

	p := newPending[WizardState](ticket)
	callCtx := context.WithoutCancel(ctx)
	go func() {
		insights := w.insights.Generate(callCtx, form.BusinessName, form.Goals)
		w.resolve(p, func(s WizardState) (WizardState, error) {
			return s.CompleteInsights(ticket, insights)
		})
	}()
	return p, nil
}

// SelectSlot records the chosen call time and sends the booking email.
// On failure the session stays in Previewing with the error set and the slot may be chosen again.
func (w *Wizard) SelectSlot(ctx context.Context, slot types.Slot) (*Pending[WizardState], error) {
	w.mu.Lock()
	next, err := w.state.BeginDispatch(slot, w.slots)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.state = next
	ticket := next.Ticket()
	payload := dispatch.BookingPayload(next.Form, next.Slot, next.Insights)
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)

	p := newPending[WizardState](ticket)
	callCtx := context.WithoutCancel(ctx)
	go func() {
		result := w.dispatcher.Send(callCtx, payload)
		w.resolve(p, func(s WizardState) (WizardState, error) {
			return s.CompleteDispatch(ticket, result.Err)
		})
	}()
	return p, nil
}

func (w *Wizard) resolve(p *Pending[WizardState], apply func(WizardState) (WizardState, error)) {
	w.mu.Lock()
	next, err := apply(w.state)
	if err != nil {
		snap := w.state.clone()
		w.mu.Unlock()
		w.logger.Debug("Discarded result", "session", p.ticket.Session, "error", err)
		p.complete(snap, false)
		return
	}
	w.state = next
	snap, seq := w.commitLocked()
	w.mu.Unlock()
	w.notify(snap, seq)
	p.complete(snap, true)
}

// commitLocked numbers the current state for delivery to the observer.
func (w *Wizard) commitLocked() (WizardState, uint64) {
	w.version++
	return w.state.clone(), w.version
}

func (w *Wizard) notify(snap WizardState, seq uint64) {
	if w.observer == nil {
		return
	}
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()
	if seq <= w.delivered {
		return
	}
	w.delivered = seq
	w.observer(snap)
}
