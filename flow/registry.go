package flow

import (
	"context"
	"errors"
	"sync"
)

// ErrNoVisitor indicates the context carries no visitor key.
var ErrNoVisitor = errors.New("visitor key not found in context")

type visitorKeyContext struct{}

// WithVisitorKey sets the key that routes events to one visitor's controllers.
func WithVisitorKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, visitorKeyContext{}, key)
}

// VisitorKeyFromContext gets the visitor key from the context.
func VisitorKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(visitorKeyContext{}).(string)
	return key, ok && key != ""
}

// Registry hands out one Wizard and one Contact per visitor, created on first use.
type Registry struct {
	mu         sync.Mutex
	wizards    Cache[*Wizard]
	contacts   Cache[*Contact]
	newWizard  func() *Wizard
	newContact func() *Contact
}

func NewRegistry(newWizard func() *Wizard, newContact func() *Contact) *Registry {
	return &Registry{
		wizards:    NewMemoryCache[*Wizard](),
		contacts:   NewMemoryCache[*Contact](),
		newWizard:  newWizard,
		newContact: newContact,
	}
}

// NewRegistryWithCache is NewRegistry backed by caller supplied caches.
func NewRegistryWithCache(wizards Cache[*Wizard], contacts Cache[*Contact], newWizard func() *Wizard, newContact func() *Contact) *Registry {
	return &Registry{
		wizards:    wizards,
		contacts:   contacts,
		newWizard:  newWizard,
		newContact: newContact,
	}
}

func (r *Registry) Wizard(ctx context.Context) (*Wizard, error) {
	return getOrCreate(ctx, &r.mu, r.wizards, r.newWizard)
}

func (r *Registry) Contact(ctx context.Context) (*Contact, error) {
	return getOrCreate(ctx, &r.mu, r.contacts, r.newContact)
}

// Forget closes and drops the visitor's controllers.
func (r *Registry) Forget(ctx context.Context) error {
	key, ok := VisitorKeyFromContext(ctx)
	if !ok {
		return ErrNoVisitor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, found, err := r.wizards.Get(ctx, key); err != nil {
		return err
	} else if found {
		w.Close()
	}
	if c, found, err := r.contacts.Get(ctx, key); err != nil {
		return err
	} else if found {
		c.Close()
	}
	if err := r.wizards.Del(ctx, key); err != nil {
		return err
	}
	return r.contacts.Del(ctx, key)
}

func getOrCreate[S any](ctx context.Context, mu *sync.Mutex, cache Cache[S], create func() S) (S, error) {
	var zero S
	key, ok := VisitorKeyFromContext(ctx)
	if !ok {
		return zero, ErrNoVisitor
	}
	mu.Lock()
	defer mu.Unlock()
	val, found, err := cache.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if found {
		return val, nil
	}
	val = create()
	if err := cache.Set(ctx, key, val); err != nil {
		return zero, err
	}
	return val, nil
}
