package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tbxark/leadflow/dispatch"
	"github.com/tbxark/leadflow/types"
)

type fakeInsights struct {
	mu      sync.Mutex
	release chan struct{}
	result  types.InsightList
	calls   []string
}

func (f *fakeInsights) Generate(ctx context.Context, businessName, goals string) types.InsightList {
	f.mu.Lock()
	f.calls = append(f.calls, businessName+"|"+goals)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.result
}

func (f *fakeInsights) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeDispatcher struct {
	mu       sync.Mutex
	release  chan struct{}
	errs     []error
	payloads []dispatch.Payload
}

func (f *fakeDispatcher) Send(ctx context.Context, payload dispatch.Payload) dispatch.Result {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	release := f.release
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return dispatch.Result{Err: err}
}

func (f *fakeDispatcher) Payloads() []dispatch.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dispatch.Payload(nil), f.payloads...)
}

func wait[S any](t *testing.T, p *Pending[S]) S {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := p.Wait(ctx)
	require.NoError(t, err)
	return state
}

// eventually waits for fn to report true after a call has been issued on another goroutine.
func eventually(t *testing.T, fn func() bool) {
	t.Helper()
	require.Eventually(t, fn, 5*time.Second, 5*time.Millisecond)
}
