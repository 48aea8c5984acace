package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int
	err    error
	since  time.Time
	calls  int
}

func (f *fakeCounter) CountSentSinceByTenant(_ context.Context, tenantIDs []string, since time.Time) (map[string]int, error) {
	f.calls++
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int, len(tenantIDs))
	for _, id := range tenantIDs {
		out[id] = f.counts[id]
	}
	return out, nil
}

type staticTenants []string

func (s staticTenants) Tenants() []string { return s }

type recordingSink struct {
	mu  sync.Mutex
	got map[string]int
}

func (r *recordingSink) SetQuotaUsed(tenantID string, used int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.got == nil {
		r.got = map[string]int{}
	}
	r.got[tenantID] = used
}

func TestQuotaGaugeWorker_Refresh(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	counter := &fakeCounter{counts: map[string]int{"acme": 7}}
	sink := &recordingSink{}

	w := NewQuotaGaugeWorker(counter, staticTenants{"acme", "globex"}, sink, loc, nil)
	w.now = func() time.Time { return time.Date(2026, 3, 10, 14, 30, 0, 0, loc) }

	w.refresh(context.Background())

	require.Equal(t, 1, counter.calls)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), counter.since)
	assert.Equal(t, map[string]int{"acme": 7, "globex": 0}, sink.got)
}

func TestQuotaGaugeWorker_NoTenantsSkipsQuery(t *testing.T) {
	counter := &fakeCounter{}
	w := NewQuotaGaugeWorker(counter, staticTenants{}, &recordingSink{}, nil, nil)

	w.refresh(context.Background())

	assert.Zero(t, counter.calls)
}

func TestQuotaGaugeWorker_ErrorKeepsGauge(t *testing.T) {
	counter := &fakeCounter{err: errors.New("db down")}
	sink := &recordingSink{}
	w := NewQuotaGaugeWorker(counter, staticTenants{"acme"}, sink, nil, nil)

	w.refresh(context.Background())

	assert.Nil(t, sink.got)
}

func TestQuotaGaugeWorker_StopsOnCancel(t *testing.T) {
	w := NewQuotaGaugeWorker(&fakeCounter{}, staticTenants{}, &recordingSink{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker não encerrou após cancelamento")
	}
}
