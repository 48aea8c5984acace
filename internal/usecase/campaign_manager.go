package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// RunnerFactory builds the runner of one tenant.
type RunnerFactory func(tenantID string) *CampaignRunner

// CampaignManager keeps one runner per tenant, so a tenant never has two
// concurrent campaigns.
type CampaignManager struct {
	factory RunnerFactory

	mu      sync.Mutex
	runners map[string]*CampaignRunner
}

func NewCampaignManager(factory RunnerFactory) *CampaignManager {
	return &CampaignManager{
		factory: factory,
		runners: make(map[string]*CampaignRunner),
	}
}

func (m *CampaignManager) Runner(tenantID string) *CampaignRunner {
	tenantID = strings.TrimSpace(tenantID)

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runners[tenantID]
	if !ok {
		r = m.factory(tenantID)
		m.runners[tenantID] = r
	}
	return r
}

func (m *CampaignManager) Start(ctx context.Context, tenantID string, input StartCampaignInput) error {
	if strings.TrimSpace(tenantID) == "" {
		return &DomainError{Code: CodeValidation, Message: "validation failed: tenant_id (is required)"}
	}
	return m.Runner(tenantID).Start(ctx, input)
}

func (m *CampaignManager) lookup(tenantID string) (*CampaignRunner, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runners[strings.TrimSpace(tenantID)]
	return r, ok
}

// Status does not create a runner for unknown tenants.
func (m *CampaignManager) Status(tenantID string) CampaignStatus {
	r, ok := m.lookup(tenantID)
	if !ok {
		return CampaignStatus{}
	}
	return r.Status()
}

func (m *CampaignManager) Pause(tenantID string) {
	if r, ok := m.lookup(tenantID); ok {
		r.Pause()
	}
}

func (m *CampaignManager) Resume(tenantID string) {
	if r, ok := m.lookup(tenantID); ok {
		r.Resume()
	}
}

func (m *CampaignManager) Stop(tenantID string) {
	if r, ok := m.lookup(tenantID); ok {
		r.Stop()
	}
}

// Tenants lists the tenants that have a runner, sorted.
func (m *CampaignManager) Tenants() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.runners))
	for id := range m.runners {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// StopAll stops every active run and waits for them to exit.
func (m *CampaignManager) StopAll() {
	m.mu.Lock()
	runners := make([]*CampaignRunner, 0, len(m.runners))
	for _, r := range m.runners {
		runners = append(runners, r)
	}
	m.mu.Unlock()

	for _, r := range runners {
		r.Stop()
	}
	for _, r := range runners {
		r.Wait()
	}
}
