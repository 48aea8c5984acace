package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

func newTestManager(store *fakeOutcomeStore, wa *fakeWhatsApp, dir DirectorySearcher, pacing time.Duration) *CampaignManager {
	return NewCampaignManager(func(tenantID string) *CampaignRunner {
		discovery := NewCandidateDiscovery(dir, store, nil)
		discovery.PageDelay = 0
		return NewCampaignRunner(RunnerConfig{
			TenantID:       tenantID,
			Location:       time.UTC,
			PacingInterval: pacing,
			FailureDelay:   time.Millisecond,
		}, RunnerDeps{
			Discovery:  discovery,
			Validator:  wa,
			Dispatcher: wa,
			Channel:    wa,
			Outcomes:   store,
			Quota:      store,
		})
	})
}

func TestManager_RequiresTenant(t *testing.T) {
	m := newTestManager(&fakeOutcomeStore{}, newFakeWhatsApp(), singlePage(), time.Millisecond)

	err := m.Start(context.Background(), "  ", validInput())
	assert.Equal(t, CodeValidation, ErrorCode(err))
	assert.Empty(t, m.Tenants())
}

func TestManager_StatusDoesNotCreateRunner(t *testing.T) {
	m := newTestManager(&fakeOutcomeStore{}, newFakeWhatsApp(), singlePage(), time.Millisecond)

	st := m.Status("ghost")
	assert.False(t, st.Running)
	m.Pause("ghost")
	m.Stop("ghost")
	assert.Empty(t, m.Tenants())
}

func TestManager_TenantsAreIsolated(t *testing.T) {
	store := &fakeOutcomeStore{}
	wa := newFakeWhatsApp()
	wa.registered["5519999990001"] = true
	dir := singlePage(candidate("p1", "19999990001"))
	m := newTestManager(store, wa, dir, time.Hour)

	require.NoError(t, m.Start(context.Background(), "zeta", validInput()))
	m.Runner("zeta").Wait()
	require.NoError(t, m.Start(context.Background(), "alpha", validInput()))
	m.Runner("alpha").Wait()

	assert.Equal(t, []string{"alpha", "zeta"}, m.Tenants())
	assert.Equal(t, 1, m.Status("alpha").MessagesSent)
	assert.Equal(t, 1, m.Status("zeta").MessagesSent)

	var tenants []string
	for _, o := range store.all() {
		assert.Equal(t, entity.StatusMessageSent, o.Status)
		tenants = append(tenants, o.TenantID)
	}
	assert.ElementsMatch(t, []string{"alpha", "zeta"}, tenants)
}

func TestManager_StopAll(t *testing.T) {
	store := &fakeOutcomeStore{}
	wa := newFakeWhatsApp()
	wa.registered["5519999990001"] = true
	wa.registered["5519999990002"] = true
	dir := singlePage(candidate("p1", "19999990001"), candidate("p2", "19999990002"))
	m := newTestManager(store, wa, dir, time.Hour)

	require.NoError(t, m.Start(context.Background(), "acme", validInput()))
	require.Eventually(t, func() bool { return m.Status("acme").MessagesSent == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.StopAll()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StopAll não retornou")
	}

	assert.Equal(t, EndStopped, m.Status("acme").EndReason)
}
