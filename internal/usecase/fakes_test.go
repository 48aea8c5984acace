package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

// fakeDirectory serves pages keyed by page token ("" is the first page).
type fakeDirectory struct {
	mu     sync.Mutex
	pages  map[string]entity.SearchPage
	err    error
	tokens []string
}

func (f *fakeDirectory) Search(_ context.Context, _ string, pageToken string) (entity.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, pageToken)
	if f.err != nil {
		return entity.SearchPage{}, f.err
	}
	return f.pages[pageToken], nil
}

func (f *fakeDirectory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type fakeLedger map[string]bool

func (f fakeLedger) HasBeenProcessed(_ context.Context, _ string, externalID string) (bool, error) {
	return f[externalID], nil
}

// fakeOutcomeStore is the outcome log: ledger, quota source and append target.
type fakeOutcomeStore struct {
	mu        sync.Mutex
	outcomes  []entity.Outcome
	countErr  error
	countCall int
	appendErr error

	// onAppend roda depois de cada Append, fora do lock
	onAppend func(o entity.Outcome)
}

func (s *fakeOutcomeStore) Append(_ context.Context, o *entity.Outcome) error {
	err := s.append(o)
	if s.onAppend != nil {
		s.onAppend(*o)
	}
	return err
}

func (s *fakeOutcomeStore) append(o *entity.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	for _, existing := range s.outcomes {
		if existing.TenantID == o.TenantID && existing.ExternalID == o.ExternalID {
			return errors.New("duplicate outcome")
		}
	}
	s.outcomes = append(s.outcomes, *o)
	return nil
}

func (s *fakeOutcomeStore) setCountErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countErr = err
}

func (s *fakeOutcomeStore) HasBeenProcessed(_ context.Context, tenantID, externalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.outcomes {
		if o.TenantID == tenantID && o.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeOutcomeStore) CountSentSince(_ context.Context, tenantID string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCall++
	if s.countErr != nil {
		return 0, s.countErr
	}
	n := 0
	for _, o := range s.outcomes {
		if o.TenantID == tenantID && o.MessageSent && !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *fakeOutcomeStore) seedSent(tenantID, externalID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, entity.Outcome{
		TenantID: tenantID, ExternalID: externalID, MessageSent: true,
		Status: entity.StatusMessageSent, CreatedAt: at,
	})
}

func (s *fakeOutcomeStore) all() []entity.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Outcome(nil), s.outcomes...)
}

func (s *fakeOutcomeStore) byExternalID() map[string]entity.Outcome {
	out := make(map[string]entity.Outcome)
	for _, o := range s.all() {
		out[o.ExternalID] = o
	}
	return out
}

// fakeWhatsApp answers CheckNumber/SendText/IsConnected.
type fakeWhatsApp struct {
	mu sync.Mutex

	connected  bool
	connErr    error
	registered map[string]bool // normalized phone -> has WhatsApp
	checkErr   error
	sendErr    error
	emptyID    bool

	// gate, when set, blocks CheckNumber for gatedPhone until closed
	gate       chan struct{}
	gatedPhone string
	entered    chan struct{}

	checks map[string]int
	sent   []string
}

func newFakeWhatsApp() *fakeWhatsApp {
	return &fakeWhatsApp{
		connected:  true,
		registered: map[string]bool{},
		checks:     map[string]int{},
	}
}

func (f *fakeWhatsApp) IsConnected(context.Context) (bool, error) {
	return f.connected, f.connErr
}

func (f *fakeWhatsApp) CheckNumber(_ context.Context, phone string) (entity.ChannelCheck, error) {
	f.mu.Lock()
	f.checks[phone]++
	gate, entered := f.gate, f.entered
	gated := gate != nil && phone == f.gatedPhone
	f.mu.Unlock()

	if gated {
		if entered != nil {
			close(entered)
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return entity.ChannelCheck{}, f.checkErr
	}
	if !f.registered[phone] {
		return entity.ChannelCheck{Reachable: false}, nil
	}
	return entity.ChannelCheck{Reachable: true, ChannelAddress: phone + "@s.whatsapp.net"}, nil
}

func (f *fakeWhatsApp) SendText(_ context.Context, address, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, address)
	if f.emptyID {
		return "", nil
	}
	return "msg-" + address, nil
}

func (f *fakeWhatsApp) checkCount(phone string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks[phone]
}

func (f *fakeWhatsApp) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeLeads struct {
	mu    sync.Mutex
	saved []*entity.Lead
	err   error
}

func (f *fakeLeads) Save(_ context.Context, lead *entity.Lead) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, lead)
	return "lead-" + lead.ExternalID, nil
}

func (f *fakeLeads) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeNotifier struct {
	mu        sync.Mutex
	summaries []CampaignSummary
}

func (f *fakeNotifier) SendCampaignSummary(_ context.Context, s CampaignSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, s)
	return nil
}

func (f *fakeNotifier) all() []CampaignSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CampaignSummary(nil), f.summaries...)
}

func (f *fakeNotifier) last() (CampaignSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.summaries) == 0 {
		return CampaignSummary{}, false
	}
	return f.summaries[len(f.summaries)-1], true
}

// fakeClock is a settable clock. When armed, the next reading blocks until
// release is closed (once); blocked is closed when that happens.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time

	armed   bool
	once    sync.Once
	blocked chan struct{}
	release chan struct{}
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, blocked: make(chan struct{}), release: make(chan struct{})}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	armed := c.armed
	c.mu.Unlock()

	if armed {
		c.once.Do(func() {
			close(c.blocked)
			<-c.release
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Arm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = true
}

// ---- helpers ----

const testTenant = "acme"

// candidate builds a candidate whose local phone normalizes to "55"+local.
func candidate(id, local string) entity.Candidate {
	return entity.Candidate{ExternalID: id, Name: "Loja " + id, Address: "Rua " + id, Phone: local}
}

func singlePage(items ...entity.Candidate) *fakeDirectory {
	return &fakeDirectory{pages: map[string]entity.SearchPage{"": {Items: items}}}
}

type runnerFixture struct {
	runner   *CampaignRunner
	dir      *fakeDirectory
	store    *fakeOutcomeStore
	wa       *fakeWhatsApp
	leads    *fakeLeads
	notifier *fakeNotifier
}

func newFixture(dir *fakeDirectory, cfg RunnerConfig) *runnerFixture {
	f := &runnerFixture{
		dir:      dir,
		store:    &fakeOutcomeStore{},
		wa:       newFakeWhatsApp(),
		leads:    &fakeLeads{},
		notifier: &fakeNotifier{},
	}
	f.build(cfg)
	return f
}

func (f *runnerFixture) build(cfg RunnerConfig) {
	if cfg.TenantID == "" {
		cfg.TenantID = testTenant
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PacingInterval == 0 {
		cfg.PacingInterval = 5 * time.Millisecond
	}
	if cfg.FailureDelay == 0 {
		cfg.FailureDelay = time.Millisecond
	}

	discovery := NewCandidateDiscovery(f.dir, f.store, nil)
	discovery.PageDelay = 0

	f.runner = NewCampaignRunner(cfg, RunnerDeps{
		Discovery:  discovery,
		Validator:  f.wa,
		Dispatcher: f.wa,
		Channel:    f.wa,
		Leads:      f.leads,
		Outcomes:   f.store,
		Quota:      f.store,
		Notifier:   f.notifier,
	})
}

func validInput() StartCampaignInput {
	return StartCampaignInput{Category: "padaria", Location: "Campinas", Template: "Olá {nome}!"}
}

func waitRun(t *testing.T, r *CampaignRunner) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("campanha não terminou a tempo")
	}
}
