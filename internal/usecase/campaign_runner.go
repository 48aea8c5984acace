package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

const (
	DefaultPacingInterval = 15 * time.Minute
	DefaultFailureDelay   = time.Second
	DefaultMinYield       = 20
	DefaultCallTimeout    = 30 * time.Second
)

const (
	EndExhausted  = "exhausted"
	EndStopped    = "stopped"
	EndQuota      = "quota_reached"
	EndNothingNew = "nothing_new"
	EndFailed     = "discovery_failed"
)

// CandidateSource is satisfied by *CandidateDiscovery.
type CandidateSource interface {
	Discover(ctx context.Context, tenantID string, criteria entity.SearchCriteria, minYield int) ([]entity.Candidate, DiscoveryReport, error)
}

type RunnerConfig struct {
	TenantID string
	Location *time.Location // relógio de referência do tenant para a cota diária

	DailyCap       int
	PacingInterval time.Duration
	FailureDelay   time.Duration
	MinYield       int

	ValidationTimeout  time.Duration
	DispatchTimeout    time.Duration
	PersistenceTimeout time.Duration

	LogCapacity int
	Clock       func() time.Time
}

type RunnerDeps struct {
	Discovery  CandidateSource
	Validator  ChannelValidator
	Dispatcher MessageDispatcher
	Channel    ChannelStatus
	Leads      LeadRepository
	Outcomes   OutcomeLogger
	Quota      QuotaCounter

	// opcionais
	Publisher OutcomePublisher
	Notifier  CampaignNotifier
	Recorder  Recorder
	Logger    *zap.Logger
}

// CampaignRunner drives one tenant's prospecting campaign. At most one run is
// active at a time; leads are processed sequentially in discovery order.
type CampaignRunner struct {
	cfg  RunnerConfig
	deps RunnerDeps
	log  *zap.Logger
	now  func() time.Time

	mu     sync.RWMutex
	status CampaignStatus
	logs   *LogRing

	ctrl         sync.Mutex
	running      bool
	paused       bool
	pauseChanged chan struct{}
	cancel       context.CancelFunc
	done         chan struct{}
}

// runPlan is the per-run configuration resolved at Start.
type runPlan struct {
	id       string
	criteria entity.SearchCriteria
	template string
	pacing   time.Duration
	dailyCap int
	minYield int
	quota    *quotaTracker
	started  time.Time
}

func NewCampaignRunner(cfg RunnerConfig, deps RunnerDeps) *CampaignRunner {
	if cfg.DailyCap <= 0 {
		cfg.DailyCap = DefaultDailyCap
	}
	if cfg.PacingInterval <= 0 {
		cfg.PacingInterval = DefaultPacingInterval
	}
	if cfg.FailureDelay <= 0 {
		cfg.FailureDelay = DefaultFailureDelay
	}
	if cfg.MinYield <= 0 {
		cfg.MinYield = DefaultMinYield
	}
	if cfg.ValidationTimeout <= 0 {
		cfg.ValidationTimeout = DefaultCallTimeout
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = DefaultCallTimeout
	}
	if cfg.PersistenceTimeout <= 0 {
		cfg.PersistenceTimeout = 10 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &CampaignRunner{
		cfg:          cfg,
		deps:         deps,
		log:          deps.Logger.With(zap.String("tenant", cfg.TenantID)),
		now:          cfg.Clock,
		logs:         NewLogRing(cfg.LogCapacity),
		status:       CampaignStatus{DailyCap: cfg.DailyCap, Leads: []entity.ProcessingState{}},
		pauseChanged: make(chan struct{}),
	}
}

// Start checks the preconditions synchronously and launches the run in the
// background. Precondition failures are *DomainError; a quota lookup failure
// is a *TechnicalError.
func (r *CampaignRunner) Start(ctx context.Context, input StartCampaignInput) error {
	r.ctrl.Lock()
	if r.running {
		r.ctrl.Unlock()
		return &DomainError{Code: CodeCampaignRunning, Message: "já existe uma campanha em andamento"}
	}
	// reserva o runner enquanto as pré-condições são checadas; um Stop nesse
	// intervalo já cancela o contexto da execução
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.running = true
	r.paused = false
	r.cancel = cancel
	r.done = done
	r.ctrl.Unlock()

	plan, err := r.prepare(ctx, input)
	if err != nil {
		cancel()
		r.ctrl.Lock()
		r.running = false
		r.cancel = nil
		close(done)
		r.ctrl.Unlock()
		return err
	}

	r.logs.Reset()
	started := plan.started
	r.mu.Lock()
	r.status = CampaignStatus{
		RunID:          plan.id,
		Running:        true,
		Criteria:       plan.criteria.String(),
		QuotaUsedToday: plan.quota.Used(),
		DailyCap:       plan.dailyCap,
		StartedAt:      &started,
		Leads:          []entity.ProcessingState{},
	}
	r.mu.Unlock()

	r.logf("🚀 Campanha iniciada: %s (cota hoje %d/%d)", plan.criteria.String(), plan.quota.Used(), plan.dailyCap)
	r.log.Info("campaign started",
		zap.String("run_id", plan.id),
		zap.String("criteria", plan.criteria.String()),
		zap.Duration("pacing", plan.pacing),
		zap.Int("daily_cap", plan.dailyCap))

	go r.run(runCtx, plan, done)
	return nil
}

func (r *CampaignRunner) prepare(ctx context.Context, input StartCampaignInput) (*runPlan, error) {
	if errs := ValidateStartCampaignInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	if r.deps.Channel == nil || r.deps.Validator == nil || r.deps.Dispatcher == nil {
		return nil, &DomainError{Code: CodeChannelUnavailable, Message: "nenhum canal de WhatsApp configurado"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, r.cfg.ValidationTimeout)
	connected, err := r.deps.Channel.IsConnected(checkCtx)
	cancel()
	if err != nil {
		r.deps.Recorder.RecordIntegrationError("whatsapp")
		return nil, &DomainError{Code: CodeChannelUnavailable, Message: "canal de WhatsApp indisponível: " + err.Error()}
	}
	if !connected {
		return nil, &DomainError{Code: CodeChannelUnavailable, Message: "canal de WhatsApp não está conectado"}
	}

	dailyCap := r.cfg.DailyCap
	if input.DailyCap > 0 {
		dailyCap = input.DailyCap
	}
	pacing := r.cfg.PacingInterval
	if input.PacingSeconds > 0 {
		pacing = time.Duration(input.PacingSeconds) * time.Second
	}
	minYield := r.cfg.MinYield
	if input.MinYield > 0 {
		minYield = input.MinYield
	}

	quota := newQuotaTracker(r.deps.Quota, r.cfg.TenantID, r.cfg.Location, r.now)
	used, err := quota.Refresh(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeQuotaLookup, Message: "falha ao calcular a cota do dia", Err: err}
	}
	r.deps.Recorder.SetQuotaUsed(r.cfg.TenantID, used)
	if used >= dailyCap {
		return nil, &DomainError{
			Code:    CodeQuotaExhausted,
			Message: fmt.Sprintf("cota diária atingida (%d/%d)", used, dailyCap),
		}
	}

	return &runPlan{
		id:       uuid.New().String(),
		criteria: input.Criteria(),
		template: input.Template,
		pacing:   pacing,
		dailyCap: dailyCap,
		minYield: minYield,
		quota:    quota,
		started:  r.now(),
	}, nil
}

func (r *CampaignRunner) run(ctx context.Context, plan *runPlan, done chan struct{}) {
	reason := EndExhausted
	defer func() {
		r.finish(plan, reason)
		close(done)
	}()

	r.logf("🔎 Buscando \"%s\"...", plan.criteria.Query())
	candidates, report, err := r.deps.Discovery.Discover(ctx, r.cfg.TenantID, plan.criteria, plan.minYield)
	if err != nil {
		if ctx.Err() != nil {
			reason = EndStopped
			return
		}
		reason = EndFailed
		r.deps.Recorder.RecordIntegrationError("directory")
		terr := &TechnicalError{Code: CodeDiscoveryFailed, Message: "falha na busca de candidatos", Err: err}
		r.mu.Lock()
		r.status.Failure = terr.Error()
		r.mu.Unlock()
		r.logf("❌ %s", terr.Error())
		r.log.Error("discovery failed", zap.String("run_id", plan.id), zap.Error(err))
		return
	}

	r.logf("📋 %d candidatos novos, %d já processados ignorados (%d páginas)", report.Survivors, report.Duplicates, report.Pages)
	if report.NothingNew() {
		reason = EndNothingNew
		r.logf("🤷 Nada novo encontrado para esta busca")
		return
	}

	r.mu.Lock()
	r.status.TotalFound = len(candidates)
	r.status.Leads = make([]entity.ProcessingState, len(candidates))
	for i, c := range candidates {
		r.status.Leads[i] = entity.ProcessingState{Candidate: c, Status: entity.StatusPending}
	}
	r.status.recomputeProgress()
	r.mu.Unlock()

	for i, c := range candidates {
		if ctx.Err() != nil {
			reason = EndStopped
			break
		}
		if err := r.waitWhilePaused(ctx); err != nil {
			reason = EndStopped
			break
		}

		// falha na recontagem da virada do dia: a contagem anterior é de ontem,
		// então o lead segue sem o teto e a recontagem é tentada de novo no próximo
		used, err := plan.quota.Refresh(ctx)
		if err != nil {
			r.deps.Recorder.RecordIntegrationError("outcome_log")
			r.log.Warn("quota recount failed, cap not applied to this lead", zap.Error(err))
			r.logf("⚠️ Não foi possível recalcular a cota do dia, tentando de novo no próximo lead")
		} else {
			r.mu.Lock()
			r.status.QuotaUsedToday = used
			r.mu.Unlock()
			if used >= plan.dailyCap {
				reason = EndQuota
				r.logf("🛑 Cota diária atingida (%d/%d)", used, plan.dailyCap)
				break
			}
		}

		status := r.processLead(ctx, plan, i, c)

		if i == len(candidates)-1 {
			break
		}
		delay := r.cfg.FailureDelay
		if status == entity.StatusMessageSent {
			delay = plan.pacing
			r.logf("⏳ Aguardando %s até o próximo envio", delay.Round(time.Second))
		}
		if err := sleepCtx(ctx, delay); err != nil {
			reason = EndStopped
			break
		}
	}
}

// finish publishes the final status and builds the summary in the same ctrl
// section that releases the runner, so a new Start never sees a half-finished
// run nor has its fresh status overwritten by the old one.
func (r *CampaignRunner) finish(plan *runPlan, reason string) {
	r.ctrl.Lock()
	finished := r.now()
	r.mu.Lock()
	r.status.Running = false
	r.status.Paused = false
	r.status.EndReason = reason
	r.status.FinishedAt = &finished
	summary := CampaignSummary{
		RunID:        plan.id,
		TenantID:     r.cfg.TenantID,
		Criteria:     plan.criteria.String(),
		Found:        r.status.TotalFound,
		Processed:    r.status.Processed,
		ChannelValid: r.status.ChannelValid,
		MessagesSent: r.status.MessagesSent,
		QuotaUsed:    r.status.QuotaUsedToday,
		DailyCap:     plan.dailyCap,
		EndReason:    reason,
		Duration:     finished.Sub(plan.started),
	}
	r.mu.Unlock()

	r.logf("🏁 Campanha finalizada (%s): %d processados, %d com WhatsApp, %d mensagens enviadas",
		reason, summary.Processed, summary.ChannelValid, summary.MessagesSent)

	r.running = false
	r.paused = false
	if r.cancel != nil {
		r.cancel()
	}
	r.ctrl.Unlock()

	r.log.Info("campaign finished",
		zap.String("run_id", plan.id),
		zap.String("reason", reason),
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.MessagesSent))

	if r.deps.Notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PersistenceTimeout)
		defer cancel()
		if err := r.deps.Notifier.SendCampaignSummary(ctx, summary); err != nil {
			r.log.Warn("summary email failed", zap.Error(err))
		}
	}
}

// logf appends to the operator log ring and mirrors the line to zap.
func (r *CampaignRunner) logf(format string, args ...any) {
	line := r.logs.Append(format, args...)
	r.log.Debug(line)
}
