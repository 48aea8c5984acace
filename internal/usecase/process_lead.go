package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

var errStoppedBeforeDispatch = errors.New("campanha interrompida antes do envio")

// processLead walks one candidate to a terminal state and records exactly one
// outcome for it. Calls to providers run on a context detached from the run's
// cancellation (each with its own timeout), so a stop never leaves an admitted
// lead without its outcome.
func (r *CampaignRunner) processLead(ctx context.Context, plan *runPlan, idx int, c entity.Candidate) entity.LeadStatus {
	st := entity.ProcessingState{Candidate: c, Status: entity.StatusPending}
	callCtx := context.WithoutCancel(ctx)

	phone := NormalizePhone(c.Phone)
	if phone == "" {
		st.Status = entity.StatusMissingPhone
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}

	st.Status = entity.StatusValidating
	r.setLeadState(idx, st)

	check, err := r.validate(callCtx, phone)
	if err != nil {
		r.deps.Recorder.RecordIntegrationError("whatsapp")
		st.Status = entity.StatusChannelInvalid
		st.ErrorDetail = err.Error()
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}
	if !check.Reachable || check.ChannelAddress == "" {
		st.Status = entity.StatusChannelInvalid
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}

	st.Status = entity.StatusChannelValid
	st.ChannelAddress = check.ChannelAddress
	r.setLeadState(idx, st)

	if ctx.Err() != nil {
		st.Status = entity.StatusDispatchError
		st.ErrorDetail = errStoppedBeforeDispatch.Error()
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}

	text := RenderMessage(plan.template, c, plan.criteria)
	deliveryID, err := r.dispatch(callCtx, check.ChannelAddress, text)
	if err != nil {
		r.deps.Recorder.RecordIntegrationError("whatsapp")
		st.Status = entity.StatusDispatchError
		st.ErrorDetail = err.Error()
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}
	if strings.TrimSpace(deliveryID) == "" {
		st.Status = entity.StatusDispatchError
		st.ErrorDetail = "confirmação de envio sem id"
		r.completeLead(callCtx, plan, idx, st, "")
		return st.Status
	}

	st.Status = entity.StatusMessageSent
	leadID := r.saveLead(callCtx, c, check.ChannelAddress)
	r.completeLead(callCtx, plan, idx, st, leadID)
	return st.Status
}

func (r *CampaignRunner) validate(ctx context.Context, phone string) (entity.ChannelCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ValidationTimeout)
	defer cancel()
	return r.deps.Validator.CheckNumber(ctx, phone)
}

func (r *CampaignRunner) dispatch(ctx context.Context, address, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.DispatchTimeout)
	defer cancel()
	return r.deps.Dispatcher.SendText(ctx, address, text)
}

// saveLead is best effort: a failure is logged and the lead stays message_sent.
func (r *CampaignRunner) saveLead(ctx context.Context, c entity.Candidate, channelAddress string) string {
	if r.deps.Leads == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.PersistenceTimeout)
	defer cancel()

	leadID, err := r.deps.Leads.Save(ctx, entity.NewProspectedLead(r.cfg.TenantID, c, channelAddress))
	if err != nil {
		r.deps.Recorder.RecordIntegrationError("lead_repository")
		r.log.Warn("lead save failed", zap.String("external_id", c.ExternalID), zap.Error(err))
		r.logf("⚠️ %s: mensagem enviada, mas o lead não foi salvo no CRM", c.Name)
		return ""
	}
	return leadID
}

// completeLead writes the outcome, then publishes the terminal state and the
// counters in a single critical section.
func (r *CampaignRunner) completeLead(ctx context.Context, plan *runPlan, idx int, st entity.ProcessingState, leadID string) {
	now := r.now()
	st.ProcessedAt = &now
	outcome := entity.NewOutcome(r.cfg.TenantID, plan.criteria, st, leadID)

	appendCtx, cancel := context.WithTimeout(ctx, r.cfg.PersistenceTimeout)
	err := r.deps.Outcomes.Append(appendCtx, outcome)
	cancel()
	if err != nil {
		r.deps.Recorder.RecordIntegrationError("outcome_log")
		r.log.Error("outcome append failed", zap.String("external_id", outcome.ExternalID), zap.Error(err))
	} else if r.deps.Publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, r.cfg.PersistenceTimeout)
		if err := r.deps.Publisher.PublishOutcome(pubCtx, outcome); err != nil {
			r.log.Warn("outcome publish failed", zap.String("external_id", outcome.ExternalID), zap.Error(err))
		}
		cancel()
	}

	if st.Status == entity.StatusMessageSent {
		plan.quota.Increment()
	}

	r.mu.Lock()
	if idx < len(r.status.Leads) {
		r.status.Leads[idx] = st
	}
	r.status.Processed++
	if st.ChannelAddress != "" {
		r.status.ChannelValid++
	}
	if st.Status == entity.StatusMessageSent {
		r.status.MessagesSent++
	}
	r.status.QuotaUsedToday = plan.quota.Used()
	r.status.recomputeProgress()
	processed, total := r.status.Processed, r.status.TotalFound
	r.mu.Unlock()

	r.deps.Recorder.RecordLeadOutcome(st.Status)
	if st.Status == entity.StatusMessageSent {
		r.deps.Recorder.SetQuotaUsed(r.cfg.TenantID, plan.quota.Used())
	}
	r.logf("%s [%d/%d] %s: %s", statusIcon(st.Status), processed, total, leadLabel(st), describe(st))
}

func (r *CampaignRunner) setLeadState(idx int, st entity.ProcessingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < len(r.status.Leads) {
		r.status.Leads[idx] = st
	}
}

func leadLabel(st entity.ProcessingState) string {
	if st.Candidate.Name != "" {
		return st.Candidate.Name
	}
	return st.Candidate.ExternalID
}

func describe(st entity.ProcessingState) string {
	if st.ErrorDetail != "" {
		return st.Status.Classification() + " (" + st.ErrorDetail + ")"
	}
	return st.Status.Classification()
}

func statusIcon(s entity.LeadStatus) string {
	switch s {
	case entity.StatusMessageSent:
		return "✅"
	case entity.StatusChannelInvalid:
		return "📵"
	case entity.StatusMissingPhone:
		return "☎️"
	case entity.StatusDispatchError:
		return "❌"
	}
	return "•"
}
