package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

type DirectorySearcher interface {
	Search(ctx context.Context, query, pageToken string) (entity.SearchPage, error)
}

type Ledger interface {
	HasBeenProcessed(ctx context.Context, tenantID, externalID string) (bool, error)
}

type ChannelValidator interface {
	CheckNumber(ctx context.Context, phone string) (entity.ChannelCheck, error)
}

type MessageDispatcher interface {
	SendText(ctx context.Context, channelAddress, text string) (string, error)
}

// ChannelStatus tells whether the WhatsApp instance is configured and connected.
type ChannelStatus interface {
	IsConnected(ctx context.Context) (bool, error)
}

type LeadRepository interface {
	Save(ctx context.Context, lead *entity.Lead) (string, error)
}

type OutcomeLogger interface {
	Append(ctx context.Context, outcome *entity.Outcome) error
}

type QuotaCounter interface {
	CountSentSince(ctx context.Context, tenantID string, since time.Time) (int, error)
}

// OutcomePublisher espalha o outcome para consumidores (sync com CRM, etc).
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, outcome *entity.Outcome) error
}

// CampaignNotifier recebe o resumo quando a campanha termina.
type CampaignNotifier interface {
	SendCampaignSummary(ctx context.Context, summary CampaignSummary) error
}

// Recorder is the metrics sink of the engine.
type Recorder interface {
	RecordLeadOutcome(status entity.LeadStatus)
	RecordIntegrationError(service string)
	SetQuotaUsed(tenantID string, used int)
}

type noopRecorder struct{}

func (noopRecorder) RecordLeadOutcome(entity.LeadStatus) {}
func (noopRecorder) RecordIntegrationError(string)       {}
func (noopRecorder) SetQuotaUsed(string, int)            {}
