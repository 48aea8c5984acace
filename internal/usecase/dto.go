package usecase

import (
	"time"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

type StartCampaignInput struct {
	Category string `json:"category"`
	Location string `json:"location"`
	Template string `json:"template"`

	// Opcionais: zero usa o padrão do runner
	PacingSeconds int `json:"pacing_seconds,omitempty"`
	DailyCap      int `json:"daily_cap,omitempty"`
	MinYield      int `json:"min_yield,omitempty"`
}

func (in StartCampaignInput) Criteria() entity.SearchCriteria {
	return entity.SearchCriteria{Category: in.Category, Location: in.Location}
}

type CampaignSummary struct {
	RunID        string        `json:"run_id"`
	TenantID     string        `json:"tenant_id"`
	Criteria     string        `json:"criteria"`
	Found        int           `json:"found"`
	Processed    int           `json:"processed"`
	ChannelValid int           `json:"channel_valid"`
	MessagesSent int           `json:"messages_sent"`
	QuotaUsed    int           `json:"quota_used"`
	DailyCap     int           `json:"daily_cap"`
	EndReason    string        `json:"end_reason"`
	Duration     time.Duration `json:"duration"`
}
