package entity

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the immutable audit row written for every processed candidate.
// (tenant_id, external_id) is unique and doubles as the deduplication key.
type Outcome struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	ExternalID     string     `json:"external_id"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone,omitempty"`
	ChannelValid   bool       `json:"channel_valid"`
	ChannelAddress string     `json:"channel_address,omitempty"`
	MessageSent    bool       `json:"message_sent"`
	LeadSaved      bool       `json:"lead_saved"`
	LeadID         string     `json:"lead_id,omitempty"`
	Criteria       string     `json:"criteria"`
	Status         LeadStatus `json:"status"`
	Classification string     `json:"classification"`
	ErrorDetail    string     `json:"error_detail,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewOutcome projects a terminal processing state into an outcome record.
func NewOutcome(tenantID string, criteria SearchCriteria, st ProcessingState, leadID string) *Outcome {
	now := time.Now()
	if st.ProcessedAt != nil {
		now = *st.ProcessedAt
	}

	return &Outcome{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		ExternalID:     st.Candidate.ExternalID,
		Name:           st.Candidate.Name,
		Address:        st.Candidate.Address,
		Phone:          st.Candidate.Phone,
		ChannelValid:   st.ChannelAddress != "",
		ChannelAddress: st.ChannelAddress,
		MessageSent:    st.Status == StatusMessageSent,
		LeadSaved:      leadID != "",
		LeadID:         leadID,
		Criteria:       criteria.String(),
		Status:         st.Status,
		Classification: st.Status.Classification(),
		ErrorDetail:    st.ErrorDetail,
		CreatedAt:      now,
	}
}
