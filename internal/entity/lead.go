package entity

import "time"

type Lead struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	ExternalID     string    `json:"external_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	ChannelAddress string    `json:"channel_address,omitempty"`
	Source         string    `json:"source"` // PROSPECTING, WEBSITE
	Status         string    `json:"status"` // NEW, CONTACTED, CONVERTED
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProspectedLead monta o lead do CRM a partir de um candidato qualificado.
func NewProspectedLead(tenantID string, c Candidate, channelAddress string) *Lead {
	return &Lead{
		TenantID:       tenantID,
		ExternalID:     c.ExternalID,
		Name:           c.Name,
		Phone:          c.Phone,
		Address:        c.Address,
		ChannelAddress: channelAddress,
		Source:         "PROSPECTING",
		Status:         "CONTACTED",
	}
}
