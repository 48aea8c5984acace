package entity

import (
	"fmt"
	"strings"
)

// SearchCriteria é o que o operador informa para uma campanha de prospecção.
type SearchCriteria struct {
	Category string `json:"category"` // Ex: "padaria"
	Location string `json:"location"` // Ex: "Campinas, SP"
}

func (c SearchCriteria) Query() string {
	return fmt.Sprintf("%s em %s", strings.TrimSpace(c.Category), strings.TrimSpace(c.Location))
}

func (c SearchCriteria) String() string {
	return strings.TrimSpace(c.Category) + " | " + strings.TrimSpace(c.Location)
}

// Candidate is a lead returned by the directory provider before any processing.
type Candidate struct {
	ExternalID string `json:"external_id"` // place id, stable per provider
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone,omitempty"`
}

// SearchPage is one page of directory results.
type SearchPage struct {
	Items         []Candidate
	NextPageToken string
}

// ChannelCheck is the answer of the WhatsApp number lookup.
type ChannelCheck struct {
	Reachable      bool
	ChannelAddress string // JID, ex: 5511999999999@s.whatsapp.net
}
