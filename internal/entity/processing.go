package entity

import "time"

type LeadStatus string

const (
	StatusPending        LeadStatus = "pending"
	StatusValidating     LeadStatus = "validating"
	StatusChannelValid   LeadStatus = "channel_valid"
	StatusMessageSent    LeadStatus = "message_sent"
	StatusDispatchError  LeadStatus = "dispatch_error"
	StatusChannelInvalid LeadStatus = "channel_invalid"
	StatusMissingPhone   LeadStatus = "missing_phone"
)

func (s LeadStatus) IsTerminal() bool {
	switch s {
	case StatusMessageSent, StatusDispatchError, StatusChannelInvalid, StatusMissingPhone:
		return true
	}
	return false
}

// Classification is the free-text label written to the outcome log.
func (s LeadStatus) Classification() string {
	switch s {
	case StatusMessageSent:
		return "Mensagem enviada"
	case StatusDispatchError:
		return "Erro no envio"
	case StatusChannelInvalid:
		return "Sem WhatsApp"
	case StatusMissingPhone:
		return "Sem telefone"
	}
	return string(s)
}

// ProcessingState acompanha um candidato durante a execução da campanha.
// Nunca é persistido; a projeção final é o Outcome.
type ProcessingState struct {
	Candidate      Candidate  `json:"candidate"`
	Status         LeadStatus `json:"status"`
	ChannelAddress string     `json:"channel_address,omitempty"`
	ErrorDetail    string     `json:"error_detail,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}
