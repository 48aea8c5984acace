package usecase

import "errors"

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeCampaignRunning    = "CAMPAIGN_RUNNING"
	CodeChannelUnavailable = "CHANNEL_UNAVAILABLE"
	CodeQuotaExhausted     = "QUOTA_EXHAUSTED"

	CodeDiscoveryFailed = "DISCOVERY_FAILED"
	CodeQuotaLookup     = "QUOTA_LOOKUP_FAILED"
)

// DomainError é uma pré-condição recusada: a campanha nem começa.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de infraestrutura (diretório fora do ar, banco, etc).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by a DomainError or TechnicalError, or "".
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
