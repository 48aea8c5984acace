package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	domain := fmt.Errorf("start: %w", &DomainError{Code: CodeQuotaExhausted, Message: "cota"})
	tech := &TechnicalError{Code: CodeDiscoveryFailed, Message: "busca", Err: errors.New("503")}

	assert.True(t, IsDomainError(domain))
	assert.False(t, IsTechnicalError(domain))
	assert.Equal(t, CodeQuotaExhausted, ErrorCode(domain))

	assert.True(t, IsTechnicalError(tech))
	assert.Equal(t, "busca: 503", tech.Error())
	assert.Equal(t, CodeDiscoveryFailed, ErrorCode(tech))
	assert.Equal(t, "503", errors.Unwrap(tech).Error())

	assert.Equal(t, "", ErrorCode(errors.New("plain")))
}
