package usecase

import (
	"strings"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

// RenderMessage substitui os placeholders do template pelos dados do candidato.
// Aceita {nome}/{name}, {endereco}/{address}, {categoria}/{category}, {cidade}/{city}.
func RenderMessage(template string, c entity.Candidate, criteria entity.SearchCriteria) string {
	name := strings.TrimSpace(c.Name)
	address := strings.TrimSpace(c.Address)
	category := strings.TrimSpace(criteria.Category)
	city := strings.TrimSpace(criteria.Location)

	r := strings.NewReplacer(
		"{nome}", name,
		"{name}", name,
		"{endereco}", address,
		"{address}", address,
		"{categoria}", category,
		"{category}", category,
		"{cidade}", city,
		"{city}", city,
	)
	return strings.TrimSpace(r.Replace(template))
}
