package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Save grava o lead qualificado. Se o mesmo lugar já virou lead do tenant,
// atualiza os dados de contato e devolve o id existente.
func (r *LeadRepository) Save(ctx context.Context, lead *entity.Lead) (string, error) {
	query := `
		INSERT INTO leads (tenant_id, external_id, name, phone, address, channel_address, source, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (tenant_id, external_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			channel_address = COALESCE(EXCLUDED.channel_address, leads.channel_address),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.TenantID,
		nullString(lead.ExternalID),
		lead.Name,
		nullString(lead.Phone),
		nullString(lead.Address),
		nullString(lead.ChannelAddress),
		lead.Source,
		lead.Status,
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return "", err
	}

	return lead.ID, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
