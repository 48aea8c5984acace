package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

// uniqueViolation is Postgres' SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

var ErrOutcomeExists = errors.New("outcome já registrado para este candidato")

// OutcomeRepository é o log append-only da prospecção. Serve também de ledger
// de deduplicação e de fonte da cota diária.
type OutcomeRepository struct {
	DB *sql.DB
}

func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{DB: db}
}

func (r *OutcomeRepository) Append(ctx context.Context, o *entity.Outcome) error {
	query := `
		INSERT INTO prospect_outcomes (
			id, tenant_id, external_id, name, address, phone,
			channel_valid, channel_address, message_sent, lead_saved, lead_id,
			criteria, status, classification, error_detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		o.ID,
		o.TenantID,
		o.ExternalID,
		o.Name,
		o.Address,
		nullString(o.Phone),
		o.ChannelValid,
		nullString(o.ChannelAddress),
		o.MessageSent,
		o.LeadSaved,
		nullString(o.LeadID),
		o.Criteria,
		string(o.Status),
		o.Classification,
		nullString(o.ErrorDetail),
		o.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrOutcomeExists, o.ExternalID)
		}
		return err
	}
	return nil
}

func (r *OutcomeRepository) HasBeenProcessed(ctx context.Context, tenantID, externalID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM prospect_outcomes WHERE tenant_id = $1 AND external_id = $2)`,
		tenantID, externalID,
	).Scan(&exists)
	return exists, err
}

func (r *OutcomeRepository) CountSentSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prospect_outcomes WHERE tenant_id = $1 AND message_sent AND created_at >= $2`,
		tenantID, since,
	).Scan(&n)
	return n, err
}

// CountSentSinceByTenant agrupa os envios por tenant (usado pelo gauge de cota).
func (r *OutcomeRepository) CountSentSinceByTenant(ctx context.Context, tenantIDs []string, since time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT tenant_id, COUNT(*)
		FROM prospect_outcomes
		WHERE tenant_id = ANY($1) AND message_sent AND created_at >= $2
		GROUP BY tenant_id
	`, pq.Array(tenantIDs), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(tenantIDs))
	for _, id := range tenantIDs {
		counts[id] = 0
	}
	for rows.Next() {
		var tenant string
		var n int
		if err := rows.Scan(&tenant, &n); err != nil {
			return nil, err
		}
		counts[tenant] = n
	}
	return counts, rows.Err()
}

func (r *OutcomeRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]entity.Outcome, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tenant_id, external_id, name, address, COALESCE(phone, ''),
			channel_valid, COALESCE(channel_address, ''), message_sent, lead_saved,
			COALESCE(lead_id, ''), criteria, status, classification,
			COALESCE(error_detail, ''), created_at
		FROM prospect_outcomes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Outcome
	for rows.Next() {
		var o entity.Outcome
		var status string
		if err := rows.Scan(
			&o.ID, &o.TenantID, &o.ExternalID, &o.Name, &o.Address, &o.Phone,
			&o.ChannelValid, &o.ChannelAddress, &o.MessageSent, &o.LeadSaved,
			&o.LeadID, &o.Criteria, &status, &o.Classification,
			&o.ErrorDetail, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		o.Status = entity.LeadStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}
