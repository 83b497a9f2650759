package database

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id            UUID PRIMARY KEY,
	seq           BIGINT GENERATED ALWAYS AS IDENTITY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	message       TEXT NOT NULL,
	qualification TEXT NOT NULL CHECK (qualification IN ('HOT', 'WARM', 'COLD')),
	ai_reply      TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC, seq DESC);
`

// LeadRepository grava leads no Postgres.
type LeadRepository struct {
	pool Pool
}

func NewLeadRepository(pool Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

func (r *LeadRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return eris.Wrap(err, "postgres: migrate leads")
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, message, qualification, ai_reply)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Message,
		string(lead.Qualification),
		lead.AIReply,
	).Scan(&lead.CreatedAt)

	if err != nil {
		return eris.Wrap(err, "postgres: insert lead")
	}

	return nil
}

func (r *LeadRepository) ListRecent(ctx context.Context) ([]*entity.Lead, error) {
	query := `
		SELECT id, name, email, message, qualification, ai_reply, created_at
		FROM leads
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		var qualification string
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Message,
			&qualification,
			&lead.AIReply,
			&lead.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		lead.Qualification = entity.Qualification(qualification)
		leads = append(leads, &lead)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *LeadRepository) Close() {
	r.pool.Close()
}
