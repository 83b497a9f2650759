package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// precisão de milissegundos, em UTC
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	message       TEXT NOT NULL,
	qualification TEXT NOT NULL CHECK (qualification IN ('HOT', 'WARM', 'COLD')),
	ai_reply      TEXT NOT NULL,
	created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at);
`

type SQLiteLeadRepository struct {
	DB *sql.DB
}

func NewSQLiteLeadRepository(db *sql.DB) *SQLiteLeadRepository {
	return &SQLiteLeadRepository{DB: db}
}

func (r *SQLiteLeadRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, sqliteSchema)
	return eris.Wrap(err, "sqlite: migrate leads")
}

func (r *SQLiteLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, message, qualification, ai_reply)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`

	var createdAt string
	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Message,
		string(lead.Qualification),
		lead.AIReply,
	).Scan(&createdAt)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert lead")
	}

	lead.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
	return eris.Wrap(err, "sqlite: parse created_at")
}

// ListRecent desempata pelo rowid: dois inserts no mesmo milissegundo
// continuam saindo na ordem inversa de inserção.
func (r *SQLiteLeadRepository) ListRecent(ctx context.Context) ([]*entity.Lead, error) {
	query := `
		SELECT id, name, email, message, qualification, ai_reply, created_at
		FROM leads
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		var qualification, createdAt string
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Message,
			&qualification,
			&lead.AIReply,
			&createdAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		lead.Qualification = entity.Qualification(qualification)
		if lead.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: parse created_at")
		}
		leads = append(leads, &lead)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func (r *SQLiteLeadRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *SQLiteLeadRepository) Close() {
	r.DB.Close()
}
