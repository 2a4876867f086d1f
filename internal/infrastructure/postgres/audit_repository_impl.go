package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, l *entity.AuditLog) error {
	meta := l.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, l.UserID, l.Email, l.Action, l.IP, l.UserAgent, b)

	return row.Scan(&l.ID, &l.CreatedAt)
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(user_id, ''), COALESCE(email, ''), action,
		       COALESCE(ip, ''), COALESCE(user_agent, ''), metadata, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.AuditLog{}
	for rows.Next() {
		var (
			l   entity.AuditLog
			raw []byte
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Email, &l.Action, &l.IP, &l.UserAgent, &raw, &l.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &l.Metadata)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
