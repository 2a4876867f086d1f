package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

// AuditRepository keeps audit entries in a slice; used when AUDIT_ENABLED is off and in tests.
type AuditRepository struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, l *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = int64(len(r.logs) + 1)
	l.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *AuditRepository) Recent(_ context.Context, limit int) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.AuditLog{}
	for i := len(r.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
