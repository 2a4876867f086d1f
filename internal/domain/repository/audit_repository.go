package repository

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type AuditRepository interface {
	Insert(ctx context.Context, l *entity.AuditLog) error
	Recent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}
