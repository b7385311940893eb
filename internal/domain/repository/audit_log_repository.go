package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// AuditLogRepository is append-only; List returns newest first.
type AuditLogRepository interface {
	List(ctx context.Context) ([]*entity.AuditLog, error)
	Append(ctx context.Context, log *entity.AuditLog) error
}
