package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

// AuditFilter narrows ListLogs. Zero values match everything.
type AuditFilter struct {
	Category entity.AuditCategory
	Actor    string
}

// AuditUsecase reads the append-only audit trail
type AuditUsecase interface {
	// ListLogs returns matching entries newest first.
	ListLogs(ctx context.Context, filter AuditFilter) ([]*entity.AuditLog, error)
}
