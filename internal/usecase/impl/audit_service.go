package impl

import (
	"context"
	"strings"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/errors"
	"rewards/internal/usecase"
)

type auditService struct {
	router repository.StoreRouter
}

// NewAuditService creates a new audit service instance
func NewAuditService(router repository.StoreRouter) usecase.AuditUsecase {
	return &auditService{router: router}
}

func (s *auditService) ListLogs(ctx context.Context, filter usecase.AuditFilter) ([]*entity.AuditLog, error) {
	logs, err := s.router.Active(ctx).AuditLogs().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit logs")
	}

	result := make([]*entity.AuditLog, 0, len(logs))
	for _, l := range logs {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Actor != "" && !strings.EqualFold(l.Actor, filter.Actor) {
			continue
		}
		result = append(result, l)
	}

	return result, nil
}
