package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "rewards/internal/delivery/context"
	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"

	"github.com/google/uuid"
)

// journal records the audit entries and notifications that follow a committed mutation.
type journal struct {
	bus    service.SignalBus
	logger *slog.Logger
}

func newJournal(bus service.SignalBus, logger *slog.Logger) journal {
	return journal{bus: bus, logger: logger}
}

// audit appends an entry. The mutation it describes is already committed, so a
// storage failure here is logged rather than returned.
func (j journal) audit(ctx context.Context, store repository.Store, actor, target, action string, category entity.AuditCategory, details string) {
	entry := &entity.AuditLog{
		ID:       "log-" + uuid.NewString(),
		Date:     time.Now().UTC(),
		Actor:    actor,
		Target:   target,
		Action:   action,
		Category: category,
		Details:  details,
	}
	if err := store.AuditLogs().Append(ctx, entry); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, j.logger).Warn("Failed to append audit log",
			slog.String("action", action),
			slog.String("target", target),
			slog.Any("error", err),
		)
	}
}

// notify creates an unread notification and signals notifications-refresh.
func (j journal) notify(ctx context.Context, store repository.Store, userID, title, body string) (*entity.Notification, error) {
	n := &entity.Notification{
		ID:        "ntf-" + uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Notifications().Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}

	j.publish(service.SignalNotificationsRefresh)

	return n, nil
}

// notifyQuietly is notify for side effects whose failure must not undo the caller's result.
func (j journal) notifyQuietly(ctx context.Context, store repository.Store, userID, title, body string) {
	if _, err := j.notify(ctx, store, userID, title, body); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, j.logger).Warn("Failed to create notification",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

func (j journal) publish(signal service.Signal) {
	if j.bus != nil {
		j.bus.Publish(signal)
	}
}
