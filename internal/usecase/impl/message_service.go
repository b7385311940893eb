package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type messageService struct {
	router  repository.StoreRouter
	journal journal
}

// MessageServiceParams holds dependencies for MessageService, injected by Fx.
type MessageServiceParams struct {
	fx.In

	Router repository.StoreRouter
	Bus    service.SignalBus
	Logger *slog.Logger
}

// NewMessageService creates a new message service instance
func NewMessageService(params MessageServiceParams) usecase.MessageUsecase {
	return &messageService{
		router:  params.Router,
		journal: newJournal(params.Bus, params.Logger),
	}
}

func (s *messageService) Send(ctx context.Context, from, to, body string) (entity.Result[*entity.Message], error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return entity.Fail[*entity.Message](entity.CodeInvalidInput, "Message is empty"), nil
	}

	store := s.router.Active(ctx)

	for _, id := range []string{from, to} {
		user, err := store.Users().FindByID(ctx, id)
		if err != nil {
			return entity.Result[*entity.Message]{}, errors.Wrap(err, "failed to find user")
		}
		if user == nil {
			return entity.Fail[*entity.Message](entity.CodeUserNotFound, "User not found"), nil
		}
	}

	msg := &entity.Message{
		ID:         "msg-" + uuid.NewString(),
		SenderID:   from,
		ReceiverID: to,
		Body:       body,
		SentAt:     time.Now().UTC(),
	}
	if err := store.Messages().Create(ctx, msg); err != nil {
		return entity.Result[*entity.Message]{}, errors.Wrap(err, "failed to send message")
	}

	s.journal.publish(service.SignalNewChatMessage)

	return entity.Ok(msg), nil
}

func (s *messageService) Conversation(ctx context.Context, a, b string) ([]*entity.Message, error) {
	return s.messages(ctx, func(m *entity.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	})
}

func (s *messageService) Inbox(ctx context.Context, userID string) ([]*entity.Message, error) {
	return s.messages(ctx, func(m *entity.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	})
}

// messages filters the chat history and fills in the refund decision of
// refund-request messages from the referenced transaction.
func (s *messageService) messages(ctx context.Context, keep func(*entity.Message) bool) ([]*entity.Message, error) {
	store := s.router.Active(ctx)

	all, err := store.Messages().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	result := make([]*entity.Message, 0, len(all))
	for _, m := range all {
		if !keep(m) {
			continue
		}
		if m.RefundRequest != nil {
			tx, err := store.Transactions().FindByID(ctx, m.RefundRequest.TransactionID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to resolve refund status")
			}
			if tx != nil && tx.RefundStatus != nil {
				status := *tx.RefundStatus
				m.RefundRequest.Decision = &status
			}
		}
		result = append(result, m)
	}

	return result, nil
}

func (s *messageService) Notify(ctx context.Context, userID, title, body string) (entity.Result[*entity.Notification], error) {
	store := s.router.Active(ctx)

	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return entity.Result[*entity.Notification]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.Notification](entity.CodeUserNotFound, "User not found"), nil
	}

	n, err := s.journal.notify(ctx, store, userID, title, body)
	if err != nil {
		return entity.Result[*entity.Notification]{}, err
	}

	return entity.Ok(n), nil
}

func (s *messageService) Notifications(ctx context.Context, userID string) ([]*entity.Notification, error) {
	list, err := s.router.Active(ctx).Notifications().ListByUser(ctx, userID)

	return list, errors.Wrap(err, "failed to list notifications")
}

func (s *messageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := s.Notifications(ctx, userID)
	if err != nil {
		return 0, err
	}

	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}

	return unread, nil
}

func (s *messageService) MarkRead(ctx context.Context, id string) (entity.Result[*entity.Notification], error) {
	notifications := s.router.Active(ctx).Notifications()

	n, err := notifications.FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.Notification]{}, errors.Wrap(err, "failed to find notification")
	}
	if n == nil {
		return entity.Fail[*entity.Notification](entity.CodeNotificationMissing, "Notification not found"), nil
	}

	if !n.Read {
		n.Read = true
		if err := notifications.Update(ctx, n); err != nil {
			return entity.Result[*entity.Notification]{}, errors.Wrap(err, "failed to mark notification read")
		}
		s.journal.publish(service.SignalNotificationsRefresh)
	}

	return entity.Ok(n), nil
}

func (s *messageService) MarkAllRead(ctx context.Context, userID string) (entity.Result[int], error) {
	changed, err := s.router.Active(ctx).Notifications().MarkAllRead(ctx, userID)
	if err != nil {
		return entity.Result[int]{}, errors.Wrap(err, "failed to mark notifications read")
	}

	if changed > 0 {
		s.journal.publish(service.SignalNotificationsRefresh)
	}

	return entity.Ok(changed), nil
}
