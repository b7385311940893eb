package handler

import (
	"net/http"

	"rewards/internal/delivery/api/response"
	"rewards/internal/domain/entity"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MessageHandlerParams holds dependencies for MessageHandler, injected by Fx.
type MessageHandlerParams struct {
	fx.In

	MessageUC usecase.MessageUsecase
}

// MessageHandler serves chat messages and in-app notifications.
type MessageHandler struct {
	messageUC usecase.MessageUsecase
}

func NewMessageHandler(params MessageHandlerParams) *MessageHandler {
	return &MessageHandler{messageUC: params.MessageUC}
}

type SendMessageRequest struct {
	To   string `json:"to" validate:"required"`
	Body string `json:"body" validate:"required"`
}

type CreateNotificationRequest struct {
	UserID string `json:"userId" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body"`
}

// Send posts a chat message from the caller.
func (h *MessageHandler) Send(c echo.Context) error {
	from, err := callerID(c)
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.messageUC.Send(c.Request().Context(), from, req.To, req.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// Conversation returns the thread between the caller and ?with=.
// Without ?with= it returns every message the caller sent or received.
func (h *MessageHandler) Conversation(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	with := c.QueryParam("with")

	if with == "" {
		messages, err := h.messageUC.Inbox(ctx, userID)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, messages)
	}

	messages, err := h.messageUC.Conversation(ctx, userID, with)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, messages)
}

// Notifications lists the caller's notifications.
func (h *MessageHandler) Notifications(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	notifications, err := h.messageUC.Notifications(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notifications)
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	count, err := h.messageUC.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"unread": count})
}

// CreateNotification lets staff alert a user directly.
func (h *MessageHandler) CreateNotification(c echo.Context) error {
	var req CreateNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.messageUC.Notify(c.Request().Context(), req.UserID, req.Title, req.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// MarkRead marks one of the caller's notifications read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	// Another user's notification is reported as missing.
	owned, err := h.owns(c, userID, id)
	if err != nil {
		return err
	}
	if !owned {
		return response.NotFound(c, entity.CodeNotificationMissing, "Notification not found")
	}

	result, err := h.messageUC.MarkRead(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *MessageHandler) MarkAllRead(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	result, err := h.messageUC.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

// owns reports whether notification id belongs to userID.
func (h *MessageHandler) owns(c echo.Context, userID, id string) (bool, error) {
	notifications, err := h.messageUC.Notifications(c.Request().Context(), userID)
	if err != nil {
		return false, errors.WithStack(err)
	}

	for _, n := range notifications {
		if n.ID == id {
			return true, nil
		}
	}

	return false, nil
}
