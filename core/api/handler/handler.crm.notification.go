package handler

import (
	"fmt"

	"field_crm/core/api/dto"
	"field_crm/core/api/services"
	"field_crm/core/notification"

	"github.com/gofiber/fiber/v3"
)

// NotificationHandler xử lý các request liên quan đến thông báo của user
type NotificationHandler struct {
	*BaseHandler
	notificationService *services.NotificationService
	dispatcher          *notification.Dispatcher
}

// NewNotificationHandler tạo một instance mới của NotificationHandler
func NewNotificationHandler(dispatcher *notification.Dispatcher) (*NotificationHandler, error) {
	notificationService, err := services.NewNotificationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %v", err)
	}
	return &NotificationHandler{
		BaseHandler:         &BaseHandler{},
		notificationService: notificationService,
		dispatcher:          dispatcher,
	}, nil
}

// HandleList trả về thông báo của actor, phân trang, mới nhất trước
func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.notificationService.ListForUser(c.Context(), actor.ID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleUnreadCount trả về số thông báo chưa đọc của actor
func (h *NotificationHandler) HandleUnreadCount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.notificationService.CountUnread(c.Context(), actor.ID)
		h.HandleResponse(c, fiber.Map{"unread": count}, err)
		return nil
	})
}

// HandleMarkRead đánh dấu đã đọc. ids rỗng nghĩa là toàn bộ thông báo của actor.
// Chỉ đánh dấu được thông báo của chính actor, id của user khác bị bỏ qua.
func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.MarkNotificationsReadInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		marked, err := h.notificationService.MarkRead(c.Context(), actor.ID, input.Ids)
		h.HandleResponse(c, fiber.Map{"marked": marked}, err)
		return nil
	})
}

// HandleClearAll xóa toàn bộ thông báo của actor và phát sự kiện realtime
func (h *NotificationHandler) HandleClearAll(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		cleared, err := h.notificationService.ClearAll(c.Context(), actor.ID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.dispatcher.EmitCleared(actor.ID)
		h.HandleResponse(c, fiber.Map{"cleared": cleared}, nil)
		return nil
	})
}
