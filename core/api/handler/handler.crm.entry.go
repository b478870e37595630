package handler

import (
	"fmt"

	"field_crm/core/api/dto"
	"field_crm/core/api/services"
	"field_crm/core/notification"

	"github.com/gofiber/fiber/v3"
)

// EntryHandler xử lý các request liên quan đến entry trong pipeline
type EntryHandler struct {
	*BaseHandler
	entryService *services.EntryService
	dispatcher   *notification.Dispatcher
}

// NewEntryHandler tạo một instance mới của EntryHandler
func NewEntryHandler(dispatcher *notification.Dispatcher) (*EntryHandler, error) {
	entryService, err := services.NewEntryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create entry service: %v", err)
	}
	return &EntryHandler{
		BaseHandler:  &BaseHandler{},
		entryService: entryService,
		dispatcher:   dispatcher,
	}, nil
}

// HandleCreate tạo entry mới.
// Mutation trả về intents thông báo, dispatcher tiêu thụ async:
// request không bao giờ chờ persist/push thông báo.
func (h *EntryHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.EntryCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entry, intents, err := h.entryService.Create(c.Context(), actor, &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.dispatcher.DispatchAsync(intents)
		h.HandleResponse(c, entry, nil)
		return nil
	})
}

// HandleList trả về danh sách entry trong scope của actor, phân trang
func (h *EntryHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		query := dto.EntryListQuery{
			Page:   page,
			Limit:  limit,
			Status: c.Query("status"),
			State:  c.Query("state"),
			City:   c.Query("city"),
		}

		result, err := h.entryService.List(c.Context(), actor, &query)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetById trả về một entry nếu nằm trong scope của actor
func (h *EntryHandler) HandleGetById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := h.ParseObjectIDParam(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entry, err := h.entryService.GetById(c.Context(), actor, entryID)
		h.HandleResponse(c, entry, err)
		return nil
	})
}

// HandleUpdate sửa entry theo tập field đóng, chạy chuỗi rule history
func (h *EntryHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := h.ParseObjectIDParam(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.EntryUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entry, intents, err := h.entryService.Update(c.Context(), actor, entryID, &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.dispatcher.DispatchAsync(intents)
		h.HandleResponse(c, entry, nil)
		return nil
	})
}

// HandleDelete xóa entry trong scope của actor
func (h *EntryHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := h.ParseObjectIDParam(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.entryService.Delete(c.Context(), actor, entryID)
		h.HandleResponse(c, nil, err)
		return nil
	})
}
