package handler

import (
	"fmt"

	"field_crm/core/api/dto"
	models "field_crm/core/api/models/mongodb"
	"field_crm/core/api/services"
	"field_crm/core/common"
	"field_crm/core/notification"
	"field_crm/core/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request liên quan đến người dùng và cây phân công
type UserHandler struct {
	*BaseHandler
	userService  *services.UserService
	scopeService *services.ScopeService
	dispatcher   *notification.Dispatcher
}

// NewUserHandler tạo một instance mới của UserHandler
func NewUserHandler(dispatcher *notification.Dispatcher) (*UserHandler, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	scopeService, err := services.NewScopeService()
	if err != nil {
		return nil, fmt.Errorf("failed to create scope service: %v", err)
	}
	return &UserHandler{
		BaseHandler:  &BaseHandler{},
		userService:  userService,
		scopeService: scopeService,
		dispatcher:   dispatcher,
	}, nil
}

// toUserResponses sanitize danh sách user trước khi trả về client
func toUserResponses(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toUserResponse(u models.User) dto.UserResponse {
	admins := make([]string, 0, len(u.AssignedAdmins))
	for _, id := range u.AssignedAdmins {
		admins = append(admins, id.Hex())
	}
	return dto.UserResponse{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		AssignedAdmins: admins,
	}
}

// parseAdminID parse adminId từ body request
func (h *UserHandler) parseAdminID(raw string) (primitive.ObjectID, error) {
	adminID, err := utility.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"adminId không phải ObjectID hợp lệ",
			common.StatusBadRequest,
			nil,
		)
	}
	return adminID, nil
}

// HandleMe trả về profile của actor hiện tại, không kèm dữ liệu nhạy cảm
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.FindOneById(c.Context(), actor.ID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, toUserResponse(user), nil)
		return nil
	})
}

// HandleList trả về các user trong scope của actor
func (h *UserHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		users, err := h.scopeService.VisibleUsers(c.Context(), actor)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, toUserResponses(users), nil)
		return nil
	})
}

// HandleTeam trả về team hai hop của actor
func (h *UserHandler) HandleTeam(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		users, err := h.scopeService.Team(c.Context(), actor)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, toUserResponses(users), nil)
		return nil
	})
}

// HandleTagging trả về các user actor có thể gắn vào assignedTo của entry
func (h *UserHandler) HandleTagging(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		users, err := h.scopeService.TaggableUsers(c.Context(), actor)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, toUserResponses(users), nil)
		return nil
	})
}

// HandleAssign phân công user vào một admin, lan truyền theo subtree
func (h *UserHandler) HandleAssign(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		userID, err := h.ParseObjectIDParam(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.AssignUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		adminID, err := h.parseAdminID(input.AdminID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		intents, err := h.scopeService.Assign(c.Context(), actor, userID, adminID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.dispatcher.DispatchAsync(intents)
		h.HandleResponse(c, nil, nil)
		return nil
	})
}

// HandleUnassign gỡ phân công user khỏi một admin
func (h *UserHandler) HandleUnassign(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.RequireActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		userID, err := h.ParseObjectIDParam(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.UnassignUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		adminID, err := h.parseAdminID(input.AdminID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		intents, err := h.scopeService.Unassign(c.Context(), actor, userID, adminID, input.Force)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.dispatcher.DispatchAsync(intents)
		h.HandleResponse(c, nil, nil)
		return nil
	})
}
