package router

import (
	"fmt"

	"field_crm/core/api/handler"
	"field_crm/core/api/middleware"
	models "field_crm/core/api/models/mongodb"
	"field_crm/core/notification"

	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// ⚠️ QUAN TRỌNG: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
// ============================================================================
//
// Fiber v3 có BUG với cách đăng ký middleware trực tiếp trong route.
// Middleware sẽ KHÔNG được gọi nếu dùng cách trực tiếp!
//
// ❌ CÁCH SAI (KHÔNG HOẠT ĐỘNG):
//    router.Get("/path", middleware.AuthMiddleware(), handler)
//
// ✅ CÁCH ĐÚNG (PHẢI DÙNG):
//    registerRouteWithMiddleware(router, "/prefix", "GET", "/path", []fiber.Handler{authMiddleware}, handler)
//    → Middleware được gọi đúng cách thông qua .Use() method trên group
//
// ============================================================================

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// registerRouteWithMiddleware đăng ký route với middleware qua .Use() trên group
func registerRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, h fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, h)
	case "POST":
		routeGroup.Post(path, h)
	case "PUT":
		routeGroup.Put(path, h)
	case "DELETE":
		routeGroup.Delete(path, h)
	}
}

// SetupRoutes đăng ký toàn bộ route của ứng dụng.
// Mọi route nghiệp vụ đều nằm sau AuthMiddleware; dispatcher được chia sẻ
// cho các handler để đẩy thông báo async.
func (r *Router) SetupRoutes(dispatcher *notification.Dispatcher) error {
	prefix := NewRoutePrefix()
	v1 := r.app.Group(prefix.V1)

	authMw := middleware.AuthMiddleware()

	// Health check, không cần xác thực
	r.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Entries
	entryHandler, err := handler.NewEntryHandler(dispatcher)
	if err != nil {
		return fmt.Errorf("failed to create entry handler: %w", err)
	}
	registerRouteWithMiddleware(v1, "/entries", "POST", "/", []fiber.Handler{authMw}, entryHandler.HandleCreate)
	registerRouteWithMiddleware(v1, "/entries", "GET", "/", []fiber.Handler{authMw}, entryHandler.HandleList)
	registerRouteWithMiddleware(v1, "/entries", "GET", "/:id", []fiber.Handler{authMw}, entryHandler.HandleGetById)
	registerRouteWithMiddleware(v1, "/entries", "PUT", "/:id", []fiber.Handler{authMw}, entryHandler.HandleUpdate)
	registerRouteWithMiddleware(v1, "/entries", "DELETE", "/:id", []fiber.Handler{authMw}, entryHandler.HandleDelete)

	// Users + phân công
	userHandler, err := handler.NewUserHandler(dispatcher)
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	registerRouteWithMiddleware(v1, "/users", "GET", "/", []fiber.Handler{authMw}, userHandler.HandleList)
	registerRouteWithMiddleware(v1, "/users", "GET", "/me", []fiber.Handler{authMw}, userHandler.HandleMe)
	registerRouteWithMiddleware(v1, "/users", "GET", "/team", []fiber.Handler{authMw}, userHandler.HandleTeam)
	registerRouteWithMiddleware(v1, "/users", "GET", "/tagging", []fiber.Handler{authMw}, userHandler.HandleTagging)
	// Phân công chỉ dành cho admin và superadmin, chặn ngay từ tầng route
	adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin)
	registerRouteWithMiddleware(v1, "/users", "POST", "/:id/assign", []fiber.Handler{authMw, adminOnly}, userHandler.HandleAssign)
	registerRouteWithMiddleware(v1, "/users", "POST", "/:id/unassign", []fiber.Handler{authMw, adminOnly}, userHandler.HandleUnassign)

	// Notifications
	notificationHandler, err := handler.NewNotificationHandler(dispatcher)
	if err != nil {
		return fmt.Errorf("failed to create notification handler: %w", err)
	}
	registerRouteWithMiddleware(v1, "/notifications", "GET", "/", []fiber.Handler{authMw}, notificationHandler.HandleList)
	registerRouteWithMiddleware(v1, "/notifications", "GET", "/unread-count", []fiber.Handler{authMw}, notificationHandler.HandleUnreadCount)
	registerRouteWithMiddleware(v1, "/notifications", "POST", "/mark-read", []fiber.Handler{authMw}, notificationHandler.HandleMarkRead)
	registerRouteWithMiddleware(v1, "/notifications", "DELETE", "/", []fiber.Handler{authMw}, notificationHandler.HandleClearAll)

	return nil
}
