package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/api/services"
	"field_crm/core/common"
	"field_crm/core/global"
	"field_crm/core/logger"
	"field_crm/core/utility"
)

// LocalActor là key lưu Actor trong fiber Locals
const LocalActor = "actor"

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *services.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, err
	}
	return &AuthManager{
		UserCRUD: userService,
		// Cache user 5 phút, dọn dẹp mỗi 10 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// loadUser lấy user từ cache hoặc database theo id
func (am *AuthManager) loadUser(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	cacheKey := "auth_user:" + userID.Hex()
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(models.User), nil
	}

	user, err := am.UserCRUD.FindOneById(ctx, userID)
	if err != nil {
		return models.User{}, common.ErrUserNotFound
	}
	am.Cache.Set(cacheKey, user)
	return user, nil
}

// parseToken xác thực chữ ký JWT và trích userId từ claims
func parseToken(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
	})
	if err != nil {
		ve, ok := err.(*jwt.ValidationError)
		if ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return primitive.NilObjectID, common.ErrTokenExpired
		}
		return primitive.NilObjectID, common.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	rawID, ok := claims["userId"].(string)
	if !ok {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	userID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return userID, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// Role lấy từ database, không tin role trong token: đổi role có hiệu lực
// ngay khi cache hết hạn mà không cần đăng nhập lại.
func AuthMiddleware() fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		userID, err := parseToken(parts[1])
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		user, err := authManager.loadUser(c.Context(), userID)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"userId": userID.Hex(),
			}).Warn("❌ [AUTH] Token user not found")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		c.Locals(LocalActor, services.Actor{
			ID:       user.ID,
			Role:     user.Role,
			Username: user.Username,
		})
		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRoles chặn request nếu actor không thuộc một trong các role cho phép.
// Dùng sau AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := c.Locals(LocalActor).(services.Actor)
		if !ok {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		HandleErrorResponse(c, common.ErrOutOfScope)
		return nil
	}
}

// ActorFromCtx lấy Actor đã xác thực từ fiber context
func ActorFromCtx(c fiber.Ctx) (services.Actor, error) {
	actor, ok := c.Locals(LocalActor).(services.Actor)
	if !ok {
		return services.Actor{}, common.ErrTokenMissing
	}
	return actor, nil
}
