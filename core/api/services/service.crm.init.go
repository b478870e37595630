package services

import (
	"context"
	"time"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// InitService khởi tạo dữ liệu mặc định khi server start
type InitService struct {
	userService *UserService
}

// NewInitService tạo mới InitService
func NewInitService() (*InitService, error) {
	userService, err := NewUserService()
	if err != nil {
		return nil, err
	}
	return &InitService{userService: userService}, nil
}

// EnsureSuperadmin đảm bảo hệ thống có ít nhất một superadmin.
// Khi chưa có, tạo tài khoản "superadmin" placeholder; việc cấp credentials
// do hệ thống phát hành token bên ngoài đảm nhiệm.
func (s *InitService) EnsureSuperadmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := s.userService.CountDocuments(ctx, bson.M{"role": models.RoleSuperadmin})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.userService.InsertOne(ctx, models.User{
		Username: "superadmin",
		Email:    "superadmin@localhost",
		Role:     models.RoleSuperadmin,
	})
	if err != nil {
		return err
	}

	logger.GetAppLogger().Warn("🔄 [INIT] No superadmin found, created default 'superadmin' account")
	return nil
}
