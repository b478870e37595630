package services

import (
	"context"
	"fmt"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/common"
	"field_crm/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// FindByUsername tìm user theo username
func (s *UserService) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.FindOne(ctx, bson.M{"username": username}, nil)
}

// FindDirectReports tìm các user báo cáo trực tiếp cho một admin
func (s *UserService) FindDirectReports(ctx context.Context, adminID primitive.ObjectID) ([]models.User, error) {
	return s.Find(ctx, bson.M{"assignedAdmins": adminID}, nil)
}

// FindReportsOfAdmins tìm các user báo cáo cho bất kỳ admin nào trong danh sách
func (s *UserService) FindReportsOfAdmins(ctx context.Context, adminIDs []primitive.ObjectID) ([]models.User, error) {
	if len(adminIDs) == 0 {
		return []models.User{}, nil
	}
	return s.Find(ctx, bson.M{"assignedAdmins": bson.M{"$in": adminIDs}}, nil)
}

// AddAdminToUsers thêm một admin vào assignedAdmins của nhiều user ($addToSet)
func (s *UserService) AddAdminToUsers(ctx context.Context, userIDs []primitive.ObjectID, adminID primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	update := UpdateData{
		AddToSet: map[string]interface{}{"assignedAdmins": adminID},
	}
	return s.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": userIDs}}, &update, nil)
}

// RemoveAdminFromUsers gỡ một admin khỏi assignedAdmins của nhiều user ($pull)
// Gỡ cả dấu vết provenance trong superadminAssigned nếu có
func (s *UserService) RemoveAdminFromUsers(ctx context.Context, userIDs []primitive.ObjectID, adminID primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"_id": bson.M{"$in": userIDs}}
	update := bson.M{
		"$pull": bson.M{
			"assignedAdmins":     adminID,
			"superadminAssigned": adminID,
		},
	}
	result, err := s.Collection().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}
