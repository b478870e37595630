package services

import (
	"context"
	"fmt"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/common"
	"field_crm/core/global"
	"field_crm/core/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationService quản lý thông báo bền vững của user.
// Thông báo luôn được ghi database trước, đẩy realtime chỉ là best-effort.
type NotificationService struct {
	*BaseServiceMongoImpl[models.Notification]
}

// NewNotificationService tạo mới NotificationService
func NewNotificationService() (*NotificationService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Notifications)
	if !exist {
		return nil, fmt.Errorf("failed to get notifications collection: %v", common.ErrNotFound)
	}
	return &NotificationService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Notification](collection),
	}, nil
}

// Create ghi một thông báo mới cho user. Đây là điểm persist duy nhất
// của hệ thống thông báo, dispatcher gọi qua interface notification.Store.
func (s *NotificationService) Create(ctx context.Context, userID primitive.ObjectID, message string, entryID *primitive.ObjectID) (models.Notification, error) {
	return s.InsertOne(ctx, models.Notification{
		UserID:  userID,
		Message: message,
		EntryID: entryID,
		Read:    false,
	})
}

// ListForUser trả về thông báo của user, phân trang, mới nhất trước
func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) (*PaginateResult[models.Notification], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.FindWithPagination(ctx, bson.M{"userId": userID}, page, limit, opts)
}

// CountUnread đếm số thông báo chưa đọc của user
func (s *NotificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

// MarkRead đánh dấu đã đọc các thông báo theo id, luôn ràng buộc về đúng user.
// ids rỗng nghĩa là đánh dấu toàn bộ thông báo chưa đọc của user.
func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, rawIds []string) (int64, error) {
	filter := bson.M{"userId": userID, "read": false}
	if len(rawIds) > 0 {
		ids, err := utility.ObjectIDsFromHex(rawIds)
		if err != nil {
			return 0, common.ErrInvalidFormat
		}
		filter["_id"] = bson.M{"$in": ids}
	}
	return s.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}}, nil)
}

// ClearAll xóa toàn bộ thông báo của user
func (s *NotificationService) ClearAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.DeleteMany(ctx, bson.M{"userId": userID})
}
