package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification - Thông báo cho một user, tạo bởi fan-out khi có sự kiện.
// Chỉ được mutate bởi mark-read (bulk, theo user) hoặc clear toàn bộ bởi chính chủ.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId" index:"single:1"`
	Message   string              `json:"message" bson:"message"`
	EntryID   *primitive.ObjectID `json:"entryId,omitempty" bson:"entryId,omitempty"`
	Read      bool                `json:"read" bson:"read" index:"single:1"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt" index:"single:-1,order:-1"`
}
