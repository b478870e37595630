// Package notification cung cấp fan-out thông báo: mutation nghiệp vụ trả về
// danh sách intent, dispatcher tiêu thụ bất đồng bộ (persist luôn, đẩy realtime best-effort).
package notification

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_crm/core/utility"
)

// Intent là một thông báo chờ gửi cho đúng một user.
// Mutation nghiệp vụ tạo intents nhưng không tự gửi: ranh giới transaction rõ ràng,
// lỗi gửi không bao giờ làm hỏng write chính.
type Intent struct {
	UserID  primitive.ObjectID
	Message string
	EntryID *primitive.ObjectID
}

// FanOut tạo một intent cùng message cho mỗi user, loại bỏ user trùng.
// Trùng lặp giữa các loại message khác nhau là chấp nhận được và không khử thêm.
func FanOut(userIDs []primitive.ObjectID, message string, entryID *primitive.ObjectID) []Intent {
	intents := make([]Intent, 0, len(userIDs))
	for _, userID := range utility.DedupeObjectIDs(userIDs) {
		if userID.IsZero() {
			continue
		}
		intents = append(intents, Intent{UserID: userID, Message: message, EntryID: entryID})
	}
	return intents
}
