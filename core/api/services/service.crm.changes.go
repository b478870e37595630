package services

import (
	"strings"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// copyObjectIDs sao chép slice id để snapshot không chia sẻ backing array với entry
func copyObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

// ChangeRule mô tả một loại thay đổi trên entry kích hoạt ghi history.
// Các rule được đánh giá theo thứ tự cố định; rule đầu tiên khớp quyết định
// remark mặc định khi người dùng không nhập remark mới.
type ChangeRule struct {
	Name          string
	DefaultRemark string
	Changed       func(old, next *models.Entry) bool
}

// EntryChangeRules là danh sách rule theo thứ tự ưu tiên
var EntryChangeRules = []ChangeRule{
	{
		Name:          "status",
		DefaultRemark: "Status updated",
		Changed: func(old, next *models.Entry) bool {
			return old.Status != next.Status
		},
	},
	{
		Name:          "remarks",
		DefaultRemark: "Remarks updated",
		Changed: func(old, next *models.Entry) bool {
			return next.Remarks != "" && old.Remarks != next.Remarks
		},
	},
	{
		Name:          "products",
		DefaultRemark: "Products updated",
		Changed: func(old, next *models.Entry) bool {
			return !equalProducts(old.Products, next.Products)
		},
	},
	{
		Name:          "assignedTo",
		DefaultRemark: "Assignment updated",
		Changed: func(old, next *models.Entry) bool {
			return !utility.EqualObjectIDSets(old.AssignedTo, next.AssignedTo)
		},
	},
	{
		Name:          "followUpDate",
		DefaultRemark: "Follow-up date updated",
		Changed: func(old, next *models.Entry) bool {
			return old.FollowUpDate != next.FollowUpDate
		},
	},
	{
		Name:          "personMeet",
		DefaultRemark: "Person meet updated",
		Changed: func(old, next *models.Entry) bool {
			return personMeetChanged(old.FirstPersonMeet, next.FirstPersonMeet) ||
				personMeetChanged(old.SecondPersonMeet, next.SecondPersonMeet) ||
				personMeetChanged(old.ThirdPersonMeet, next.ThirdPersonMeet) ||
				personMeetChanged(old.FourthPersonMeet, next.FourthPersonMeet)
		},
	},
	{
		Name:          "attachment",
		DefaultRemark: "Attachment updated",
		Changed: func(old, next *models.Entry) bool {
			return old.AttachmentPath != next.AttachmentPath
		},
	},
}

// EvaluateChanges chạy toàn bộ rule theo thứ tự và trả về tên các rule đã khớp
// cùng remark mặc định của rule khớp đầu tiên. Không khớp rule nào thì
// remark mặc định rỗng và không ghi history.
func EvaluateChanges(old, next *models.Entry) (fired []string, defaultRemark string) {
	for _, rule := range EntryChangeRules {
		if rule.Changed(old, next) {
			if len(fired) == 0 {
				defaultRemark = rule.DefaultRemark
			}
			fired = append(fired, rule.Name)
		}
	}
	return fired, defaultRemark
}

// BuildSnapshot chụp toàn bộ trạng thái hiện tại của entry thành một snapshot.
// remarks là remark hiển thị trong history, đã resolve giữa input và mặc định.
func BuildSnapshot(next *models.Entry, remarks string, timestamp int64) models.HistorySnapshot {
	products := make([]models.Product, len(next.Products))
	copy(products, next.Products)
	return models.HistorySnapshot{
		Status:           next.Status,
		Remarks:          remarks,
		LiveLocation:     next.LiveLocation,
		NextAction:       next.NextAction,
		EstimatedValue:   next.EstimatedValue,
		Products:         products,
		AssignedTo:       copyObjectIDs(next.AssignedTo),
		FollowUpDate:     next.FollowUpDate,
		FirstPersonMeet:  next.FirstPersonMeet,
		SecondPersonMeet: next.SecondPersonMeet,
		ThirdPersonMeet:  next.ThirdPersonMeet,
		FourthPersonMeet: next.FourthPersonMeet,
		AttachmentPath:   next.AttachmentPath,
		Timestamp:        timestamp,
	}
}

// personMeetChanged chỉ tính là thay đổi khi giá trị mới không rỗng sau khi trim
// và khác giá trị cũ. Xóa person meet về rỗng không tạo history.
func personMeetChanged(old, next string) bool {
	trimmed := strings.TrimSpace(next)
	return trimmed != "" && trimmed != strings.TrimSpace(old)
}

// equalProducts so sánh hai danh sách sản phẩm theo thứ tự và toàn bộ field
func equalProducts(a, b []models.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
