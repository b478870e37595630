package dto

// NotificationListQuery dùng cho phân trang danh sách thông báo
type NotificationListQuery struct {
	Page  int64 `query:"page"`
	Limit int64 `query:"limit"`
}

// MarkNotificationsReadInput dùng cho đánh dấu đã đọc hàng loạt
// Ids rỗng = đánh dấu tất cả thông báo của actor
type MarkNotificationsReadInput struct {
	Ids []string `json:"ids,omitempty" validate:"omitempty,dive,objectid"`
}
