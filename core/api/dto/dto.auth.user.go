package dto

// UserResponse - Thông tin user trả về client (không bao giờ kèm password hash)
type UserResponse struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	AssignedAdmins []string `json:"assignedAdmins"`
}

// AssignUserInput dùng cho phân công user vào một admin
type AssignUserInput struct {
	AdminID string `json:"adminId" validate:"required,objectid"` // Admin nhận user; actor admin chỉ được gán cho chính mình
}

// UnassignUserInput dùng cho gỡ phân công user khỏi một admin
type UnassignUserInput struct {
	AdminID string `json:"adminId" validate:"required,objectid"`
	Force   bool   `json:"force,omitempty"` // Chỉ superadmin: gỡ sub-admin khỏi các user cấp dưới thay vì gỡ actor
}
