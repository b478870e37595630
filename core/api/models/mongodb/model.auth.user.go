package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò người dùng trong hệ thống
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOthers     = "others"
)

// User - Người dùng hệ thống CRM
// AssignedAdmins là tập các admin mà user này báo cáo trực tiếp (adjacency set).
// Superadmin không bao giờ xuất hiện trong AssignedAdmins của bất kỳ ai.
type User struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username       string               `json:"username" bson:"username" index:"unique"`
	Email          string               `json:"email" bson:"email" index:"unique"`
	PhoneNumber    string               `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Password       string               `json:"-" bson:"password"` // Hash mật khẩu, do hệ thống xác thực bên ngoài quản lý
	Role           string               `json:"role" bson:"role" index:"single:1"` // superadmin, admin, others
	AssignedAdmins []primitive.ObjectID `json:"assignedAdmins" bson:"assignedAdmins" index:"single:1"`
	// SuperadminAssigned là tập con của AssignedAdmins: các cạnh do superadmin thiết lập.
	// Admin thường không được gỡ các cạnh này trừ khi chính họ nằm trong AssignedAdmins.
	SuperadminAssigned []primitive.ObjectID `json:"superadminAssigned,omitempty" bson:"superadminAssigned,omitempty"`
	CreatedAt          int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt          int64                `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin kiểm tra user có vai trò admin không
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSuperadmin kiểm tra user có vai trò superadmin không
func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}
