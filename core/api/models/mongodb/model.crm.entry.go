package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái pipeline của một entry
const (
	StatusNotFound      = "Not Found"
	StatusMaybe         = "Maybe"
	StatusInterested    = "Interested"
	StatusNotInterested = "Not Interested"
	StatusClosed        = "Closed"
)

// Các loại chốt deal, chỉ có ý nghĩa khi Status = Closed
const (
	CloseTypeWon  = "Closed Won"
	CloseTypeLost = "Closed Lost"
)

// HistoryMaxLen là số snapshot tối đa trong history của một entry.
// Khi vượt quá, snapshot cũ nhất bị loại bỏ (FIFO).
const HistoryMaxLen = 10

// ValidStatuses danh sách trạng thái hợp lệ
var ValidStatuses = []string{StatusNotFound, StatusMaybe, StatusInterested, StatusNotInterested, StatusClosed}

// ValidCloseTypes danh sách loại chốt deal hợp lệ (rỗng = chưa chốt)
var ValidCloseTypes = []string{"", CloseTypeWon, CloseTypeLost}

// Product - Sản phẩm khách hàng quan tâm, nhúng trong Entry
type Product struct {
	Name          string `json:"name" bson:"name"`
	Specification string `json:"specification,omitempty" bson:"specification,omitempty"`
	Size          string `json:"size,omitempty" bson:"size,omitempty"`
	Quantity      int64  `json:"quantity" bson:"quantity"`
}

// NoRequirementProduct là giá trị chuẩn khi khách hàng chưa có nhu cầu sản phẩm
var NoRequirementProduct = Product{Name: "No Requirement", Quantity: 0}

// HistorySnapshot - Một bản ghi audit đầy đủ trạng thái, bất biến sau khi append.
// Mỗi snapshot tự render độc lập được: các field không đổi được điền từ trạng thái hiện tại.
type HistorySnapshot struct {
	Status           string               `json:"status" bson:"status"`
	Remarks          string               `json:"remarks" bson:"remarks"`
	LiveLocation     string               `json:"liveLocation,omitempty" bson:"liveLocation,omitempty"`
	NextAction       string               `json:"nextAction,omitempty" bson:"nextAction,omitempty"`
	EstimatedValue   int64                `json:"estimatedValue" bson:"estimatedValue"`
	Products         []Product            `json:"products" bson:"products"`
	AssignedTo       []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	FollowUpDate     int64                `json:"followUpDate,omitempty" bson:"followUpDate,omitempty"`
	FirstPersonMeet  string               `json:"firstPersonMeet,omitempty" bson:"firstPersonMeet,omitempty"`
	SecondPersonMeet string               `json:"secondPersonMeet,omitempty" bson:"secondPersonMeet,omitempty"`
	ThirdPersonMeet  string               `json:"thirdPersonMeet,omitempty" bson:"thirdPersonMeet,omitempty"`
	FourthPersonMeet string               `json:"fourthPersonMeet,omitempty" bson:"fourthPersonMeet,omitempty"`
	AttachmentPath   string               `json:"attachmentPath,omitempty" bson:"attachmentPath,omitempty"`
	Timestamp        int64                `json:"timestamp" bson:"timestamp"`
}

// Entry - Khách hàng tiềm năng trong pipeline bán hàng.
// CreatedBy bất biến sau khi tạo. AssignedTo là tập user có quyền xem/sửa và nhận thông báo.
type Entry struct {
	ID                  primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerName        string               `json:"customerName" bson:"customerName"`
	CustomerEmail       string               `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	MobileNumber        string               `json:"mobileNumber" bson:"mobileNumber" index:"single:1"`
	ContactPerson       string               `json:"contactperson,omitempty" bson:"contactperson,omitempty"`
	Firstdate           int64                `json:"firstdate,omitempty" bson:"firstdate,omitempty"`
	Address             string               `json:"address,omitempty" bson:"address,omitempty"`
	State               string               `json:"state" bson:"state"`
	City                string               `json:"city" bson:"city"`
	Organization        string               `json:"organization" bson:"organization"`
	Category            string               `json:"category" bson:"category"`
	Type                string               `json:"type,omitempty" bson:"type,omitempty"`
	EstimatedValue      int64                `json:"estimatedValue,omitempty" bson:"estimatedValue,omitempty"`
	CloseAmount         int64                `json:"closeamount,omitempty" bson:"closeamount,omitempty"`
	Closetype           string               `json:"closetype,omitempty" bson:"closetype,omitempty"` // Không tự xóa khi status rời Closed
	Products            []Product            `json:"products" bson:"products"`
	Status              string               `json:"status" bson:"status" index:"single:1"`
	FollowUpDate        int64                `json:"followUpDate,omitempty" bson:"followUpDate,omitempty" index:"single:1"`
	ExpectedClosingDate int64                `json:"expectedClosingDate,omitempty" bson:"expectedClosingDate,omitempty" index:"single:1"`
	Remarks             string               `json:"remarks,omitempty" bson:"remarks,omitempty"`
	LiveLocation        string               `json:"liveLocation,omitempty" bson:"liveLocation,omitempty"`
	NextAction          string               `json:"nextAction,omitempty" bson:"nextAction,omitempty"`
	FirstPersonMeet     string               `json:"firstPersonMeet,omitempty" bson:"firstPersonMeet,omitempty"`
	SecondPersonMeet    string               `json:"secondPersonMeet,omitempty" bson:"secondPersonMeet,omitempty"`
	ThirdPersonMeet     string               `json:"thirdPersonMeet,omitempty" bson:"thirdPersonMeet,omitempty"`
	FourthPersonMeet    string               `json:"fourthPersonMeet,omitempty" bson:"fourthPersonMeet,omitempty"`
	AttachmentPath      string               `json:"attachmentpath,omitempty" bson:"attachmentpath,omitempty"`
	CreatedBy           primitive.ObjectID   `json:"createdBy" bson:"createdBy" index:"single:1"`
	AssignedTo          []primitive.ObjectID `json:"assignedTo" bson:"assignedTo" index:"single:1"`
	History             []HistorySnapshot    `json:"history" bson:"history"`
	CreatedAt           int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt           int64                `json:"updatedAt" bson:"updatedAt"`
}

// IsValidStatus kiểm tra status có thuộc enum không
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidCloseType kiểm tra closetype có thuộc enum không
func IsValidCloseType(closetype string) bool {
	for _, c := range ValidCloseTypes {
		if c == closetype {
			return true
		}
	}
	return false
}

// AppendHistory thêm snapshot vào history và giữ độ dài tối đa HistoryMaxLen.
// Snapshot cũ nhất bị loại bỏ lặng lẽ khi vượt cap.
func (e *Entry) AppendHistory(snapshot HistorySnapshot) {
	e.History = append(e.History, snapshot)
	if len(e.History) > HistoryMaxLen {
		e.History = e.History[len(e.History)-HistoryMaxLen:]
	}
}

// NormalizeProducts chuẩn hóa danh sách sản phẩm: rỗng hoặc toàn phần tử
// không tên sẽ thành một sản phẩm "No Requirement" duy nhất.
func NormalizeProducts(products []Product) []Product {
	cleaned := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Name != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return []Product{NoRequirementProduct}
	}
	return cleaned
}
