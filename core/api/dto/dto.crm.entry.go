package dto

// ProductInput - Sản phẩm khách quan tâm trong request tạo/sửa entry
type ProductInput struct {
	Name          string `json:"name"`
	Specification string `json:"specification,omitempty"`
	Size          string `json:"size,omitempty"`
	Quantity      int64  `json:"quantity"`
}

// EntryCreateInput dùng cho tạo entry (tầng transport)
// Backend validate rồi transform sang Model, set CreatedBy từ actor
type EntryCreateInput struct {
	CustomerName        string         `json:"customerName" validate:"required"`
	CustomerEmail       string         `json:"customerEmail,omitempty" validate:"omitempty,email"`
	MobileNumber        string         `json:"mobileNumber" validate:"required,len=10,numeric"`
	ContactPerson       string         `json:"contactperson,omitempty"`
	Firstdate           string         `json:"firstdate,omitempty"` // Ngày dạng chuỗi, parse sang UnixMilli
	Address             string         `json:"address,omitempty"`
	State               string         `json:"state" validate:"required"`
	City                string         `json:"city" validate:"required"`
	Organization        string         `json:"organization" validate:"required"`
	Category            string         `json:"category" validate:"required"`
	Type                string         `json:"type,omitempty"`
	EstimatedValue      int64          `json:"estimatedValue,omitempty"`
	Products            []ProductInput `json:"products,omitempty"`
	Status              string         `json:"status,omitempty"` // Default "Not Found" nếu rỗng
	FollowUpDate        string         `json:"followUpDate,omitempty"`
	ExpectedClosingDate string         `json:"expectedClosingDate,omitempty"`
	Remarks             string         `json:"remarks,omitempty"`
	LiveLocation        string         `json:"liveLocation,omitempty"`
	NextAction          string         `json:"nextAction,omitempty"`
	FirstPersonMeet     string         `json:"firstPersonMeet,omitempty"`
	SecondPersonMeet    string         `json:"secondPersonMeet,omitempty"`
	ThirdPersonMeet     string         `json:"thirdPersonMeet,omitempty"`
	FourthPersonMeet    string         `json:"fourthPersonMeet,omitempty"`
	AttachmentPath      string         `json:"attachmentpath,omitempty"`
	AssignedTo          []string       `json:"assignedTo,omitempty" validate:"omitempty,dive,objectid"`
}

// EntryUpdateInput dùng cho sửa entry (tầng transport)
// Tập field đóng: field lạ trong request bị từ chối (handler bật DisallowUnknownFields).
// Pointer = client có gửi field này; nil = giữ nguyên giá trị hiện tại.
type EntryUpdateInput struct {
	CustomerName        *string         `json:"customerName,omitempty"`
	CustomerEmail       *string         `json:"customerEmail,omitempty" validate:"omitempty,email"`
	MobileNumber        *string         `json:"mobileNumber,omitempty" validate:"omitempty,len=10,numeric"`
	ContactPerson       *string         `json:"contactperson,omitempty"`
	Firstdate           *string         `json:"firstdate,omitempty"`
	Address             *string         `json:"address,omitempty"`
	State               *string         `json:"state,omitempty"`
	City                *string         `json:"city,omitempty"`
	Organization        *string         `json:"organization,omitempty"`
	Category            *string         `json:"category,omitempty"`
	Type                *string         `json:"type,omitempty"`
	EstimatedValue      *int64          `json:"estimatedValue,omitempty"`
	CloseAmount         *int64          `json:"closeamount,omitempty"`
	Closetype           *string         `json:"closetype,omitempty"`
	Products            *[]ProductInput `json:"products,omitempty"`
	Status              *string         `json:"status,omitempty"`
	FollowUpDate        *string         `json:"followUpDate,omitempty"`
	ExpectedClosingDate *string         `json:"expectedClosingDate,omitempty"`
	Remarks             *string         `json:"remarks,omitempty"`
	LiveLocation        *string         `json:"liveLocation,omitempty"`
	NextAction          *string         `json:"nextAction,omitempty"`
	FirstPersonMeet     *string         `json:"firstPersonMeet,omitempty"`
	SecondPersonMeet    *string         `json:"secondPersonMeet,omitempty"`
	ThirdPersonMeet     *string         `json:"thirdPersonMeet,omitempty"`
	FourthPersonMeet    *string         `json:"fourthPersonMeet,omitempty"`
	AttachmentPath      *string         `json:"attachmentpath,omitempty"`
	AssignedTo          *[]string       `json:"assignedTo,omitempty" validate:"omitempty,dive,objectid"`
}

// EntryListQuery dùng cho filter danh sách entry
type EntryListQuery struct {
	Page   int64  `query:"page"`
	Limit  int64  `query:"limit"`
	Status string `query:"status"`
	State  string `query:"state"`
	City   string `query:"city"`
}
