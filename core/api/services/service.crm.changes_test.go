// Package services - Test chuỗi rule thay đổi của entry.
package services

import (
	"testing"

	models "field_crm/core/api/models/mongodb"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func baseEntry() models.Entry {
	return models.Entry{
		Status:       models.StatusNotFound,
		Remarks:      "ghi chú cũ",
		Products:     []models.Product{{Name: "Van", Quantity: 2}},
		AssignedTo:   []primitive.ObjectID{},
		FollowUpDate: 1000,
	}
}

func TestEvaluateChanges_KhongDoiKhongFire(t *testing.T) {
	old := baseEntry()
	next := baseEntry()

	fired, remark := EvaluateChanges(&old, &next)
	assert.Empty(t, fired, "không có thay đổi thì không rule nào fire")
	assert.Equal(t, "", remark)
}

func TestEvaluateChanges_StatusDoi(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	next.Status = models.StatusInterested

	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"status"}, fired)
	assert.Equal(t, "Status updated", remark)
}

func TestEvaluateChanges_RuleDauTienQuyetDinhRemark(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	// Đổi cả status lẫn followUpDate: status đứng trước trong danh sách rule
	next.Status = models.StatusMaybe
	next.FollowUpDate = 2000

	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"status", "followUpDate"}, fired)
	assert.Equal(t, "Status updated", remark)
}

func TestEvaluateChanges_ChiFollowUpDate(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	next.FollowUpDate = 2000

	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"followUpDate"}, fired)
	assert.Equal(t, "Follow-up date updated", remark)
}

func TestEvaluateChanges_RemarksRongKhongFire(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	next.Remarks = ""

	fired, _ := EvaluateChanges(&old, &next)
	assert.Empty(t, fired, "xóa remarks về rỗng không được coi là thay đổi remarks")
}

func TestEvaluateChanges_ProductsDoiSau(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	next.Products = []models.Product{{Name: "Van", Quantity: 3}}

	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"products"}, fired)
	assert.Equal(t, "Products updated", remark)
}

func TestEvaluateChanges_AssignedToKhongPhuThuocThuTu(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	old := baseEntry()
	old.AssignedTo = []primitive.ObjectID{a, b}
	next := baseEntry()
	next.AssignedTo = []primitive.ObjectID{b, a}

	fired, _ := EvaluateChanges(&old, &next)
	assert.Empty(t, fired, "đảo thứ tự assignedTo không phải thay đổi")

	next.AssignedTo = []primitive.ObjectID{a}
	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"assignedTo"}, fired)
	assert.Equal(t, "Assignment updated", remark)
}

func TestEvaluateChanges_PersonMeetBatKyTruongNao(t *testing.T) {
	old := baseEntry()
	next := baseEntry()
	next.ThirdPersonMeet = "Anh Ba"

	fired, remark := EvaluateChanges(&old, &next)
	assert.Equal(t, []string{"personMeet"}, fired)
	assert.Equal(t, "Person meet updated", remark)
}

func TestEvaluateChanges_PersonMeetXoaVeRongKhongFire(t *testing.T) {
	old := baseEntry()
	old.FirstPersonMeet = "Anh Tư"
	next := old
	next.FirstPersonMeet = ""

	fired, _ := EvaluateChanges(&old, &next)
	assert.Empty(t, fired, "xóa person meet về rỗng không tạo history")

	next.FirstPersonMeet = "   "
	fired, _ = EvaluateChanges(&old, &next)
	assert.Empty(t, fired, "giá trị chỉ có khoảng trắng không tính là thay đổi")
}

func TestBuildSnapshot_ChupDayDuTrangThai(t *testing.T) {
	e := baseEntry()
	e.Status = models.StatusClosed
	e.LiveLocation = "10.762,106.660"
	e.AssignedTo = []primitive.ObjectID{primitive.NewObjectID()}

	snap := BuildSnapshot(&e, "Chốt deal", 123456)

	assert.Equal(t, models.StatusClosed, snap.Status)
	assert.Equal(t, "Chốt deal", snap.Remarks)
	assert.Equal(t, e.LiveLocation, snap.LiveLocation)
	assert.Equal(t, int64(123456), snap.Timestamp)
	assert.Equal(t, e.Products, snap.Products)
	assert.Equal(t, e.AssignedTo, snap.AssignedTo)
}

func TestBuildSnapshot_KhongChiaSeBackingArray(t *testing.T) {
	e := baseEntry()
	e.AssignedTo = []primitive.ObjectID{primitive.NewObjectID()}
	snap := BuildSnapshot(&e, "x", 1)

	// Sửa entry sau khi chụp không được làm thay đổi snapshot
	e.Products[0].Quantity = 99
	e.AssignedTo[0] = primitive.NewObjectID()

	assert.Equal(t, int64(2), snap.Products[0].Quantity)
	assert.NotEqual(t, e.AssignedTo[0], snap.AssignedTo[0])
}
