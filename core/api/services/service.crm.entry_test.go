// Package services - Test tập người nhận thông báo khi sửa entry.
package services

import (
	"strings"
	"testing"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/notification"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// countIntents đếm số intent gửi cho một user, lọc theo tiền tố message nếu có
func countIntents(intents []notification.Intent, userID primitive.ObjectID, prefix string) int {
	n := 0
	for _, it := range intents {
		if it.UserID == userID && (prefix == "" || strings.HasPrefix(it.Message, prefix)) {
			n++
		}
	}
	return n
}

func TestUpdateIntents_CreatorVaMoiAssigneeDeuNhanThongBaoChung(t *testing.T) {
	creator := primitive.NewObjectID()
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	actor := Actor{ID: creator, Username: "sale01"}
	s := &EntryService{}

	old := models.Entry{
		ID:           primitive.NewObjectID(),
		CustomerName: "Công ty A",
		CreatedBy:    creator,
		AssignedTo:   []primitive.ObjectID{u1},
	}
	updated := old
	updated.AssignedTo = []primitive.ObjectID{u1, u2}

	intents := s.updateIntents(actor, &old, &updated, []string{"assignedTo"})

	// User mới gắn nhận hai thông báo: được gắn + entry đã sửa
	assert.Equal(t, 1, countIntents(intents, u2, "Tagged in entry"), "u2 phải nhận thông báo được gắn")
	assert.Equal(t, 1, countIntents(intents, u2, "Entry updated"), "u2 vẫn nhận thông báo chung, không khử chéo loại message")
	// Creator nhận thông báo chung kể cả khi chính mình là người sửa
	assert.Equal(t, 1, countIntents(intents, creator, "Entry updated"), "creator luôn nhận thông báo chung")
	// Assignee giữ nguyên cũng nhận thông báo chung
	assert.Equal(t, 1, countIntents(intents, u1, "Entry updated"))
}

func TestUpdateIntents_UserBiGoKhongNhanThongBaoChung(t *testing.T) {
	creator := primitive.NewObjectID()
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	actor := Actor{ID: creator, Username: "sale01"}
	s := &EntryService{}

	old := models.Entry{
		ID:           primitive.NewObjectID(),
		CustomerName: "Công ty B",
		CreatedBy:    creator,
		AssignedTo:   []primitive.ObjectID{u1, u2},
	}
	updated := old
	updated.AssignedTo = []primitive.ObjectID{u1}

	intents := s.updateIntents(actor, &old, &updated, []string{"assignedTo"})

	assert.Equal(t, 1, countIntents(intents, u2, "Removed from entry"))
	assert.Equal(t, 0, countIntents(intents, u2, "Entry updated"), "user bị gỡ không còn là assignee hiện tại")
	assert.Equal(t, 1, countIntents(intents, u1, "Entry updated"))
	assert.Equal(t, 1, countIntents(intents, creator, "Entry updated"))
}

func TestUpdateIntents_KhongCoRuleFireThiKhongCoThongBaoChung(t *testing.T) {
	creator := primitive.NewObjectID()
	u1 := primitive.NewObjectID()
	actor := Actor{ID: creator, Username: "sale01"}
	s := &EntryService{}

	old := models.Entry{
		ID:           primitive.NewObjectID(),
		CustomerName: "Công ty C",
		CreatedBy:    creator,
		AssignedTo:   []primitive.ObjectID{u1},
	}
	updated := old

	intents := s.updateIntents(actor, &old, &updated, nil)
	assert.Empty(t, intents, "không có thay đổi đáng ghi history thì không gửi gì")
}
