// Package services - Test dựng document thay thế cho ReplaceById.
package services

import (
	"testing"

	models "field_crm/core/api/models/mongodb"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToReplacementMap_FieldXoaVeRongBienMatKhoiDocument(t *testing.T) {
	e := models.Entry{
		ID:             primitive.NewObjectID(),
		CustomerName:   "Công ty A",
		Remarks:        "",
		AttachmentPath: "",
		CreatedAt:      111,
	}

	m, err := toReplacementMap(e)
	assert.NoError(t, err)

	// Field omitempty đã xóa về rỗng không có key trong document thay thế,
	// ReplaceOne vì thế xóa luôn giá trị cũ trong DB ($set thì giữ nguyên)
	_, hasRemarks := m["remarks"]
	assert.False(t, hasRemarks, "remarks rỗng không được xuất hiện trong document thay thế")
	_, hasAttachment := m["attachmentpath"]
	assert.False(t, hasAttachment)

	_, hasID := m["_id"]
	assert.False(t, hasID, "_id không được nằm trong document thay thế")
	assert.EqualValues(t, 111, m["createdAt"], "createdAt của document giữ nguyên")
	assert.NotNil(t, m["updatedAt"], "updatedAt phải được cập nhật")
}
