// Package services - Test visibility predicate và filter scope.
package services

import (
	"testing"

	models "field_crm/core/api/models/mongodb"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEntryVisible(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := Scope{UserIDs: []primitive.ObjectID{me}}

	t.Run("scope toàn cục thấy tất cả", func(t *testing.T) {
		e := &models.Entry{CreatedBy: other}
		assert.True(t, EntryVisible(Scope{AllEntries: true}, e))
	})

	t.Run("thấy entry mình tạo", func(t *testing.T) {
		e := &models.Entry{CreatedBy: me}
		assert.True(t, EntryVisible(scope, e))
	})

	t.Run("thấy entry mình được gắn", func(t *testing.T) {
		e := &models.Entry{CreatedBy: other, AssignedTo: []primitive.ObjectID{other, me}}
		assert.True(t, EntryVisible(scope, e))
	})

	t.Run("không thấy entry ngoài scope", func(t *testing.T) {
		e := &models.Entry{CreatedBy: other, AssignedTo: []primitive.ObjectID{other}}
		assert.False(t, EntryVisible(scope, e))
	})
}

func TestScopeContains(t *testing.T) {
	me := primitive.NewObjectID()
	assert.True(t, Scope{AllEntries: true}.Contains(me))
	assert.True(t, Scope{UserIDs: []primitive.ObjectID{me}}.Contains(me))
	assert.False(t, Scope{UserIDs: []primitive.ObjectID{primitive.NewObjectID()}}.Contains(me))
}

func TestEntryFilter(t *testing.T) {
	t.Run("scope toàn cục không filter", func(t *testing.T) {
		filter := EntryFilter(Scope{AllEntries: true})
		assert.Empty(t, filter)
	})

	t.Run("scope giới hạn filter theo createdBy hoặc assignedTo", func(t *testing.T) {
		ids := []primitive.ObjectID{primitive.NewObjectID()}
		filter := EntryFilter(Scope{UserIDs: ids})

		or, ok := filter["$or"].([]bson.M)
		assert.True(t, ok, "filter phải có $or")
		assert.Len(t, or, 2)
	})
}

func TestCombineScopeIDs_KhuTrung(t *testing.T) {
	actor := primitive.NewObjectID()
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	directs := []models.User{{ID: a, Role: models.RoleAdmin}, {ID: b}}
	// b xuất hiện lại ở hop hai qua admin a
	second := []models.User{{ID: b}, {ID: actor}}

	ids := combineScopeIDs(actor, directs, second)
	assert.Len(t, ids, 3, "actor, a, b mỗi id chỉ xuất hiện một lần")
	assert.Equal(t, actor, ids[0], "actor luôn đứng đầu")
}
