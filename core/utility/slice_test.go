package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDedupeObjectIDs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got := DedupeObjectIDs([]primitive.ObjectID{a, b, a, b, a})
	assert.Equal(t, []primitive.ObjectID{a, b}, got, "giữ thứ tự lần xuất hiện đầu tiên")

	assert.Empty(t, DedupeObjectIDs(nil))
}

func TestDiffObjectIDs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	added, removed := DiffObjectIDs([]primitive.ObjectID{a, b}, []primitive.ObjectID{b, c})
	assert.Equal(t, []primitive.ObjectID{c}, added)
	assert.Equal(t, []primitive.ObjectID{a}, removed)

	added, removed = DiffObjectIDs(nil, []primitive.ObjectID{a})
	assert.Equal(t, []primitive.ObjectID{a}, added)
	assert.Empty(t, removed)
}

func TestEqualObjectIDSets(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.True(t, EqualObjectIDSets([]primitive.ObjectID{a, b}, []primitive.ObjectID{b, a}), "so sánh theo tập, không theo thứ tự")
	assert.True(t, EqualObjectIDSets(nil, nil))
	assert.False(t, EqualObjectIDSets([]primitive.ObjectID{a}, []primitive.ObjectID{b}))
	assert.False(t, EqualObjectIDSets([]primitive.ObjectID{a}, []primitive.ObjectID{a, b}))
}

func TestContainsObjectID(t *testing.T) {
	a := primitive.NewObjectID()
	assert.True(t, ContainsObjectID([]primitive.ObjectID{a}, a))
	assert.False(t, ContainsObjectID(nil, a))
}
