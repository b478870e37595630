package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFanOut(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	entryID := primitive.NewObjectID()

	t.Run("một intent cho mỗi user, khử trùng lặp", func(t *testing.T) {
		intents := FanOut([]primitive.ObjectID{a, b, a}, "Tagged in new entry: ACME", &entryID)
		assert.Len(t, intents, 2)
		assert.Equal(t, a, intents[0].UserID)
		assert.Equal(t, b, intents[1].UserID)
		for _, intent := range intents {
			assert.Equal(t, "Tagged in new entry: ACME", intent.Message)
			assert.Equal(t, &entryID, intent.EntryID)
		}
	})

	t.Run("bỏ qua zero ObjectID", func(t *testing.T) {
		intents := FanOut([]primitive.ObjectID{primitive.NilObjectID, a}, "msg", nil)
		assert.Len(t, intents, 1)
		assert.Equal(t, a, intents[0].UserID)
	})

	t.Run("danh sách rỗng", func(t *testing.T) {
		assert.Empty(t, FanOut(nil, "msg", nil))
	})
}
