package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "field_crm/core/api/models/mongodb"
)

// fakeStore ghi lại các lần Create, cho phép ép lỗi theo userID
type fakeStore struct {
	created []models.Notification
	failFor primitive.ObjectID
}

func (s *fakeStore) Create(ctx context.Context, userID primitive.ObjectID, message string, entryID *primitive.ObjectID) (models.Notification, error) {
	if userID == s.failFor {
		return models.Notification{}, errors.New("write failed")
	}
	row := models.Notification{
		ID:      primitive.NewObjectID(),
		UserID:  userID,
		Message: message,
		EntryID: entryID,
	}
	s.created = append(s.created, row)
	return row, nil
}

type emittedEvent struct {
	userID string
	event  string
	data   interface{}
}

type fakeEmitter struct {
	events []emittedEvent
}

func (e *fakeEmitter) Emit(userID string, event string, data interface{}) {
	e.events = append(e.events, emittedEvent{userID: userID, event: event, data: data})
}

func TestDispatchPersistsAndEmits(t *testing.T) {
	store := &fakeStore{}
	emitter := &fakeEmitter{}
	dispatcher := NewDispatcher(store, emitter)

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	entryID := primitive.NewObjectID()

	dispatcher.Dispatch(context.Background(), []Intent{
		{UserID: a, Message: "Tagged in entry: ACME by admin", EntryID: &entryID},
		{UserID: b, Message: "Entry updated: ACME by admin"},
	})

	assert.Len(t, store.created, 2)
	assert.Len(t, emitter.events, 2)
	assert.Equal(t, a.Hex(), emitter.events[0].userID)
	assert.Equal(t, EventNewNotification, emitter.events[0].event)

	payload, ok := emitter.events[0].data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Tagged in entry: ACME by admin", payload["message"])
	assert.Equal(t, map[string]interface{}{"_id": entryID.Hex()}, payload["entryId"])
}

func TestDispatchSkipsInvalidIntents(t *testing.T) {
	store := &fakeStore{}
	dispatcher := NewDispatcher(store, nil)

	a := primitive.NewObjectID()
	dispatcher.Dispatch(context.Background(), []Intent{
		{UserID: primitive.NilObjectID, Message: "no user"},
		{UserID: a, Message: ""},
		{UserID: a, Message: "hợp lệ"},
	})

	assert.Len(t, store.created, 1)
	assert.Equal(t, "hợp lệ", store.created[0].Message)
}

func TestDispatchStoreErrorDoesNotBlockOthers(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	store := &fakeStore{failFor: a}
	emitter := &fakeEmitter{}
	dispatcher := NewDispatcher(store, emitter)

	dispatcher.Dispatch(context.Background(), []Intent{
		{UserID: a, Message: "sẽ lỗi"},
		{UserID: b, Message: "vẫn gửi"},
	})

	assert.Len(t, store.created, 1)
	assert.Equal(t, b, store.created[0].UserID)
	// Intent lỗi persist không được emit
	assert.Len(t, emitter.events, 1)
	assert.Equal(t, b.Hex(), emitter.events[0].userID)
}

func TestEmitCleared(t *testing.T) {
	emitter := &fakeEmitter{}
	dispatcher := NewDispatcher(&fakeStore{}, emitter)

	userID := primitive.NewObjectID()
	dispatcher.EmitCleared(userID)

	assert.Len(t, emitter.events, 1)
	assert.Equal(t, EventNotificationsCleared, emitter.events[0].event)
	assert.Equal(t, userID.Hex(), emitter.events[0].userID)

	// Emitter nil không panic
	NewDispatcher(&fakeStore{}, nil).EmitCleared(userID)
}
