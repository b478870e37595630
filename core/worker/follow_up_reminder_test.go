package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "field_crm/core/api/models/mongodb"
)

func TestTomorrowWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 28, 18, 30, 0, 0, loc)

	start, end := TomorrowWindow(now, loc)

	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, loc).UnixMilli(), start)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc).UnixMilli(), end)

	t.Run("cuối tháng", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 23, 59, 0, 0, loc)
		start, end := TomorrowWindow(now, loc)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc).UnixMilli(), start)
		assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, loc).UnixMilli(), end)
	})
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	worker := &FollowUpReminderWorker{hour: 18, minute: 30, loc: loc}

	t.Run("trước giờ chạy trong ngày", func(t *testing.T) {
		now := time.Date(2026, 8, 28, 10, 0, 0, 0, loc)
		next := worker.nextRun(now)
		assert.Equal(t, time.Date(2026, 8, 28, 18, 30, 0, 0, loc), next)
	})

	t.Run("sau giờ chạy thì sang ngày mai", func(t *testing.T) {
		now := time.Date(2026, 8, 28, 19, 0, 0, 0, loc)
		next := worker.nextRun(now)
		assert.Equal(t, time.Date(2026, 8, 29, 18, 30, 0, 0, loc), next)
	})

	t.Run("đúng giờ chạy thì sang ngày mai", func(t *testing.T) {
		now := time.Date(2026, 8, 28, 18, 30, 0, 0, loc)
		next := worker.nextRun(now)
		assert.Equal(t, time.Date(2026, 8, 29, 18, 30, 0, 0, loc), next)
	})
}

func TestReminderRecipients(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	entry := &models.Entry{
		CreatedBy:  creator,
		AssignedTo: []primitive.ObjectID{assignee, creator},
	}

	got := reminderRecipients(entry)
	assert.Equal(t, []primitive.ObjectID{creator, assignee}, got, "creator đứng đầu, khử trùng với assignee")
}
