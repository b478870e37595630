package notification

import (
	"context"
	"time"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventNewNotification là tên event đẩy xuống client khi có thông báo mới
const EventNewNotification = "newNotification"

// EventNotificationsCleared là tên event khi user xóa toàn bộ thông báo
const EventNotificationsCleared = "notificationsCleared"

// Store persist một notification row. NotificationService thỏa interface này.
type Store interface {
	Create(ctx context.Context, userID primitive.ObjectID, message string, entryID *primitive.ObjectID) (models.Notification, error)
}

// Emitter đẩy event realtime tới một user. realtime.Hub thỏa interface này.
type Emitter interface {
	Emit(userID string, event string, data interface{})
}

// Dispatcher tiêu thụ intents: persist row vô điều kiện, đẩy realtime best-effort.
// Mọi lỗi được log và nuốt, không bao giờ propagate về mutation chính.
type Dispatcher struct {
	store   Store
	emitter Emitter
	timeout time.Duration
}

// NewDispatcher tạo mới Dispatcher. emitter có thể nil (chỉ persist).
func NewDispatcher(store Store, emitter Emitter) *Dispatcher {
	return &Dispatcher{
		store:   store,
		emitter: emitter,
		timeout: 10 * time.Second,
	}
}

// DispatchAsync gửi intents trong goroutine riêng, caller không chờ
func (d *Dispatcher) DispatchAsync(intents []Intent) {
	if len(intents) == 0 {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("notification").Errorf("🔔 [NOTIFY] Panic in dispatch: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.Dispatch(ctx, intents)
	}()
}

// Dispatch gửi lần lượt từng intent. Một intent lỗi không chặn các intent còn lại.
func (d *Dispatcher) Dispatch(ctx context.Context, intents []Intent) {
	log := logger.WithModule("notification")

	for _, intent := range intents {
		if intent.UserID.IsZero() || intent.Message == "" {
			log.Warn("🔔 [NOTIFY] Skipped intent with missing user or message")
			continue
		}

		row, err := d.store.Create(ctx, intent.UserID, intent.Message, intent.EntryID)
		if err != nil {
			// Persist lỗi: log và bỏ qua, thông báo này mất vĩnh viễn
			log.WithError(err).WithField("userId", intent.UserID.Hex()).Error("🔔 [NOTIFY] Failed to persist notification")
			continue
		}

		// Đẩy realtime best-effort, row đã persist nên client luôn đọc lại được
		if d.emitter != nil {
			d.emitter.Emit(intent.UserID.Hex(), EventNewNotification, notificationPayload(row))
		}
	}
}

// EmitCleared báo client rằng thông báo của user đã bị xóa hết
func (d *Dispatcher) EmitCleared(userID primitive.ObjectID) {
	if d.emitter == nil {
		return
	}
	d.emitter.Emit(userID.Hex(), EventNotificationsCleared, nil)
}

// notificationPayload shape payload cho client: entry reference resolve về {_id}
func notificationPayload(row models.Notification) map[string]interface{} {
	payload := map[string]interface{}{
		"_id":       row.ID.Hex(),
		"userId":    row.UserID.Hex(),
		"message":   row.Message,
		"read":      row.Read,
		"createdAt": row.CreatedAt,
	}
	if row.EntryID != nil {
		payload["entryId"] = map[string]interface{}{"_id": row.EntryID.Hex()}
	}
	return payload
}
