package worker

import (
	"context"
	"fmt"
	"time"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/api/services"
	"field_crm/core/logger"
	"field_crm/core/notification"
	"field_crm/core/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowUpReminderWorker quét các entry có followUpDate hoặc expectedClosingDate
// rơi vào ngày mai và gửi nhắc việc cho creator cùng các assignee.
// Chạy một lần mỗi ngày vào giờ cấu hình (mặc định 18:30).
type FollowUpReminderWorker struct {
	entryService *services.EntryService
	userService  *services.UserService
	dispatcher   *notification.Dispatcher
	mailer       *notification.Mailer
	hour         int
	minute       int
	loc          *time.Location
}

// NewFollowUpReminderWorker tạo mới FollowUpReminderWorker.
// mailer nil nghĩa là không gửi kênh email.
func NewFollowUpReminderWorker(dispatcher *notification.Dispatcher, mailer *notification.Mailer, hour, minute int, timezone string) (*FollowUpReminderWorker, error) {
	entryService, err := services.NewEntryService()
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService()
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder timezone %q: %w", timezone, err)
		}
	}

	if hour < 0 || hour > 23 {
		hour = 18
	}
	if minute < 0 || minute > 59 {
		minute = 30
	}

	return &FollowUpReminderWorker{
		entryService: entryService,
		userService:  userService,
		dispatcher:   dispatcher,
		mailer:       mailer,
		hour:         hour,
		minute:       minute,
		loc:          loc,
	}, nil
}

// Start chạy worker cho tới khi context bị hủy
func (w *FollowUpReminderWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	log.WithFields(map[string]interface{}{
		"hour":     w.hour,
		"minute":   w.minute,
		"timezone": w.loc.String(),
	}).Info("⏰ [REMINDER] Starting Follow Up Reminder Worker...")

	for {
		wait := time.Until(w.nextRun(time.Now().In(w.loc)))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("⏰ [REMINDER] Follow Up Reminder Worker stopped")
			return
		case <-timer.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("⏰ [REMINDER] Panic khi quét nhắc việc, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.Sweep(ctx)
			}()
		}
	}
}

// nextRun tính thời điểm chạy kế tiếp theo giờ cấu hình
func (w *FollowUpReminderWorker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, w.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Sweep quét một lượt và phát nhắc việc cho các entry tới hạn ngày mai
func (w *FollowUpReminderWorker) Sweep(ctx context.Context) {
	log := logger.GetAppLogger()

	start, end := TomorrowWindow(time.Now(), w.loc)
	filter := bson.M{
		"$or": []bson.M{
			{"followUpDate": bson.M{"$gte": start, "$lt": end}},
			{"expectedClosingDate": bson.M{"$gte": start, "$lt": end}},
		},
	}

	entries, err := w.entryService.Find(ctx, filter, nil)
	if err != nil {
		log.WithError(err).Error("⏰ [REMINDER] Failed to query entries due tomorrow")
		return
	}
	if len(entries) == 0 {
		return
	}

	var intents []notification.Intent
	for i := range entries {
		entry := &entries[i]
		recipients := reminderRecipients(entry)

		if entry.FollowUpDate >= start && entry.FollowUpDate < end {
			intents = append(intents, notification.FanOut(recipients,
				fmt.Sprintf("Follow-up scheduled tomorrow for entry: %s", entry.CustomerName),
				&entry.ID)...)
		}
		if entry.ExpectedClosingDate >= start && entry.ExpectedClosingDate < end {
			intents = append(intents, notification.FanOut(recipients,
				fmt.Sprintf("Expected closing tomorrow for entry: %s", entry.CustomerName),
				&entry.ID)...)
		}
	}

	w.dispatcher.DispatchAsync(intents)
	w.sendEmails(ctx, intents)

	log.WithFields(map[string]interface{}{
		"entryCount":  len(entries),
		"intentCount": len(intents),
	}).Info("⏰ [REMINDER] Reminder sweep completed")
}

// sendEmails gửi kênh email cho các intent nếu mailer được cấu hình
func (w *FollowUpReminderWorker) sendEmails(ctx context.Context, intents []notification.Intent) {
	if w.mailer == nil || len(intents) == 0 {
		return
	}
	log := logger.GetAppLogger()

	// Gom từng user để tra email một lần
	byUser := make(map[primitive.ObjectID][]string)
	for _, intent := range intents {
		byUser[intent.UserID] = append(byUser[intent.UserID], intent.Message)
	}

	for userID, messages := range byUser {
		user, err := w.userService.FindOneById(ctx, userID)
		if err != nil || user.Email == "" {
			continue
		}
		body := ""
		for _, m := range messages {
			body += m + "\n"
		}
		// Gửi lỗi chỉ log, không chặn các user còn lại
		if err := w.mailer.SendReminder(user.Email, "Follow-up reminders for tomorrow", body); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"userId": userID.Hex(),
			}).Warn("⏰ [REMINDER] Email channel failed for user")
		}
	}
}

// TomorrowWindow trả về [start, end) UnixMilli của ngày mai theo timezone loc
func TomorrowWindow(now time.Time, loc *time.Location) (start, end int64) {
	todayStart := utility.DayStartMilli(now.UnixMilli(), loc)
	start = time.UnixMilli(todayStart).In(loc).AddDate(0, 0, 1).UnixMilli()
	end = time.UnixMilli(start).In(loc).AddDate(0, 0, 1).UnixMilli()
	return start, end
}

// reminderRecipients gom creator và assignee của entry, khử trùng
func reminderRecipients(entry *models.Entry) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, 1+len(entry.AssignedTo))
	ids = append(ids, entry.CreatedBy)
	ids = append(ids, entry.AssignedTo...)
	return utility.DedupeObjectIDs(ids)
}
