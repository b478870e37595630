package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"field_crm/core/api/services"
	"field_crm/core/global"
	"field_crm/core/logger"
	"field_crm/core/notification"
	"field_crm/core/realtime"
	"field_crm/core/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread(dispatcher *notification.Dispatcher) {
	app := InitFiberApp(dispatcher)

	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	log.WithFields(map[string]interface{}{
		"address":  cfg.Address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(cfg.Address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime hub: đẩy thông báo qua websocket, best-effort
	hub := realtime.NewHub(cfg.JwtSecret)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🔌 [REALTIME] Hub goroutine panic")
			}
		}()
		if err := hub.Listen(cfg.Realtime_Address, cfg.Realtime_Path); err != nil {
			log.WithError(err).Error("🔌 [REALTIME] Hub listener stopped")
		}
	}()
	log.WithFields(map[string]interface{}{
		"address": cfg.Realtime_Address,
		"path":    cfg.Realtime_Path,
	}).Info("🔌 [REALTIME] Realtime hub started")

	// Dispatcher: persist thông báo trước, push realtime sau
	notificationService, err := services.NewNotificationService()
	if err != nil {
		log.Fatalf("Failed to create notification service: %v", err)
	}
	dispatcher := notification.NewDispatcher(notificationService, hub)

	// Reminder worker: quét followUpDate/expectedClosingDate rơi vào ngày mai
	mailer := notification.NewMailer(cfg.SMTP_Host, cfg.SMTP_Port, cfg.SMTP_Username, cfg.SMTP_Password, cfg.SMTP_From)
	reminderWorker, err := worker.NewFollowUpReminderWorker(dispatcher, mailer, cfg.Reminder_Hour, cfg.Reminder_Minute, cfg.Reminder_Timezone)
	if err != nil {
		log.Fatalf("Failed to create reminder worker: %v", err)
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("⏰ [REMINDER] Worker goroutine panic")
			}
		}()
		reminderWorker.Start(ctx)
	}()

	// Chạy Fiber server trên main thread
	main_thread(dispatcher)
}
