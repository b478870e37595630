package main

import (
	"field_crm/core/api/services"
	"field_crm/core/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := services.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Đảm bảo hệ thống luôn có ít nhất một superadmin để phân công được thiết lập từ gốc
	if err := initService.EnsureSuperadmin(); err != nil {
		log.Fatalf("Failed to ensure superadmin: %v", err)
	}
	log.Info("✅ [INIT] Superadmin ensured")
}
