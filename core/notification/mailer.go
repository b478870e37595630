package notification

import (
	"fmt"

	"field_crm/core/logger"

	"gopkg.in/gomail.v2"
)

// Mailer gửi email nhắc việc qua SMTP. Kênh email là tùy chọn:
// không cấu hình SMTP thì mailer nil và worker bỏ qua kênh này.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer tạo mailer từ cấu hình SMTP. host rỗng trả về nil.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	if host == "" {
		return nil
	}
	if from == "" {
		from = username
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendReminder gửi email nhắc việc tới một địa chỉ
func (m *Mailer) SendReminder(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"to": to,
		}).Error("🔔 [NOTIFY] Failed to send reminder email")
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}
