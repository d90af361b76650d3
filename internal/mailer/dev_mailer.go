package mailer

import (
	"fmt"

	"github.com/cyberauth/cyberauth/pkg/logger"
)

// DevMailer prints emails instead of sending them. Selected by
// EMAIL_DEV_MODE; the only place a plaintext OTP is ever written out.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendOTP(toEmail, toName, code string, expiryMinutes int) error {
	logger.Info("📧 [DEV MAIL] Password Reset OTP",
		"to", toEmail,
		"name", toName,
		"expiry_minutes", expiryMinutes,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 PASSWORD RESET OTP (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: CyberAuth Password Reset OTP\n"+
		"\n"+
		"OTP: %s\n"+
		"Expires in: %d minutes\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, toName, code, expiryMinutes)

	return nil
}
