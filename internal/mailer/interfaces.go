package mailer

// Service delivers the recovery OTP. Failures are surfaced to the caller,
// never retried; an already-issued OTP stays valid regardless.
type Service interface {
	SendOTP(toEmail, toName, code string, expiryMinutes int) error
}
