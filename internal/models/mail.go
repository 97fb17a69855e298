package models

// Виды почтовых заданий, публикуемых API в очередь mail.outbound.
const (
	MailKindWelcome   = "welcome"
	MailKindVerifyOtp = "verify_otp"
	MailKindResetOtp  = "reset_otp"
)

// MailJob — задание на отправку письма. Публикуется сервером API
// в RabbitMQ и потребляется воркером cmd/sender.
type MailJob struct {
	Kind     string `json:"kind"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Otp      string `json:"otp,omitempty"`
}
