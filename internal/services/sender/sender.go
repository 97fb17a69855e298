// Package services реализует отправку писем по заданиям из очереди.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/smtp"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// SenderService превращает почтовые задания в письма и отправляет их по SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleMailJob обрабатывает сообщение очереди mail.outbound.
// Используется как обработчик rabbitmq.ConsumerMessage.
func (s *SenderService) HandleMailJob(body []byte) error {
	var job models.MailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal mail job", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText, err := composeMail(job)
	if err != nil {
		s.log.Error("failed to compose mail", sl.Err(err), slog.String("kind", job.Kind))
		return err
	}

	return s.sendEmail([]string{job.Email}, subject, bodyText)
}

// composeMail возвращает тему и текст письма для задания.
func composeMail(job models.MailJob) (subject, body string, err error) {
	switch job.Kind {
	case models.MailKindWelcome:
		subject = "Welcome to Sweet Shop"
		body = fmt.Sprintf("Hello, %s!\n\nYour account has been created with email: %s.",
			job.Username, job.Email)
	case models.MailKindVerifyOtp:
		subject = "Account verification"
		body = fmt.Sprintf("Hello, %s!\n\nYour verification code is: %s.\nIt is valid for 24 hours.",
			job.Username, job.Otp)
	case models.MailKindResetOtp:
		subject = "Password reset"
		body = fmt.Sprintf("Hello, %s!\n\nYour password reset code is: %s.\nIt is valid for 15 minutes.",
			job.Username, job.Otp)
	default:
		return "", "", fmt.Errorf("unknown mail job kind: %q", job.Kind)
	}
	return subject, body, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err := client.Quit(); err != nil {
		s.log.Warn("failed to quit SMTP session", sl.Err(err))
	}

	s.log.Info("email sent", slog.String("subject", subject))
	return nil
}
