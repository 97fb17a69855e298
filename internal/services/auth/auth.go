// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sweetshop-api/internal/lib/jwt"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/otp"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/password"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	"github.com/magabrotheeeer/sweetshop-api/internal/storage/repository"
)

// Сроки действия одноразовых кодов.
const (
	verifyOtpTTL = 24 * time.Hour
	resetOtpTTL  = 15 * time.Minute
)

// Ошибки бизнес-уровня, проверяются обработчиками через errors.Is.
var (
	// ErrUserExists — email или username уже заняты.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	// Намеренно не различаются, чтобы не раскрывать, какой из них.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyVerified — аккаунт уже подтвержден.
	ErrAlreadyVerified = errors.New("account already verified")
	// ErrInvalidOtp — код не совпадает или не выпускался.
	ErrInvalidOtp = errors.New("invalid otp")
	// ErrExpiredOtp — срок действия кода истек.
	ErrExpiredOtp = errors.New("otp expired")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userUID string) error
	SetVerifyOtp(ctx context.Context, userUID, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userUID string) error
	SetResetOtp(ctx context.Context, userUID, otp string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// AuthService отвечает за регистрацию, вход, подтверждение почты
// и сброс пароля по одноразовым кодам.
type AuthService struct {
	users       UserRepository
	jwtMaker    jwt.Maker
	mail        rabbitmq.Publisher
	adminEmails map[string]bool
	log         *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// adminEmails — список адресов, получающих роль admin при регистрации
// (первичное заведение администратора задается конфигом, не кодом).
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, mail rabbitmq.Publisher,
	adminEmails []string, log *slog.Logger) *AuthService {
	allow := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		allow[strings.ToLower(email)] = true
	}
	return &AuthService{
		users:       users,
		jwtMaker:    jwtMaker,
		mail:        mail,
		adminEmails: allow,
		log:         log,
	}
}

// publishMail отправляет почтовое задание в очередь. Доставка писем не входит
// в контракт успеха операций, поэтому ошибки только логируются.
func (s *AuthService) publishMail(job models.MailJob) {
	if err := s.mail.Publish(rabbitmq.MailQueue, job); err != nil {
		s.log.Warn("failed to publish mail job",
			slog.String("kind", job.Kind), sl.Err(err))
	}
}

// Register создает пользователя, выдает сессионный токен и ставит
// в очередь приветственное письмо.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (string, models.SanitizedUser, error) {
	const op = "auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	role := models.RoleUser
	if s.adminEmails[email] {
		role = models.RoleAdmin
	}

	uid, err := s.users.RegisterUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return "", models.SanitizedUser{}, ErrUserExists
		}
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(uid, role)
	if err != nil {
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publishMail(models.MailJob{
		Kind:     models.MailKindWelcome,
		Email:    email,
		Username: username,
	})

	return token, user.Sanitize(), nil
}

// Login проверяет пароль пользователя и выдает новый сессионный токен.
// Неизвестный email и неверный пароль дают одинаковую ошибку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, models.SanitizedUser, error) {
	const op = "auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", models.SanitizedUser{}, ErrInvalidCredentials
		}
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.SanitizedUser{}, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", models.SanitizedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.UID); err != nil {
		s.log.Warn("failed to update last login", sl.Err(err))
	}

	return token, user.Sanitize(), nil
}

// GetUser возвращает пользователя по UID. Используется middleware
// аутентификации для проверки, что владелец токена еще существует.
func (s *AuthService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// SendVerifyOtp выпускает код подтверждения почты и ставит письмо в очередь.
func (s *AuthService) SendVerifyOtp(ctx context.Context, userUID string) error {
	const op = "auth.SendVerifyOtp"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := otp.Generate()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetVerifyOtp(ctx, userUID, code, time.Now().Add(verifyOtpTTL)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publishMail(models.MailJob{
		Kind:     models.MailKindVerifyOtp,
		Email:    user.Email,
		Username: user.Username,
		Otp:      code,
	})
	return nil
}

// VerifyAccount проверяет код подтверждения и помечает аккаунт подтвержденным.
// Использованный код очищается и повторно не принимается.
func (s *AuthService) VerifyAccount(ctx context.Context, userUID, code string) error {
	const op = "auth.VerifyAccount"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.VerifyOtp == "" || user.VerifyOtp != code {
		return ErrInvalidOtp
	}
	if user.VerifyOtpExpiresAt == nil || time.Now().After(*user.VerifyOtpExpiresAt) {
		return ErrExpiredOtp
	}

	if err := s.users.MarkVerified(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendResetOtp выпускает код сброса пароля и ставит письмо в очередь.
// Для неизвестного email возвращается ошибка, которую обработчик
// не отличает от прочих сбоев — существование адреса не раскрывается.
func (s *AuthService) SendResetOtp(ctx context.Context, email string) error {
	const op = "auth.SendResetOtp"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	code, err := otp.Generate()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetResetOtp(ctx, user.UID, code, time.Now().Add(resetOtpTTL)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publishMail(models.MailJob{
		Kind:     models.MailKindResetOtp,
		Email:    user.Email,
		Username: user.Username,
		Otp:      code,
	})
	return nil
}

// ResetPassword проверяет код сброса и сохраняет новый пароль.
// При любой ошибке проверки пароль не изменяется.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	const op = "auth.ResetPassword"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.ResetOtp == "" || user.ResetOtp != code {
		return ErrInvalidOtp
	}
	if user.ResetOtpExpiresAt == nil || time.Now().After(*user.ResetOtpExpiresAt) {
		return ErrExpiredOtp
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
