package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sweetshop-api/internal/lib/jwt"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/password"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	"github.com/magabrotheeeer/sweetshop-api/internal/storage/repository"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateLastLogin(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func (m *UserRepositoryMock) SetVerifyOtp(ctx context.Context, userUID, otp string, expiresAt time.Time) error {
	return m.Called(ctx, userUID, otp, expiresAt).Error(0)
}

func (m *UserRepositoryMock) MarkVerified(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func (m *UserRepositoryMock) SetResetOtp(ctx context.Context, userUID, otp string, expiresAt time.Time) error {
	return m.Called(ctx, userUID, otp, expiresAt).Error(0)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	return m.Called(ctx, userUID, passwordHash).Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newTestService(users *UserRepositoryMock, mail *PublisherMock, adminEmails ...string) *AuthService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	maker := jwt.NewJWTMaker("test_secret", time.Hour)
	return NewAuthService(users, maker, mail, adminEmails, log)
}

func TestRegister_Success(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// пароль хэшируется до сохранения, email приводится к нижнему регистру
		return u.Email == "alice@example.com" &&
			u.Role == models.RoleUser &&
			u.PasswordHash != "secret123" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()
	users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
		UID:      "uid-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleUser,
	}, nil).Once()
	mail.On("Publish", "mail.outbound", mock.MatchedBy(func(job models.MailJob) bool {
		return job.Kind == models.MailKindWelcome && job.Email == "alice@example.com"
	})).Return(nil).Once()

	token, user, err := svc.Register(context.Background(), "alice", "Alice@Example.COM", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, models.RoleUser, user.Role)

	users.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestRegister_AdminAllowlist(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail, "owner@sweetshop.dev")

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleAdmin
	})).Return("uid-admin", nil).Once()
	users.On("GetUser", mock.Anything, "uid-admin").Return(&models.User{
		UID:  "uid-admin",
		Role: models.RoleAdmin,
	}, nil).Once()
	mail.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	_, user, err := svc.Register(context.Background(), "owner", "Owner@SweetShop.dev", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("RegisterUser", mock.Anything, mock.Anything).
		Return("", repository.ErrUniqueViolation).Once()

	_, _, err := svc.Register(context.Background(), "alice", "taken@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserExists)
	mail.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRegister_MailFailureDoesNotFailRequest(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("RegisterUser", mock.Anything, mock.Anything).Return("uid-1", nil).Once()
	users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{UID: "uid-1"}, nil).Once()
	mail.On("Publish", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	token, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	hash, err := password.GetHash("correct_password")
	require.NoError(t, err)

	users.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repository.ErrNotFound).Once()
	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UID: "uid-1", PasswordHash: hash, Role: models.RoleUser}, nil).Once()

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, errWrongPass := svc.Login(context.Background(), "alice@example.com", "wrong_password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestLogin_Success(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	hash, err := password.GetHash("correct_password")
	require.NoError(t, err)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UID: "uid-1", Username: "alice", Email: "alice@example.com",
			PasswordHash: hash, Role: models.RoleUser}, nil).Once()
	users.On("UpdateLastLogin", mock.Anything, "uid-1").Return(nil).Once()

	token, user, err := svc.Login(context.Background(), "Alice@example.com", "correct_password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	users.AssertExpectations(t)
}

func TestSendVerifyOtp_AlreadyVerified(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", IsVerified: true}, nil).Once()

	err := svc.SendVerifyOtp(context.Background(), "uid-1")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	mail.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSendVerifyOtp_Success(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Email: "alice@example.com", Username: "alice"}, nil).Once()

	var issuedCode string
	users.On("SetVerifyOtp", mock.Anything, "uid-1", mock.MatchedBy(func(code string) bool {
		issuedCode = code
		return len(code) == 6
	}), mock.MatchedBy(func(expires time.Time) bool {
		return time.Until(expires) > 23*time.Hour && time.Until(expires) <= 24*time.Hour
	})).Return(nil).Once()
	mail.On("Publish", "mail.outbound", mock.MatchedBy(func(job models.MailJob) bool {
		return job.Kind == models.MailKindVerifyOtp && job.Otp == issuedCode
	})).Return(nil).Once()

	err := svc.SendVerifyOtp(context.Background(), "uid-1")
	require.NoError(t, err)
	users.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestVerifyAccount(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		user    *models.User
		code    string
		wantErr error
	}{
		{
			name:    "valid otp",
			user:    &models.User{UID: "uid-1", VerifyOtp: "123456", VerifyOtpExpiresAt: &future},
			code:    "123456",
			wantErr: nil,
		},
		{
			name:    "wrong otp",
			user:    &models.User{UID: "uid-1", VerifyOtp: "123456", VerifyOtpExpiresAt: &future},
			code:    "000000",
			wantErr: ErrInvalidOtp,
		},
		{
			name: "otp already consumed",
			user: &models.User{UID: "uid-1", VerifyOtp: ""},
			// совпадение с пустым хранимым кодом не принимается
			code:    "",
			wantErr: ErrInvalidOtp,
		},
		{
			name:    "expired otp with matching code",
			user:    &models.User{UID: "uid-1", VerifyOtp: "123456", VerifyOtpExpiresAt: &past},
			code:    "123456",
			wantErr: ErrExpiredOtp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepositoryMock)
			mail := new(PublisherMock)
			svc := newTestService(users, mail)

			users.On("GetUser", mock.Anything, "uid-1").Return(tt.user, nil).Once()
			if tt.wantErr == nil {
				users.On("MarkVerified", mock.Anything, "uid-1").Return(nil).Once()
			}

			err := svc.VerifyAccount(context.Background(), "uid-1", tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				users.AssertExpectations(t)
			}
		})
	}
}

func TestResetPassword_InvalidOtpDoesNotChangePassword(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	future := time.Now().Add(10 * time.Minute)
	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UID: "uid-1", ResetOtp: "654321", ResetOtpExpiresAt: &future}, nil).Once()

	err := svc.ResetPassword(context.Background(), "alice@example.com", "111111", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOtp)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	future := time.Now().Add(10 * time.Minute)
	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UID: "uid-1", ResetOtp: "654321", ResetOtpExpiresAt: &future}, nil).Once()
	users.On("UpdatePassword", mock.Anything, "uid-1", mock.MatchedBy(func(hash string) bool {
		return password.CompareHash(hash, "newpassword") == nil
	})).Return(nil).Once()

	err := svc.ResetPassword(context.Background(), "alice@example.com", "654321", "newpassword")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSendResetOtp_UnknownEmail(t *testing.T) {
	users := new(UserRepositoryMock)
	mail := new(PublisherMock)
	svc := newTestService(users, mail)

	users.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repository.ErrNotFound).Once()

	err := svc.SendResetOtp(context.Background(), "nobody@example.com")
	assert.Error(t, err)
	mail.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
