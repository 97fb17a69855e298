package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/auth"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, username, email, password string) (string, models.SanitizedUser, error) {
	args := m.Called(ctx, username, email, password)
	return args.String(0), args.Get(1).(models.SanitizedUser), args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		expectCookie   bool
	}{
		{
			name: "успешная регистрация",
			requestBody: Request{
				Username: "sweetfan",
				Email:    "fan@example.com",
				Password: "secret123",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "sweetfan", "fan@example.com", "secret123").
					Return("jwt-token", models.SanitizedUser{Username: "sweetfan", Email: "fan@example.com"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"token":"jwt-token"`,
			expectCookie:   true,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "ошибка валидации",
			requestBody: Request{
				Username: "ab",
				Email:    "not-an-email",
				Password: "123",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Username is too short`,
		},
		{
			name: "email уже занят",
			requestBody: Request{
				Username: "sweetfan",
				Email:    "fan@example.com",
				Password: "secret123",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "sweetfan", "fan@example.com", "secret123").
					Return("", models.SanitizedUser{}, services.ErrUserExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"email or username already in use"`,
		},
		{
			name: "ошибка сервиса",
			requestBody: Request{
				Username: "sweetfan",
				Email:    "fan@example.com",
				Password: "secret123",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "sweetfan", "fan@example.com", "secret123").
					Return("", models.SanitizedUser{}, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, false)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			if tt.expectCookie {
				cookies := w.Result().Cookies()
				assert.Len(t, cookies, 1)
				assert.Equal(t, "token", cookies[0].Name)
				assert.Equal(t, "jwt-token", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			}

			mockService.AssertExpectations(t)
		})
	}
}
