package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, sweet models.Sweet, createdBy string) (*models.Sweet, error) {
	args := m.Called(ctx, sweet, createdBy)
	if s := args.Get(0); s != nil {
		return s.(*models.Sweet), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := Request{
		Name:     "Dark Truffle",
		Category: "chocolate",
		Price:    4.99,
		Quantity: 20,
	}

	tests := []struct {
		name           string
		userUID        string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание товара",
			userUID:     "admin-uid",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.Sweet"), "admin-uid").
					Return(&models.Sweet{UID: "sweet-1", Name: "Dark Truffle"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"uid":"sweet-1"`,
		},
		{
			name:           "отсутствует авторизация",
			userUID:        "",
			requestBody:    validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized, login again"`,
		},
		{
			name:           "некорректный JSON",
			userUID:        "admin-uid",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:    "отрицательная цена",
			userUID: "admin-uid",
			requestBody: Request{
				Name:     "Dark Truffle",
				Category: "chocolate",
				Price:    -1,
				Quantity: 20,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Price is below the allowed minimum`,
		},
		{
			name:    "неизвестная категория",
			userUID: "admin-uid",
			requestBody: Request{
				Name:     "Dark Truffle",
				Category: "pastry",
				Price:    4.99,
				Quantity: 20,
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.Sweet"), "admin-uid").
					Return(nil, fmt.Errorf("%w: unknown category %q", services.ErrValidation, "pastry"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `unknown category`,
		},
		{
			name:        "ошибка сервиса",
			userUID:     "admin-uid",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.Sweet"), "admin-uid").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to create sweet"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/sweets", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
