package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// MockService реализует интерфейс search.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error) {
	args := m.Called(ctx, filter)
	if s := args.Get(0); s != nil {
		return s.([]*models.Sweet), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSearchHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "поиск по имени и категории",
			url:  "/sweets/search?name=truffle&category=chocolate",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, models.SweetFilter{
					Name:     "truffle",
					Category: "chocolate",
				}).Return([]*models.Sweet{{UID: "sweet-1", Name: "Dark Truffle"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "поиск по ценовому диапазону",
			url:  "/sweets/search?min_price=1&max_price=5",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, mock.MatchedBy(func(f models.SweetFilter) bool {
					return f.MinPrice != nil && *f.MinPrice == 1 &&
						f.MaxPrice != nil && *f.MaxPrice == 5
				})).Return([]*models.Sweet{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":0`,
		},
		{
			name:           "некорректная минимальная цена",
			url:            "/sweets/search?min_price=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid min_price"`,
		},
		{
			name:           "некорректная максимальная цена",
			url:            "/sweets/search?max_price=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid max_price"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
