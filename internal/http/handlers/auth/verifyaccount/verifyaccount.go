// Package verifyaccount реализует HTTP-обработчик подтверждения почты по коду.
package verifyaccount

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/auth"
)

// Request — входные данные для подтверждения.
type Request struct {
	Otp string `json:"otp" validate:"required,len=6,numeric"`
}

// Handler обрабатывает HTTP-запросы подтверждения аккаунта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику подтверждения аккаунта.
type Service interface {
	VerifyAccount(ctx context.Context, userUID, otp string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтверждение почты
// @Description Проверяет одноразовый код и помечает аккаунт подтвержденным. Использованный код повторно не принимается.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Одноразовый код"
// @Success 200 {object} map[string]any "Аккаунт подтвержден"
// @Failure 400 {object} response.ErrorResponse "Неверный или просроченный код"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/verify-account [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyaccount"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok {
		log.Error("missing user uid in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, login again"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.VerifyAccount(r.Context(), userUID, req.Otp); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOtp):
			log.Warn("invalid verification code", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid verification code"))
			return
		case errors.Is(err, services.ErrExpiredOtp):
			log.Warn("expired verification code", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("verification code expired"))
			return
		}
		log.Error("failed to verify account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify account"))
		return
	}

	log.Info("account verified", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "account verified successfully",
	}))
}
