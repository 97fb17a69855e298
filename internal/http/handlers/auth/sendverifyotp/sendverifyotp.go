// Package sendverifyotp реализует HTTP-обработчик выпуска кода подтверждения почты.
package sendverifyotp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы выпуска кода подтверждения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику выпуска кода подтверждения.
type Service interface {
	SendVerifyOtp(ctx context.Context, userUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выпуск кода подтверждения почты
// @Description Генерирует одноразовый код и ставит письмо с ним в очередь отправки.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Код отправлен"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже подтвержден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/send-verify-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sendverifyotp"

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

	if err := h.service.SendVerifyOtp(r.Context(), userUID); err != nil {
		if errors.Is(err, services.ErrAlreadyVerified) {
			log.Warn("account already verified", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("account already verified"))
			return
		}
		log.Error("failed to send verification code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send verification code"))
		return
	}

	log.Info("verification code queued", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "verification code sent",
	}))
}
