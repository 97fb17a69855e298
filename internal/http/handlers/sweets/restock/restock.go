// Package restock реализует HTTP-обработчик пополнения остатков товара.
package restock

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
)

// Request — входные данные для пополнения.
type Request struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Handler обрабатывает HTTP-запросы пополнения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику пополнения остатков.
type Service interface {
	Restock(ctx context.Context, sweetUID string, amount int) (int, error)
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
// @Summary Пополнение остатков
// @Description Увеличивает количество товара и возвращает новый остаток. Доступно только администраторам.
// @Tags Sweets
// @Accept  json
// @Produce  json
// @Param id path string true "UID товара"
// @Param request body Request true "Количество для пополнения"
// @Success 200 {object} map[string]any "Новый остаток"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или UID"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets/{id}/restock [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.restock"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sweetUID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(sweetUID); err != nil {
		log.Error("invalid sweet uid", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid sweet id"))
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

	total, err := h.service.Restock(r.Context(), sweetUID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Warn("sweet not found", slog.String("uid", sweetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("sweet not found"))
			return
		case errors.Is(err, services.ErrValidation):
			log.Warn("invalid restock amount", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to restock sweet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to restock sweet"))
		return
	}

	log.Info("sweet restocked", slog.String("uid", sweetUID), slog.Int("quantity", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":  "restock successful",
		"quantity": total,
	}))
}
