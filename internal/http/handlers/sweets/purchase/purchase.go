// Package purchase реализует HTTP-обработчик покупки товара.
//
// Покупка списывает ровно одну единицу. Списание выполняется хранилищем
// атомарно, поэтому конкурирующие покупки последней единицы не уводят
// остаток в минус.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
)

// Handler обрабатывает HTTP-запросы покупки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику покупки.
type Service interface {
	Purchase(ctx context.Context, sweetUID string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Покупка товара
// @Description Списывает одну единицу товара и возвращает остаток.
// @Tags Sweets
// @Produce  json
// @Param id path string true "UID товара"
// @Success 200 {object} map[string]any "Остаток после покупки"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Товар закончился"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.purchase"

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

	remaining, err := h.service.Purchase(r.Context(), sweetUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Warn("sweet not found", slog.String("uid", sweetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("sweet not found"))
			return
		case errors.Is(err, services.ErrOutOfStock):
			log.Warn("sweet out of stock", slog.String("uid", sweetUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("sweet is out of stock"))
			return
		}
		log.Error("failed to purchase sweet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to purchase sweet"))
		return
	}

	log.Info("sweet purchased", slog.String("uid", sweetUID), slog.Int("remaining", remaining))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":  "purchase successful",
		"quantity": remaining,
	}))
}
