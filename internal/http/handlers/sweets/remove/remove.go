// Package remove реализует HTTP-обработчик удаления товара.
package remove

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

// Handler обрабатывает HTTP-запросы удаления товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления товара.
type Service interface {
	Delete(ctx context.Context, sweetUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление товара
// @Description Удаляет товар. Доступно только администраторам.
// @Tags Sweets
// @Produce  json
// @Param id path string true "UID товара"
// @Success 200 {object} map[string]any "Товар удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.remove"

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

	if err := h.service.Delete(r.Context(), sweetUID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Warn("sweet not found", slog.String("uid", sweetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("sweet not found"))
			return
		}
		log.Error("failed to delete sweet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete sweet"))
		return
	}

	log.Info("sweet deleted", slog.String("uid", sweetUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "sweet deleted successfully",
	}))
}
