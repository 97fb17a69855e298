// Package list реализует HTTP-обработчик каталога товаров.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// Handler обрабатывает HTTP-запросы каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику каталога товаров.
type Service interface {
	List(ctx context.Context) ([]*models.Sweet, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог товаров
// @Description Возвращает все товары, новые первыми. Результат кешируется.
// @Tags Sweets
// @Produce  json
// @Success 200 {object} map[string]any "Список товаров"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sweets, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list sweets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list sweets"))
		return
	}

	log.Info("sweets listed", slog.Int("count", len(sweets)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": sweets,
		"count": len(sweets),
	}))
}
