// Package search реализует HTTP-обработчик поиска товаров.
//
// Фильтры передаются query-параметрами name, category, min_price, max_price
// и комбинируются через AND. Поиск по имени нечувствителен к регистру.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// Handler обрабатывает HTTP-запросы поиска.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику поиска товаров.
type Service interface {
	Search(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск товаров
// @Description Ищет товары по имени, категории и ценовому диапазону. Фильтры комбинируются через AND.
// @Tags Sweets
// @Produce  json
// @Param name query string false "Подстрока имени, без учета регистра"
// @Param category query string false "Категория товара"
// @Param min_price query number false "Минимальная цена"
// @Param max_price query number false "Максимальная цена"
// @Success 200 {object} map[string]any "Найденные товары"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.SweetFilter{
		Name:     query.Get("name"),
		Category: query.Get("category"),
	}

	if raw := query.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Error("invalid min_price", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid min_price"))
			return
		}
		filter.MinPrice = &v
	}
	if raw := query.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Error("invalid max_price", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid max_price"))
			return
		}
		filter.MaxPrice = &v
	}

	sweets, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search sweets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to search sweets"))
		return
	}

	log.Info("search completed", slog.Int("count", len(sweets)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": sweets,
		"count": len(sweets),
	}))
}
