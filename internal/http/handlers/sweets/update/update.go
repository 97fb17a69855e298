// Package update реализует HTTP-обработчик частичного обновления товара.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	services "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
)

// Request — частичное обновление товара: nil-поля не изменяются.
type Request struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	IsFeatured  *bool    `json:"is_featured"`
	Rating      *float64 `json:"rating"`
	IsAvailable *bool    `json:"is_available"`
}

// Handler обрабатывает HTTP-запросы обновления товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику обновления товара.
type Service interface {
	Update(ctx context.Context, sweetUID string, upd models.SweetUpdate) (*models.Sweet, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновление товара
// @Description Частично обновляет товар: непереданные поля остаются прежними. Доступно только администраторам.
// @Tags Sweets
// @Accept  json
// @Produce  json
// @Param id path string true "UID товара"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленный товар"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или UID"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Поля вне допустимых границ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sweets/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.update"

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

	sweet, err := h.service.Update(r.Context(), sweetUID, models.SweetUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsFeatured:  req.IsFeatured,
		Rating:      req.Rating,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Warn("sweet not found", slog.String("uid", sweetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("sweet not found"))
			return
		case errors.Is(err, services.ErrValidation):
			log.Warn("sweet fields out of bounds", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to update sweet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update sweet"))
		return
	}

	log.Info("sweet updated", slog.String("uid", sweet.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sweet": sweet,
	}))
}
