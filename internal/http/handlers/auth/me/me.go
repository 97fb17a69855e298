// Package me реализует HTTP-обработчик профиля текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// Handler обрабатывает HTTP-запросы профиля.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает публичный профиль владельца сессионного токена.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := r.Context().Value(middlewarectx.CtxUser).(*models.User)
	if !ok {
		log.Error("missing user in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, login again"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user.Sanitize(),
	}))
}
