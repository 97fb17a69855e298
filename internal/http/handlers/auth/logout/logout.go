// Package logout реализует HTTP-обработчик выхода из сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/cookies"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log    *slog.Logger
	isProd bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, isProd bool) *Handler {
	return &Handler{
		log:    log,
		isProd: isProd,
	}
}

// ServeHTTP godoc
// @Summary Выход из сессии
// @Description Сбрасывает сессионную cookie. Токен не отзывается, сессия без состояния.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cookies.ClearSession(w, h.isProd)
	log.Info("session cookie cleared")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
