// Package health реализует HTTP-обработчик проверки живости сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
)

// Handler обрабатывает HTTP-запросы проверки живости.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с указанным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Description Возвращает ok, если сервис запущен.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Сервис запущен"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
