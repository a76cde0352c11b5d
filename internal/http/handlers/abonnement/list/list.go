// Package list реализует HTTP-обработчик списка абонементов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы для получения списка абонементов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка абонементов.
type Service interface {
	List(ctx context.Context, username, role string, limit, offset int) ([]*models.Abonnement, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список абонементов
// @Description Возвращает абонементы пользователя с пагинацией. Администратор видит все.
// @Tags Abonnement
// @Security ApiKeyAuth
// @Produce  json
// @Param limit query int false "Максимум записей (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список абонементов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /abonnements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abonnement.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	abonnements, err := h.service.List(r.Context(), username, role, limit, offset)
	if err != nil {
		log.Error("failed to list abonnements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list abonnements"))
		return
	}

	log.Info("abonnements listed", slog.Int("count", len(abonnements)))
	render.JSON(w, r, response.OKWithData(abonnements))
}
