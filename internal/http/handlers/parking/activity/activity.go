// Package activity реализует HTTP-обработчик сводки по парковке:
// резервации, абонементы и стоянки для владельца.
package activity

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	parking "github.com/christopherDEPASQUAL/parking-sub000/internal/services/parking"
)

// Handler обрабатывает HTTP-запросы сводки по парковке.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводки по парковке.
type Service interface {
	ListActivity(ctx context.Context, id int, username, role string, limit, offset int) (*parking.Activity, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по парковке
// @Description Возвращает резервации, абонементы и стоянки парковки с пагинацией. Доступно владельцу парковки и администратору.
// @Tags Parking
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID парковки"
// @Param limit query int false "Максимум записей на раздел (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Сводка по парковке"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Парковка принадлежит другому владельцу"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Router /parkings/{id}/activity [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.activity"

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
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid parking id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid parking id"))
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

	activity, err := h.service.ListActivity(r.Context(), id, username, role, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, parking.ErrNotOwner):
			log.Error("parking belongs to another owner", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("parking belongs to another owner"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking not found", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
		default:
			log.Error("failed to list parking activity", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list parking activity"))
		}
		return
	}

	log.Info("parking activity listed", slog.Int("parking_id", id))
	render.JSON(w, r, response.OKWithData(activity))
}
