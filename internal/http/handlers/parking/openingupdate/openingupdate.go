// Package openingupdate реализует HTTP-обработчик полной замены
// часов работы парковки.
package openingupdate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/weekclock"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	parking "github.com/christopherDEPASQUAL/parking-sub000/internal/services/parking"
)

// Handler обрабатывает HTTP-запросы для замены часов работы парковки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики замены часов работы.
type Service interface {
	ReplaceOpening(ctx context.Context, id int, username, role string, req models.DummyOpening) (int, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Заменить часы работы парковки
// @Description Заменяет расписание часов работы целиком. Интервалы в пределах дня не должны пересекаться.
// @Tags Parking
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID парковки"
// @Param request body models.DummyOpening true "Новое расписание"
// @Success 200 {object} response.OKResponse "Расписание заменено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ID или формат времени"
// @Failure 403 {object} response.ErrorResponse "Парковка принадлежит другому владельцу"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или пересекающиеся интервалы"
// @Router /parkings/{id}/opening [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.openingupdate"

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

	var req models.DummyOpening
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if _, err := h.service.ReplaceOpening(r.Context(), id, username, role, req); err != nil {
		switch {
		case errors.Is(err, parking.ErrNotOwner):
			log.Error("parking belongs to another owner", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("parking belongs to another owner"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking not found", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
		case errors.Is(err, schedule.ErrInvalidConfiguration):
			log.Error("invalid opening schedule", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid opening schedule"))
		case errors.Is(err, weekclock.ErrInvalidTimeFormat):
			log.Error("invalid time format", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid time format, expected HH:MM"))
		default:
			log.Error("failed to replace opening schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to replace opening schedule"))
		}
		return
	}

	log.Info("opening schedule replaced", slog.Int("parking_id", id))
	render.JSON(w, r, response.OK())
}
