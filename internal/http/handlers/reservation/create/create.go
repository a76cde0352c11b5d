// Package create реализует HTTP-обработчик создания резервации.
package create

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	reservation "github.com/christopherDEPASQUAL/parking-sub000/internal/services/reservation"
)

// Handler обрабатывает HTTP-запросы для создания резервации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания резервации.
type Service interface {
	Create(ctx context.Context, username string, req models.DummyReservation) (int, error)
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
// @Summary Создать резервацию
// @Description Бронирует место на диапазон дат. Парковка должна быть открыта весь диапазон и иметь свободное место на момент начала.
// @Tags Reservation
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyReservation true "Данные резервации"
// @Success 200 {object} map[string]any "ID созданной резервации"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или даты"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Failure 409 {object} response.ErrorResponse "Парковка закрыта или нет свободных мест"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /reservations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.create"

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

	var req models.DummyReservation
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

	id, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrParkingClosed):
			log.Error("parking closed during requested range")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("parking is closed during requested range"))
		case errors.Is(err, reservation.ErrNoFreeSpots):
			log.Error("no free spots at requested start")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("no free spots at requested start"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking not found", slog.Int("parking_id", req.ParkingID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
		default:
			log.Error("failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to create reservation"))
		}
		return
	}

	log.Info("reservation created", slog.Int("reservation_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"reservation_id": id}))
}
