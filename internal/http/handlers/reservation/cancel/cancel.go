// Package cancel реализует HTTP-обработчик отмены резервации.
package cancel

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
	reservation "github.com/christopherDEPASQUAL/parking-sub000/internal/services/reservation"
)

// Handler обрабатывает HTTP-запросы для отмены резервации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены резервации.
type Service interface {
	Cancel(ctx context.Context, id int, username, role string) (int, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить резервацию
// @Description Переводит резервацию в статус cancelled. Доступно владельцу резервации и администратору; терминальные статусы не отменяются.
// @Tags Reservation
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID резервации"
// @Success 200 {object} response.OKResponse "Резервация отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Резервация принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Резервация не найдена"
// @Failure 409 {object} response.ErrorResponse "Резервация уже в терминальном статусе"
// @Router /reservations/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.cancel"

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
		log.Error("invalid reservation id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid reservation id"))
		return
	}

	if _, err := h.service.Cancel(r.Context(), id, username, role); err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotReservationUser):
			log.Error("reservation belongs to another user", slog.Int("reservation_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("reservation belongs to another user"))
		case errors.Is(err, reservation.ErrAlreadyFinalized):
			log.Error("reservation already finalized", slog.Int("reservation_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("reservation is already in a terminal status"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("reservation not found", slog.Int("reservation_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reservation not found"))
		default:
			log.Error("failed to cancel reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel reservation"))
		}
		return
	}

	log.Info("reservation cancelled", slog.Int("reservation_id", id))
	render.JSON(w, r, response.OK())
}
