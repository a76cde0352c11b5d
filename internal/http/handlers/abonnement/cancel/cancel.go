// Package cancel реализует HTTP-обработчик отмены абонемента.
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
	abonnement "github.com/christopherDEPASQUAL/parking-sub000/internal/services/abonnement"
)

// Handler обрабатывает HTTP-запросы для отмены абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены абонемента.
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
// @Summary Отменить абонемент
// @Description Переводит абонемент в статус cancelled. Доступно владельцу абонемента и администратору.
// @Tags Abonnement
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID абонемента"
// @Success 200 {object} response.OKResponse "Абонемент отменен"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Абонемент принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 409 {object} response.ErrorResponse "Абонемент уже отменен или истек"
// @Router /abonnements/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abonnement.cancel"

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
		log.Error("invalid abonnement id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid abonnement id"))
		return
	}

	if _, err := h.service.Cancel(r.Context(), id, username, role); err != nil {
		switch {
		case errors.Is(err, abonnement.ErrNotAbonnementUser):
			log.Error("abonnement belongs to another user", slog.Int("abonnement_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("abonnement belongs to another user"))
		case errors.Is(err, abonnement.ErrAlreadyFinalized):
			log.Error("abonnement already finalized", slog.Int("abonnement_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("abonnement is already cancelled or expired"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("abonnement not found", slog.Int("abonnement_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("abonnement not found"))
		default:
			log.Error("failed to cancel abonnement", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel abonnement"))
		}
		return
	}

	log.Info("abonnement cancelled", slog.Int("abonnement_id", id))
	render.JSON(w, r, response.OK())
}
