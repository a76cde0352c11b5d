// Package exit реализует HTTP-обработчик выезда с парковки.
//
// Выезд закрывает стоянку ровно один раз и возвращает рассчитанный счёт:
// минуты к оплате, минуты превышения и итоговую сумму.
package exit

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

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/billing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	stationnement "github.com/christopherDEPASQUAL/parking-sub000/internal/services/stationnement"
)

// Handler обрабатывает HTTP-запросы для выезда с парковки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выезда.
type Service interface {
	Exit(ctx context.Context, id int, username, role string) (*billing.Result, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выезд с парковки
// @Description Закрывает стоянку и возвращает счёт. По резервации счёт не меньше зарезервированной длительности, превышение добавляет надбавку; по абонементу в пределах слотов счёт нулевой.
// @Tags Stationnement
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID стоянки"
// @Success 200 {object} map[string]any "Счёт за стоянку"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Стоянка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Стоянка не найдена"
// @Failure 409 {object} response.ErrorResponse "Стоянка уже закрыта"
// @Router /stationnements/{id}/exit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stationnement.exit"

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
		log.Error("invalid stationnement id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid stationnement id"))
		return
	}

	result, err := h.service.Exit(r.Context(), id, username, role)
	if err != nil {
		switch {
		case errors.Is(err, stationnement.ErrNotStationnementUser):
			log.Error("parking session belongs to another user", slog.Int("stationnement_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("parking session belongs to another user"))
		case errors.Is(err, stationnement.ErrAlreadyClosed),
			errors.Is(err, billing.ErrSessionAlreadyClosed):
			log.Error("parking session already closed", slog.Int("stationnement_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("parking session is already closed"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking session not found", slog.Int("stationnement_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking session not found"))
		default:
			log.Error("failed to close parking session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to close parking session"))
		}
		return
	}

	log.Info("parking session closed",
		slog.Int("stationnement_id", id),
		slog.Int("amount_cents", result.Amount.AmountCents))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"stationnement_id": id,
		"billable_minutes": result.BillableMinutes,
		"overstay_minutes": result.OverstayMinutes,
		"amount_cents":     result.Amount.AmountCents,
		"currency":         result.Amount.Currency,
	}))
}
