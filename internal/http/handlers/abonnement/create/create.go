// Package create реализует HTTP-обработчик оформления абонемента.
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

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы для оформления абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления абонемента.
type Service interface {
	Create(ctx context.Context, username string, req models.DummyAbonnement) (int, error)
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
// @Summary Оформить абонемент
// @Description Создает абонемент на 1-12 месяцев с недельными слотами доступа. Тип должен присутствовать в прайсе тарифа парковки; цена фиксируется на момент оформления.
// @Tags Abonnement
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyAbonnement true "Данные абонемента"
// @Success 200 {object} map[string]any "ID оформленного абонемента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации, неизвестный тип или некорректные слоты"
// @Router /abonnements [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abonnement.create"

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

	var req models.DummyAbonnement
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
		case errors.Is(err, pricing.ErrInvalidPlan):
			log.Error("unknown abonnement type", slog.String("type", req.Type))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown abonnement type"))
		case errors.Is(err, schedule.ErrInvalidConfiguration):
			log.Error("invalid abonnement slots", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid abonnement slots"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking not found", slog.Int("parking_id", req.ParkingID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
		default:
			log.Error("failed to create abonnement", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to create abonnement"))
		}
		return
	}

	log.Info("abonnement created", slog.Int("abonnement_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"abonnement_id": id}))
}
