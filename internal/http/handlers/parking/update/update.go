// Package update реализует HTTP-обработчик изменения основных полей парковки.
package update

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

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	parking "github.com/christopherDEPASQUAL/parking-sub000/internal/services/parking"
)

// Handler обрабатывает HTTP-запросы для изменения парковки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения парковки.
type Service interface {
	Update(ctx context.Context, id int, username, role string, req models.DummyParking) (int, error)
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
// @Summary Изменить парковку
// @Description Обновляет название, адрес, вместимость и часовой пояс парковки. Доступно владельцу парковки и администратору.
// @Tags Parking
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID парковки"
// @Param request body models.DummyParking true "Новые данные парковки"
// @Success 200 {object} response.OKResponse "Парковка обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 403 {object} response.ErrorResponse "Парковка принадлежит другому владельцу"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /parkings/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.update"

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

	var req models.DummyParking
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

	if _, err := h.service.Update(r.Context(), id, username, role, req); err != nil {
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
			log.Error("failed to update parking", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to update parking"))
		}
		return
	}

	log.Info("parking updated", slog.Int("parking_id", id))
	render.JSON(w, r, response.OK())
}
