// Package create реализует HTTP-обработчик создания парковки.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы для создания парковки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания парковки.
type Service interface {
	Create(ctx context.Context, ownerUsername string, req models.DummyParking) (int, error)
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
// @Summary Создать парковку
// @Description Создает новую парковку владельца. Часы работы и тариф задаются отдельными запросами.
// @Tags Parking
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyParking true "Данные парковки"
// @Success 200 {object} map[string]any "ID созданной парковки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или часовой пояс"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /parkings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.create"

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

	id, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		log.Error("failed to create parking", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to create parking"))
		return
	}

	log.Info("parking created", slog.Int("parking_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"parking_id": id}))
}
