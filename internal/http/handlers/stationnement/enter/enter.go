// Package enter реализует HTTP-обработчик въезда на парковку.
package enter

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
	stationnement "github.com/christopherDEPASQUAL/parking-sub000/internal/services/stationnement"
)

// Handler обрабатывает HTTP-запросы для въезда на парковку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики въезда.
type Service interface {
	Enter(ctx context.Context, username string, req models.DummyEnter) (int, error)
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
// @Summary Въезд на парковку
// @Description Открывает стоянку по резервации или абонементу. Управляющая запись должна принадлежать пользователю, действовать сейчас и не иметь другой открытой стоянки.
// @Tags Stationnement
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyEnter true "Данные въезда"
// @Success 200 {object} map[string]any "ID открытой стоянки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Управляющая запись принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Парковка или управляющая запись не найдены"
// @Failure 409 {object} response.ErrorResponse "Парковка закрыта, нет мест, запись не действует или стоянка уже открыта"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /stationnements/enter [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stationnement.enter"

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

	var req models.DummyEnter
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

	id, err := h.service.Enter(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, stationnement.ErrNotGoverningUser):
			log.Error("governing record belongs to another user")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("governing record belongs to another user"))
		case errors.Is(err, stationnement.ErrParkingClosed):
			log.Error("parking is closed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("parking is closed"))
		case errors.Is(err, stationnement.ErrNoFreeSpots):
			log.Error("no free spots")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("no free spots"))
		case errors.Is(err, stationnement.ErrGoverningNotActive):
			log.Error("governing record does not admit entry now")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("governing record does not admit entry now"))
		case errors.Is(err, stationnement.ErrAlreadyParked):
			log.Error("governing record already has an open parking session")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("governing record already has an open parking session"))
		case errors.Is(err, sql.ErrNoRows):
			log.Error("parking or governing record not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking or governing record not found"))
		default:
			log.Error("failed to enter parking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to enter parking"))
		}
		return
	}

	log.Info("parking session opened", slog.Int("stationnement_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"stationnement_id": id}))
}
