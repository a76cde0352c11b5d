// Package read реализует HTTP-обработчик чтения парковки по ID.
package read

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

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы для чтения парковки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения парковки.
type Service interface {
	Read(ctx context.Context, id int) (*models.Parking, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить парковку
// @Description Возвращает парковку по ID вместе с часами работы и тарифом.
// @Tags Parking
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID парковки"
// @Success 200 {object} map[string]any "Данные парковки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Router /parkings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid parking id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid parking id"))
		return
	}

	parking, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error("parking not found", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
			return
		}
		log.Error("failed to read parking", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read parking"))
		return
	}

	log.Info("parking read", slog.Int("parking_id", id))
	render.JSON(w, r, response.OKWithData(parking))
}
