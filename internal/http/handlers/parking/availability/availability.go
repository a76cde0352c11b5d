// Package availability реализует HTTP-обработчик подсчета свободных
// мест парковки на момент времени.
package availability

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы для подсчета свободных мест.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подсчета свободных мест.
type Service interface {
	Availability(ctx context.Context, id int, at time.Time) (int, error)
}

// New создает новый Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Свободные места парковки
// @Description Возвращает число свободных мест на момент времени. Занятость считают активные резервации, абонементы и открытые стоянки; результат не опускается ниже нуля.
// @Tags Parking
// @Security ApiKeyAuth
// @Produce  json
// @Param id path int true "ID парковки"
// @Param at query string false "Момент времени RFC3339 (по умолчанию сейчас)"
// @Success 200 {object} map[string]any "Число свободных мест"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или момент времени"
// @Failure 404 {object} response.ErrorResponse "Парковка не найдена"
// @Router /parkings/{id}/availability [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.parking.availability"

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

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Error("invalid at parameter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid at parameter, expected RFC3339"))
			return
		}
	}

	freeSpots, err := h.service.Availability(r.Context(), id, at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error("parking not found", slog.Int("parking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("parking not found"))
			return
		}
		log.Error("failed to compute availability", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to compute availability"))
		return
	}

	log.Info("availability computed",
		slog.Int("parking_id", id), slog.Int("free_spots", freeSpots))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"parking_id": id,
		"at":         at.Format(time.RFC3339),
		"free_spots": freeSpots,
	}))
}
