// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Handler принимает JSON-запрос с данными учетной записи, валидирует их
// и делегирует создание пользователя сервису аутентификации.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, username, rawPassword, role string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись с ролью user или owner.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Данные учетной записи"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	uid, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password, req.Role)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": uid,
		"username": req.Username,
	}))
}
