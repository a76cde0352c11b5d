// Package login реализует HTTP-обработчик аутентификации пользователей.
//
// При успешном входе возвращается JSON с JWT и ролью пользователя;
// в случае ошибок формируются соответствующие HTTP-ответы.
package login

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

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, rawPassword string) (token, role string, err error)
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю. Возвращает JWT и роль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	log.Info("user logged in", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"role":  role,
	}))
}
