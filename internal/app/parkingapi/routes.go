// Package parkingapi предоставляет маршруты для основного приложения.
package parkingapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	abonnementcancel "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/abonnement/cancel"
	abonnementcreate "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/abonnement/create"
	abonnementlist "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/abonnement/list"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/auth/login"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/auth/register"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/health"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/activity"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/availability"
	parkingcreate "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/create"
	parkinglist "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/list"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/openingupdate"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/pricingupdate"
	parkingread "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/read"
	parkingremove "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/remove"
	parkingupdate "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/parking/update"
	reservationcancel "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/reservation/cancel"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/reservation/confirm"
	reservationcreate "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/reservation/create"
	reservationlist "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/reservation/list"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/stationnement/enter"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/stationnement/exit"
	stationnementlist "github.com/christopherDEPASQUAL/parking-sub000/internal/http/handlers/stationnement/list"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	abonnementservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/abonnement"
	authservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/auth"
	parkingservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/parking"
	reservationservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/reservation"
	stationnementservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/stationnement"
)

// Services сервисы, которые обслуживают маршруты приложения.
type Services struct {
	Auth          *authservice.AuthService
	Parking       *parkingservice.ParkingService
	Reservation   *reservationservice.ReservationService
	Abonnement    *abonnementservice.AbonnementService
	Stationnement *stationnementservice.StationnementService
	TokenParser   middlewarectx.TokenParser
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.TokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/parkings", parkinglist.New(logger, svc.Parking).ServeHTTP)
			r.Get("/parkings/{id}", parkingread.New(logger, svc.Parking).ServeHTTP)
			r.Get("/parkings/{id}/availability", availability.New(logger, svc.Parking).ServeHTTP)

			// Изменение парковок доступно владельцам (и администратору)
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleOwner))
				r.Post("/parkings", parkingcreate.New(logger, svc.Parking).ServeHTTP)
				r.Put("/parkings/{id}", parkingupdate.New(logger, svc.Parking).ServeHTTP)
				r.Put("/parkings/{id}/opening", openingupdate.New(logger, svc.Parking).ServeHTTP)
				r.Put("/parkings/{id}/pricing", pricingupdate.New(logger, svc.Parking).ServeHTTP)
				r.Delete("/parkings/{id}", parkingremove.New(logger, svc.Parking).ServeHTTP)
				r.Get("/parkings/{id}/activity", activity.New(logger, svc.Parking).ServeHTTP)
				r.Post("/reservations/{id}/confirm", confirm.New(logger, svc.Reservation).ServeHTTP)
			})

			r.Post("/reservations", reservationcreate.New(logger, svc.Reservation).ServeHTTP)
			r.Get("/reservations", reservationlist.New(logger, svc.Reservation).ServeHTTP)
			r.Delete("/reservations/{id}", reservationcancel.New(logger, svc.Reservation).ServeHTTP)

			r.Post("/abonnements", abonnementcreate.New(logger, svc.Abonnement).ServeHTTP)
			r.Get("/abonnements", abonnementlist.New(logger, svc.Abonnement).ServeHTTP)
			r.Delete("/abonnements/{id}", abonnementcancel.New(logger, svc.Abonnement).ServeHTTP)

			r.Post("/stationnements/enter", enter.New(logger, svc.Stationnement).ServeHTTP)
			r.Post("/stationnements/{id}/exit", exit.New(logger, svc.Stationnement).ServeHTTP)
			r.Get("/stationnements", stationnementlist.New(logger, svc.Stationnement).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
