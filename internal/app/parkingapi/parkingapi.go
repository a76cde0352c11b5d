// Package parkingapi собирает основное HTTP-приложение: хранилище,
// кеш, миграции, сервисы и маршруты.
package parkingapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/cache"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/config"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/jwt"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/migrations"
	abonnementservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/abonnement"
	authservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/auth"
	parkingservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/parking"
	reservationservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/reservation"
	stationnementservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/stationnement"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/storage/repository"

	"github.com/go-chi/chi"
)

// App основное приложение парковочного сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает Postgres и Redis, прогоняет
// миграции и собирает сервисы с маршрутами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	parkingService := parkingservice.NewParkingService(db, cacheRedis, logger, cfg.DefaultTimezone)
	reservationService := reservationservice.NewReservationService(db, parkingService, logger)
	abonnementService := abonnementservice.NewAbonnementService(db, parkingService, logger)
	stationnementService := stationnementservice.NewStationnementService(db, db, parkingService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authService,
		Parking:       parkingService,
		Reservation:   reservationService,
		Abonnement:    abonnementService,
		Stationnement: stationnementService,
		TokenParser:   jwtMaker,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
