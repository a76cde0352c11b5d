// Package services содержит бизнес-логику для управления парковками и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/availability"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// ErrNotOwner возвращается при попытке изменить чужую парковку.
var ErrNotOwner = errors.New("parking belongs to another owner")

// ParkingRepository определяет методы для работы с парковками в хранилище.
type ParkingRepository interface {
	// CreateParking добавляет новую парковку и возвращает её ID.
	CreateParking(ctx context.Context, parking models.Parking) (int, error)
	// ReadParking возвращает парковку по ID.
	ReadParking(ctx context.Context, id int) (*models.Parking, error)
	// ListParkings возвращает список всех парковок с пагинацией.
	ListParkings(ctx context.Context, limit, offset int) ([]*models.Parking, error)
	// ListParkingsByOwner возвращает список парковок владельца с пагинацией.
	ListParkingsByOwner(ctx context.Context, ownerUsername string, limit, offset int) ([]*models.Parking, error)
	// UpdateParking обновляет основные атрибуты парковки.
	UpdateParking(ctx context.Context, parking models.Parking, id int) (int, error)
	// ReplaceParkingOpening целиком заменяет часы работы парковки.
	ReplaceParkingOpening(ctx context.Context, id int, parking models.Parking) (int, error)
	// ReplaceParkingPricing целиком заменяет тариф парковки.
	ReplaceParkingPricing(ctx context.Context, id int, parking models.Parking) (int, error)
	// RemoveParking удаляет парковку по ID.
	RemoveParking(ctx context.Context, id int) (int, error)
	// ListActiveReservations возвращает резервации парковки в нетерминальных статусах.
	ListActiveReservations(ctx context.Context, parkingID int) ([]*models.Reservation, error)
	// ListActiveAbonnements возвращает активные абонементы парковки.
	ListActiveAbonnements(ctx context.Context, parkingID int) ([]*models.Abonnement, error)
	// ListOpenStationnements возвращает открытые стоянки парковки.
	ListOpenStationnements(ctx context.Context, parkingID int) ([]*models.Stationnement, error)
	// ListReservationsByParking возвращает список резерваций парковки с пагинацией.
	ListReservationsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Reservation, error)
	// ListAbonnementsByParking возвращает список абонементов парковки с пагинацией.
	ListAbonnementsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Abonnement, error)
	// ListStationnementsByParking возвращает список стоянок парковки с пагинацией.
	ListStationnementsByParking(ctx context.Context, parkingID, limit, offset int) ([]*models.Stationnement, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ParkingService реализует бизнес-логику работы с парковками, включая
// расчет свободных мест и кеширование документов парковок.
type ParkingService struct {
	repo            ParkingRepository
	cache           Cache
	log             *slog.Logger
	defaultTimezone string
}

// NewParkingService создает новый экземпляр ParkingService.
func NewParkingService(repo ParkingRepository, cache Cache, log *slog.Logger, defaultTimezone string) *ParkingService {
	return &ParkingService{
		repo:            repo,
		cache:           cache,
		log:             log,
		defaultTimezone: defaultTimezone,
	}
}

// Create создает новую парковку владельца и возвращает её ID.
// Новая парковка открыта круглосуточно с нулевым тарифом, пока владелец
// не заменит часы работы и прайс отдельными запросами.
func (s *ParkingService) Create(ctx context.Context, ownerUsername string, req models.DummyParking) (int, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return 0, fmt.Errorf("invalid timezone: %w", err)
	}

	plan, err := pricing.NewPlan(pricing.StepMinutes, nil, 0, 0, nil, "EUR")
	if err != nil {
		return 0, err
	}
	parking := models.Parking{
		OwnerUsername: ownerUsername,
		Name:          req.Name,
		Address:       req.Address,
		Capacity:      req.Capacity,
		Timezone:      timezone,
		Opening:       schedule.AlwaysOpen(),
		Plan:          plan,
	}

	id, err := s.repo.CreateParking(ctx, parking)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new parking", slog.Int("id", id))
	return id, nil
}

// Read возвращает парковку по ID, используя кеш или репозиторий.
func (s *ParkingService) Read(ctx context.Context, id int) (*models.Parking, error) {
	var result *models.Parking
	cacheKey := fmt.Sprintf("parking:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadParking(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает список парковок в зависимости от роли пользователя:
// владелец видит свои парковки, остальные — общий каталог.
func (s *ParkingService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.Parking, error) {
	if role == models.RoleOwner {
		return s.repo.ListParkingsByOwner(ctx, username, limit, offset)
	}
	return s.repo.ListParkings(ctx, limit, offset)
}

// Update обновляет основные атрибуты парковки владельца и инвалидирует кеш.
func (s *ParkingService) Update(ctx context.Context, id int, username, role string, req models.DummyParking) (int, error) {
	existing, err := s.checkOwnership(ctx, id, username, role)
	if err != nil {
		return 0, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = existing.Timezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return 0, fmt.Errorf("invalid timezone: %w", err)
	}

	parking := models.Parking{
		Name:     req.Name,
		Address:  req.Address,
		Capacity: req.Capacity,
		Timezone: timezone,
	}
	res, err := s.repo.UpdateParking(ctx, parking, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(id)
	return res, nil
}

// ReplaceOpening целиком заменяет часы работы парковки: прежнее расписание
// отбрасывается, частичное редактирование не поддерживается.
func (s *ParkingService) ReplaceOpening(ctx context.Context, id int, username, role string, req models.DummyOpening) (int, error) {
	if _, err := s.checkOwnership(ctx, id, username, role); err != nil {
		return 0, err
	}

	days := make(map[int][]schedule.Interval)
	for _, dummy := range req.Intervals {
		interval, err := schedule.NewInterval(dummy.Start, dummy.End)
		if err != nil {
			return 0, err
		}
		days[dummy.Day] = append(days[dummy.Day], interval)
	}
	opening, err := schedule.NewOpeningSchedule(days)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.ReplaceParkingOpening(ctx, id, models.Parking{Opening: opening})
	if err != nil {
		return 0, err
	}
	s.log.Info("replaced parking opening schedule", slog.Int("id", id))
	s.invalidate(id)
	return res, nil
}

// ReplacePricing целиком заменяет тариф парковки. Новый тариф действует
// только для последующих расчетов, уже выставленные счета не пересчитываются.
func (s *ParkingService) ReplacePricing(ctx context.Context, id int, username, role string, req models.DummyPricing) (int, error) {
	if _, err := s.checkOwnership(ctx, id, username, role); err != nil {
		return 0, err
	}

	tiers := make([]pricing.Tier, 0, len(req.Tiers))
	for _, dummy := range req.Tiers {
		tiers = append(tiers, pricing.Tier{
			UpToMinutes:       dummy.UpToMinutes,
			PricePerStepCents: dummy.PricePerStepCents,
		})
	}
	plan, err := pricing.NewPlan(pricing.StepMinutes, tiers, req.DefaultPricePerStepCents,
		req.OverstayPenaltyCents, req.SubscriptionPrices, req.Currency)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.ReplaceParkingPricing(ctx, id, models.Parking{Plan: plan})
	if err != nil {
		return 0, err
	}
	s.log.Info("replaced parking pricing plan", slog.Int("id", id))
	s.invalidate(id)
	return res, nil
}

// Remove удаляет парковку владельца и инвалидирует кеш.
func (s *ParkingService) Remove(ctx context.Context, id int, username, role string) (int, error) {
	if _, err := s.checkOwnership(ctx, id, username, role); err != nil {
		return 0, err
	}

	count, err := s.repo.RemoveParking(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(id)
	return count, nil
}

// Availability возвращает число свободных мест парковки на момент времени.
// Свободные места пересчитываются по снимку активных записей на каждый
// запрос; блокировок между конкурентными запросами нет.
func (s *ParkingService) Availability(ctx context.Context, id int, at time.Time) (int, error) {
	parking, err := s.Read(ctx, id)
	if err != nil {
		return 0, err
	}
	loc, err := time.LoadLocation(parking.Timezone)
	if err != nil {
		return 0, err
	}

	reservations, err := s.repo.ListActiveReservations(ctx, id)
	if err != nil {
		return 0, err
	}
	abonnements, err := s.repo.ListActiveAbonnements(ctx, id)
	if err != nil {
		return 0, err
	}
	stationnements, err := s.repo.ListOpenStationnements(ctx, id)
	if err != nil {
		return 0, err
	}

	return availability.FreeSpotsAt(parking.Capacity, at, loc,
		deref(reservations), deref(abonnements), deref(stationnements)), nil
}

// Activity сводка по парковке для владельца: резервации, абонементы
// и стоянки с общей пагинацией.
type Activity struct {
	Reservations   []*models.Reservation   `json:"reservations"`
	Abonnements    []*models.Abonnement    `json:"abonnements"`
	Stationnements []*models.Stationnement `json:"stationnements"`
}

// ListActivity возвращает сводку по парковке. Доступно владельцу
// парковки и админу.
func (s *ParkingService) ListActivity(ctx context.Context, id int, username, role string, limit, offset int) (*Activity, error) {
	if _, err := s.checkOwnership(ctx, id, username, role); err != nil {
		return nil, err
	}

	reservations, err := s.repo.ListReservationsByParking(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	abonnements, err := s.repo.ListAbonnementsByParking(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	stationnements, err := s.repo.ListStationnementsByParking(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}

	return &Activity{
		Reservations:   reservations,
		Abonnements:    abonnements,
		Stationnements: stationnements,
	}, nil
}

func (s *ParkingService) checkOwnership(ctx context.Context, id int, username, role string) (*models.Parking, error) {
	parking, err := s.repo.ReadParking(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && parking.OwnerUsername != username {
		return nil, ErrNotOwner
	}
	return parking, nil
}

func (s *ParkingService) invalidate(id int) {
	cacheKey := fmt.Sprintf("parking:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func deref[T any](items []*T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, *item)
	}
	return result
}
