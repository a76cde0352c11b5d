// Package services содержит бизнес-логику для управления абонементами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/weekclock"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Ошибки бизнес-правил абонементов.
var (
	ErrNotAbonnementUser = errors.New("abonnement belongs to another user")
	ErrAlreadyFinalized  = errors.New("abonnement is already cancelled or expired")
)

// AbonnementRepository определяет методы для работы с абонементами в хранилище.
type AbonnementRepository interface {
	// CreateAbonnement добавляет новый абонемент и возвращает его ID.
	CreateAbonnement(ctx context.Context, abonnement models.Abonnement) (int, error)
	// ReadAbonnement возвращает абонемент по ID.
	ReadAbonnement(ctx context.Context, id int) (*models.Abonnement, error)
	// ListAbonnementsByUser возвращает список абонементов пользователя с пагинацией.
	ListAbonnementsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Abonnement, error)
	// ListAllAbonnements возвращает список всех абонементов с пагинацией.
	ListAllAbonnements(ctx context.Context, limit, offset int) ([]*models.Abonnement, error)
	// UpdateAbonnementStatus меняет статус абонемента.
	UpdateAbonnementStatus(ctx context.Context, id int, status string) (int, error)
}

// ParkingReader дает доступ к парковкам.
type ParkingReader interface {
	// Read возвращает парковку по ID.
	Read(ctx context.Context, id int) (*models.Parking, error)
}

// AbonnementService реализует бизнес-логику работы с абонементами.
type AbonnementService struct {
	repo     AbonnementRepository
	parkings ParkingReader
	log      *slog.Logger
}

// NewAbonnementService создает новый экземпляр AbonnementService.
func NewAbonnementService(repo AbonnementRepository, parkings ParkingReader, log *slog.Logger) *AbonnementService {
	return &AbonnementService{
		repo:     repo,
		parkings: parkings,
		log:      log,
	}
}

// Create оформляет абонемент и возвращает его ID. Дни недели слотов
// приходят в легаси-формате 1=понедельник..7=воскресенье и нормализуются
// на этой границе; цена фиксируется из прайса тарифа парковки на момент
// оформления и не меняется при последующей смене тарифа.
func (s *AbonnementService) Create(ctx context.Context, username string, req models.DummyAbonnement) (int, error) {
	startDate, err := time.Parse("02-01-2006", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	parking, err := s.parkings.Read(ctx, req.ParkingID)
	if err != nil {
		return 0, err
	}
	priceCents, err := parking.Plan.SubscriptionPriceCents(req.Type)
	if err != nil {
		return 0, err
	}

	slots := make([]schedule.RecurringSlot, 0, len(req.Slots))
	for _, dummy := range req.Slots {
		startDay, err := weekclock.FromISODay(dummy.StartDay)
		if err != nil {
			return 0, err
		}
		endDay, err := weekclock.FromISODay(dummy.EndDay)
		if err != nil {
			return 0, err
		}
		slots = append(slots, schedule.RecurringSlot{
			StartDay:  startDay,
			EndDay:    endDay,
			StartTime: dummy.StartTime,
			EndTime:   dummy.EndTime,
		})
	}
	slotSet, err := schedule.NewRecurringSlotSet(slots)
	if err != nil {
		return 0, err
	}

	abonnement := models.Abonnement{
		ParkingID:     req.ParkingID,
		Username:      username,
		Type:          req.Type,
		StartDate:     startDate,
		CounterMonths: req.CounterMonths,
		Slots:         slotSet,
		PriceCents:    priceCents,
		Status:        models.AbonnementActive,
	}
	id, err := s.repo.CreateAbonnement(ctx, abonnement)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new abonnement", slog.Int("id", id), slog.Int("parking_id", req.ParkingID))
	return id, nil
}

// Read возвращает абонемент по ID.
func (s *AbonnementService) Read(ctx context.Context, id int) (*models.Abonnement, error) {
	return s.repo.ReadAbonnement(ctx, id)
}

// List возвращает список абонементов в зависимости от роли пользователя.
func (s *AbonnementService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.Abonnement, error) {
	if role == models.RoleAdmin {
		return s.repo.ListAllAbonnements(ctx, limit, offset)
	}
	return s.repo.ListAbonnementsByUser(ctx, username, limit, offset)
}

// Cancel переводит абонемент в статус cancelled. Отменить можно только
// свой абонемент (админ — любой) и только активный.
func (s *AbonnementService) Cancel(ctx context.Context, id int, username, role string) (int, error) {
	abonnement, err := s.repo.ReadAbonnement(ctx, id)
	if err != nil {
		return 0, err
	}
	if role != models.RoleAdmin && abonnement.Username != username {
		return 0, ErrNotAbonnementUser
	}
	if abonnement.Status != models.AbonnementActive {
		return 0, ErrAlreadyFinalized
	}

	count, err := s.repo.UpdateAbonnementStatus(ctx, id, models.AbonnementCancelled)
	if err != nil {
		return 0, err
	}
	s.log.Info("cancelled abonnement", slog.Int("id", id))
	return count, nil
}
