// Package services содержит бизнес-логику для управления резервациями мест.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Ошибки бизнес-правил резерваций.
var (
	ErrParkingClosed      = errors.New("parking is closed during requested range")
	ErrNoFreeSpots        = errors.New("no free spots at requested start")
	ErrNotReservationUser = errors.New("reservation belongs to another user")
	ErrAlreadyFinalized   = errors.New("reservation is already in a terminal status")
)

// ReservationRepository определяет методы для работы с резервациями в хранилище.
type ReservationRepository interface {
	// CreateReservation добавляет новую резервацию и возвращает её ID.
	CreateReservation(ctx context.Context, reservation models.Reservation) (int, error)
	// ReadReservation возвращает резервацию по ID.
	ReadReservation(ctx context.Context, id int) (*models.Reservation, error)
	// ListReservationsByUser возвращает список резерваций пользователя с пагинацией.
	ListReservationsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Reservation, error)
	// ListAllReservations возвращает список всех резерваций с пагинацией.
	ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error)
	// UpdateReservationStatus меняет статус резервации.
	UpdateReservationStatus(ctx context.Context, id int, status string) (int, error)
}

// ParkingProvider дает доступ к парковкам и расчету свободных мест.
type ParkingProvider interface {
	// Read возвращает парковку по ID.
	Read(ctx context.Context, id int) (*models.Parking, error)
	// Availability возвращает число свободных мест парковки на момент времени.
	Availability(ctx context.Context, id int, at time.Time) (int, error)
}

// ReservationService реализует бизнес-логику работы с резервациями.
type ReservationService struct {
	repo     ReservationRepository
	parkings ParkingProvider
	log      *slog.Logger
}

// NewReservationService создает новый экземпляр ReservationService.
func NewReservationService(repo ReservationRepository, parkings ParkingProvider, log *slog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		parkings: parkings,
		log:      log,
	}
}

// Create создает резервацию места на диапазон дат и возвращает её ID.
// Диапазон должен начинаться и заканчиваться в часы работы парковки,
// и на момент начала должно быть свободное место. Резервация создается
// со статусом pending.
func (s *ReservationService) Create(ctx context.Context, username string, req models.DummyReservation) (int, error) {
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	if !endDate.After(startDate) {
		return 0, errors.New("end date must be after start date")
	}

	parking, err := s.parkings.Read(ctx, req.ParkingID)
	if err != nil {
		return 0, err
	}
	loc, err := time.LoadLocation(parking.Timezone)
	if err != nil {
		return 0, err
	}
	// Конец диапазона проверяется минутой раньше: резервация до самого
	// закрытия допустима, интервалы часов работы полуоткрытые.
	if !parking.Opening.IsOpenAt(startDate, loc) ||
		!parking.Opening.IsOpenAt(endDate.Add(-time.Minute), loc) {
		return 0, ErrParkingClosed
	}

	free, err := s.parkings.Availability(ctx, req.ParkingID, startDate)
	if err != nil {
		return 0, err
	}
	if free <= 0 {
		return 0, ErrNoFreeSpots
	}

	reservation := models.Reservation{
		ParkingID: req.ParkingID,
		Username:  username,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.ReservationPending,
	}
	id, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new reservation", slog.Int("id", id), slog.Int("parking_id", req.ParkingID))
	return id, nil
}

// Read возвращает резервацию по ID.
func (s *ReservationService) Read(ctx context.Context, id int) (*models.Reservation, error) {
	return s.repo.ReadReservation(ctx, id)
}

// List возвращает список резерваций в зависимости от роли пользователя.
func (s *ReservationService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.Reservation, error) {
	if role == models.RoleAdmin {
		return s.repo.ListAllReservations(ctx, limit, offset)
	}
	return s.repo.ListReservationsByUser(ctx, username, limit, offset)
}

// Cancel переводит резервацию в статус cancelled. Отменить можно только
// свою резервацию (админ — любую) и только из нетерминального статуса.
func (s *ReservationService) Cancel(ctx context.Context, id int, username, role string) (int, error) {
	reservation, err := s.repo.ReadReservation(ctx, id)
	if err != nil {
		return 0, err
	}
	if role != models.RoleAdmin && reservation.Username != username {
		return 0, ErrNotReservationUser
	}
	if reservation.Status != models.ReservationPending && reservation.Status != models.ReservationConfirmed {
		return 0, ErrAlreadyFinalized
	}

	count, err := s.repo.UpdateReservationStatus(ctx, id, models.ReservationCancelled)
	if err != nil {
		return 0, err
	}
	s.log.Info("cancelled reservation", slog.Int("id", id))
	return count, nil
}

// Confirm переводит резервацию из pending в confirmed. Подтверждает
// владелец парковки или админ.
func (s *ReservationService) Confirm(ctx context.Context, id int, username, role string) (int, error) {
	reservation, err := s.repo.ReadReservation(ctx, id)
	if err != nil {
		return 0, err
	}
	if role != models.RoleAdmin {
		parking, err := s.parkings.Read(ctx, reservation.ParkingID)
		if err != nil {
			return 0, err
		}
		if parking.OwnerUsername != username {
			return 0, ErrNotReservationUser
		}
	}
	if reservation.Status != models.ReservationPending {
		return 0, ErrAlreadyFinalized
	}

	count, err := s.repo.UpdateReservationStatus(ctx, id, models.ReservationConfirmed)
	if err != nil {
		return 0, err
	}
	s.log.Info("confirmed reservation", slog.Int("id", id))
	return count, nil
}
