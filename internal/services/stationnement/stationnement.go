// Package services содержит бизнес-логику физических стоянок: въезд,
// выезд с расчетом счета и списки стоянок.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/billing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// Ошибки бизнес-правил стоянок.
var (
	ErrParkingClosed        = errors.New("parking is closed")
	ErrNoFreeSpots          = errors.New("no free spots")
	ErrGoverningNotActive   = errors.New("governing record does not admit entry now")
	ErrNotGoverningUser     = errors.New("governing record belongs to another user")
	ErrAlreadyParked        = errors.New("governing record already has an open parking session")
	ErrNotStationnementUser = errors.New("parking session belongs to another user")
	ErrAlreadyClosed        = errors.New("parking session is already closed")
)

// StationnementRepository определяет методы для работы со стоянками в хранилище.
type StationnementRepository interface {
	// CreateStationnement добавляет открытую стоянку и возвращает её ID.
	CreateStationnement(ctx context.Context, stationnement models.Stationnement) (int, error)
	// ReadStationnement возвращает стоянку по ID.
	ReadStationnement(ctx context.Context, id int) (*models.Stationnement, error)
	// CloseStationnement закрывает стоянку ровно один раз.
	CloseStationnement(ctx context.Context, id int, endedAt time.Time, amountCents int) (int, error)
	// ListStationnementsByUser возвращает список стоянок пользователя с пагинацией.
	ListStationnementsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Stationnement, error)
	// ListAllStationnements возвращает список всех стоянок с пагинацией.
	ListAllStationnements(ctx context.Context, limit, offset int) ([]*models.Stationnement, error)
	// FindOpenStationnementByGoverning возвращает открытую стоянку управляющей записи.
	FindOpenStationnementByGoverning(ctx context.Context, governingKind string, governingID int) (*models.Stationnement, error)
}

// GoverningRepository дает доступ к управляющим записям стоянок.
type GoverningRepository interface {
	// ReadReservation возвращает резервацию по ID.
	ReadReservation(ctx context.Context, id int) (*models.Reservation, error)
	// UpdateReservationStatus меняет статус резервации.
	UpdateReservationStatus(ctx context.Context, id int, status string) (int, error)
	// ReadAbonnement возвращает абонемент по ID.
	ReadAbonnement(ctx context.Context, id int) (*models.Abonnement, error)
}

// ParkingProvider дает доступ к парковкам и расчету свободных мест.
type ParkingProvider interface {
	// Read возвращает парковку по ID.
	Read(ctx context.Context, id int) (*models.Parking, error)
	// Availability возвращает число свободных мест парковки на момент времени.
	Availability(ctx context.Context, id int, at time.Time) (int, error)
}

// StationnementService реализует бизнес-логику въезда и выезда.
type StationnementService struct {
	repo      StationnementRepository
	governing GoverningRepository
	parkings  ParkingProvider
	log       *slog.Logger
	now       func() time.Time
}

// NewStationnementService создает новый экземпляр StationnementService.
func NewStationnementService(repo StationnementRepository, governing GoverningRepository,
	parkings ParkingProvider, log *slog.Logger) *StationnementService {
	return &StationnementService{
		repo:      repo,
		governing: governing,
		parkings:  parkings,
		log:       log,
		now:       time.Now,
	}
}

// Enter открывает стоянку (въезд) и возвращает её ID. Въезд допускается,
// когда парковка открыта, есть свободное место и управляющая запись
// пользователя допускает въезд в данный момент: активная резервация либо
// абонемент, чей слот покрывает момент. Одна управляющая запись держит
// не больше одной открытой стоянки.
func (s *StationnementService) Enter(ctx context.Context, username string, req models.DummyEnter) (int, error) {
	at := s.now()

	parking, err := s.parkings.Read(ctx, req.ParkingID)
	if err != nil {
		return 0, err
	}
	loc, err := time.LoadLocation(parking.Timezone)
	if err != nil {
		return 0, err
	}
	if !parking.Opening.IsOpenAt(at, loc) {
		return 0, ErrParkingClosed
	}

	switch req.GoverningKind {
	case models.GoverningReservation:
		reservation, err := s.governing.ReadReservation(ctx, req.GoverningID)
		if err != nil {
			return 0, err
		}
		if reservation.Username != username {
			return 0, ErrNotGoverningUser
		}
		if reservation.ParkingID != req.ParkingID || !reservation.IsActiveAt(at) {
			return 0, ErrGoverningNotActive
		}
	case models.GoverningAbonnement:
		abonnement, err := s.governing.ReadAbonnement(ctx, req.GoverningID)
		if err != nil {
			return 0, err
		}
		if abonnement.Username != username {
			return 0, ErrNotGoverningUser
		}
		if abonnement.ParkingID != req.ParkingID || !abonnement.CoversAt(at, loc) {
			return 0, ErrGoverningNotActive
		}
	default:
		return 0, fmt.Errorf("unknown governing kind %q", req.GoverningKind)
	}

	if _, err := s.repo.FindOpenStationnementByGoverning(ctx, req.GoverningKind, req.GoverningID); err == nil {
		return 0, ErrAlreadyParked
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	free, err := s.parkings.Availability(ctx, req.ParkingID, at)
	if err != nil {
		return 0, err
	}
	if free <= 0 {
		return 0, ErrNoFreeSpots
	}

	stationnement := models.Stationnement{
		ParkingID:     req.ParkingID,
		Username:      username,
		GoverningKind: req.GoverningKind,
		GoverningID:   req.GoverningID,
		StartedAt:     at,
	}
	id, err := s.repo.CreateStationnement(ctx, stationnement)
	if err != nil {
		return 0, err
	}

	s.log.Info("opened parking session", slog.Int("id", id), slog.Int("parking_id", req.ParkingID))
	return id, nil
}

// Exit закрывает стоянку (выезд): считает счет по тарифу парковки на
// момент выезда и сохраняет его вместе с моментом выезда. Закрытие
// одноразовое; повторный выезд возвращает ошибку. Резервация после
// выезда переводится в completed.
func (s *StationnementService) Exit(ctx context.Context, id int, username, role string) (*billing.Result, error) {
	endedAt := s.now()

	stationnement, err := s.repo.ReadStationnement(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && stationnement.Username != username {
		return nil, ErrNotStationnementUser
	}
	if !stationnement.IsOpen() {
		return nil, ErrAlreadyClosed
	}

	parking, err := s.parkings.Read(ctx, stationnement.ParkingID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(parking.Timezone)
	if err != nil {
		return nil, err
	}

	var result billing.Result
	switch stationnement.GoverningKind {
	case models.GoverningReservation:
		reservation, err := s.governing.ReadReservation(ctx, stationnement.GoverningID)
		if err != nil {
			return nil, err
		}
		result, err = billing.CloseWithReservation(stationnement, endedAt, *reservation, parking.Plan)
		if err != nil {
			return nil, err
		}
		if reservation.Status == models.ReservationPending || reservation.Status == models.ReservationConfirmed {
			if _, err := s.governing.UpdateReservationStatus(ctx, reservation.ID, models.ReservationCompleted); err != nil {
				s.log.Warn("failed to complete reservation", slog.Int("id", reservation.ID), slog.Any("err", err))
			}
		}
	case models.GoverningAbonnement:
		abonnement, err := s.governing.ReadAbonnement(ctx, stationnement.GoverningID)
		if err != nil {
			return nil, err
		}
		result, err = billing.CloseWithAbonnement(stationnement, endedAt, abonnement.Slots, loc, parking.Plan)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown governing kind %q", stationnement.GoverningKind)
	}

	rows, err := s.repo.CloseStationnement(ctx, id, endedAt, result.Amount.AmountCents)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyClosed
	}

	s.log.Info("closed parking session", slog.Int("id", id),
		slog.Int("amount_cents", result.Amount.AmountCents),
		slog.Int("overstay_minutes", result.OverstayMinutes))
	return &result, nil
}

// List возвращает список стоянок в зависимости от роли пользователя.
func (s *StationnementService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.Stationnement, error) {
	if role == models.RoleAdmin {
		return s.repo.ListAllStationnements(ctx, limit, offset)
	}
	return s.repo.ListStationnementsByUser(ctx, username, limit, offset)
}
