// Package services содержит планировщик уведомлений об истекающих
// абонементах и перевод закончившихся абонементов в статус expired.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/rabbitmq"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// AbonnementRepository определяет выборки планировщика в хранилище.
type AbonnementRepository interface {
	// FindAbonnementsExpiringTomorrow находит активные абонементы, истекающие завтра.
	FindAbonnementsExpiringTomorrow(ctx context.Context) ([]*models.Abonnement, error)
	// MarkExpiredAbonnements переводит закончившиеся абонементы в статус expired.
	MarkExpiredAbonnements(ctx context.Context) (int, error)
	// GetEmailByUsername возвращает email пользователя.
	GetEmailByUsername(ctx context.Context, username string) (string, error)
	// ReadParking возвращает парковку по ID.
	ReadParking(ctx context.Context, id int) (*models.Parking, error)
}

// SchedulerService периодически сканирует абонементы и публикует
// уведомления в очередь.
type SchedulerService struct {
	repo AbonnementRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo AbonnementRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// NotifyExpiringAbonnements раз в 12 часов находит абонементы, истекающие
// завтра, и публикует уведомления; первый проход выполняется сразу.
func (s *SchedulerService) NotifyExpiringAbonnements(ctx context.Context, channel *amqp.Channel) {
	s.runNotifyExpiringAbonnements(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.runNotifyExpiringAbonnements(ctx, channel)
	}
}

func (s *SchedulerService) runNotifyExpiringAbonnements(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for abonnements expiring tomorrow")
	abonnements, err := s.repo.FindAbonnementsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find abonnements", sl.Err(err))
		return
	}
	if len(abonnements) == 0 {
		s.log.Info("no expiring abonnements found")
		return
	}
	s.log.Info("found expiring abonnements", "count", len(abonnements))
	for _, abonnement := range abonnements {
		info, err := s.buildInfo(ctx, abonnement)
		if err != nil {
			s.log.Error("failed to build notification payload", sl.Err(err))
			continue
		}
		if err := rabbitmq.PublishMessage(channel, "notifications", "upcoming", info); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// ExpireFinishedAbonnements раз в сутки переводит закончившиеся абонементы
// в статус expired; первый проход выполняется сразу.
func (s *SchedulerService) ExpireFinishedAbonnements(ctx context.Context) {
	s.runExpireFinishedAbonnements(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.runExpireFinishedAbonnements(ctx)
	}
}

func (s *SchedulerService) runExpireFinishedAbonnements(ctx context.Context) {
	s.log.Info("starting scan for finished abonnements")
	count, err := s.repo.MarkExpiredAbonnements(ctx)
	if err != nil {
		s.log.Error("failed to mark expired abonnements", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("marked abonnements as expired", "count", count)
	}
}

func (s *SchedulerService) buildInfo(ctx context.Context, abonnement *models.Abonnement) (*models.AbonnementInfo, error) {
	email, err := s.repo.GetEmailByUsername(ctx, abonnement.Username)
	if err != nil {
		return nil, err
	}
	parkingName := ""
	if parking, err := s.repo.ReadParking(ctx, abonnement.ParkingID); err == nil {
		parkingName = parking.Name
	}
	return &models.AbonnementInfo{
		Email:       email,
		Username:    abonnement.Username,
		ParkingName: parkingName,
		Type:        abonnement.Type,
		EndDate:     abonnement.EndDate(),
	}, nil
}
