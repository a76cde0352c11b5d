// Package sender собирает приложение отправки почтовых уведомлений:
// потребляет сообщения об истекающих абонементах и шлет письма.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/config"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/rabbitmq"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/smtp"
	senderservice "github.com/christopherDEPASQUAL/parking-sub000/internal/services/sender"
)

// App представляет приложение отправителя уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправителя.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди уведомлений.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notification.upcoming", a.senderService.SendExpiringAbonnement)
	if err != nil {
		a.logger.Error("failed to start notification.upcoming consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
