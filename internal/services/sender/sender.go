// Package services содержит отправку почтовых уведомлений об истекающих
// абонементах, потребляемых из очереди.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/sl"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/lib/smtp"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// SenderService отправляет письма через SMTP-транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendExpiringAbonnement отправляет пользователю письмо о том, что его
// абонемент заканчивается завтра. Тело сообщения — JSON models.AbonnementInfo.
func (s *SenderService) SendExpiringAbonnement(body []byte) error {
	var message models.AbonnementInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Votre abonnement de stationnement expire demain"
	bodyText := fmt.Sprintf(`Bonjour %s,

Votre abonnement "%s" pour le parking %s expire le %s.

Pensez a le renouveler pour conserver votre acces.`,
		message.Username, message.Type, message.ParkingName,
		message.EndDate.Format("02-01-2006"))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
