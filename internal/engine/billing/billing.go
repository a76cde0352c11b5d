// Package billing реализует закрытие стоянки и расчет счёта на выезде.
//
// Машина состояний стоянки одношаговая: Active → Closed, обратного пути нет.
// Расчет чистый: двигатель не делает I/O, сумма возвращается вызывающей
// стороне, которая сама проводит платеж и сохраняет запись.
package billing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// ErrSessionAlreadyClosed возвращается при попытке закрыть уже закрытую стоянку.
var ErrSessionAlreadyClosed = errors.New("stationnement already closed")

// ErrInvalidSessionTime возвращается, когда момент выезда не позже момента въезда.
var ErrInvalidSessionTime = errors.New("stationnement end must be after start")

// DurationMinutes длительность между двумя моментами в минутах
// с округлением к ближайшей минуте.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Seconds() / 60))
}

// reservedMinutes длительность диапазона резервации в минутах,
// секунды округляются вверх.
func reservedMinutes(r models.Reservation) int {
	return int(math.Ceil(r.EndDate.Sub(r.StartDate).Seconds() / 60))
}

// Result итог закрытия стоянки.
type Result struct {
	BillableMinutes int           // Минуты, попавшие в счёт
	OverstayMinutes int           // Минуты превышения (0, если не было)
	Amount          pricing.Money // Итоговая сумма
}

// CloseWithReservation закрывает стоянку, управляемую резервацией.
//
// Счёт выставляется минимум за зарезервированную длительность: короткая
// фактическая стоянка не уменьшает сумму относительно брони. При превышении
// добавляется фиксированная надбавка тарифа.
func CloseWithReservation(s *models.Stationnement, endedAt time.Time,
	r models.Reservation, plan pricing.Plan) (Result, error) {
	const op = "billing.CloseWithReservation"

	if err := validateClose(s, endedAt); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	reserved := reservedMinutes(r)
	actual := DurationMinutes(s.StartedAt, endedAt)
	billable := actual
	if reserved > billable {
		billable = reserved
	}
	overstay := 0
	if actual > reserved {
		overstay = actual - reserved
	}

	amountCents := plan.ComputeOverstayPriceCents(reserved, billable)
	applyClose(s, endedAt, amountCents)
	return Result{
		BillableMinutes: billable,
		OverstayMinutes: overstay,
		Amount:          pricing.NewMoney(amountCents, plan.Currency),
	}, nil
}

// CloseWithAbonnement закрывает стоянку, управляемую абонементом.
//
// Покрытая слотом часть стоянки бесплатна: счёт выставляется только за
// минуты после конца покрывающего слота, плюс фиксированная надбавка.
// Если превышения не было, сумма нулевая.
func CloseWithAbonnement(s *models.Stationnement, endedAt time.Time,
	slots schedule.RecurringSlotSet, loc *time.Location, plan pricing.Plan) (Result, error) {
	const op = "billing.CloseWithAbonnement"

	if err := validateClose(s, endedAt); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	reserved := slots.RemainingMinutesFrom(s.StartedAt, loc)
	actual := DurationMinutes(s.StartedAt, endedAt)
	overstay := actual - reserved
	if overstay < 0 {
		overstay = 0
	}

	amountCents := 0
	if overstay > 0 {
		amountCents = plan.ComputePriceCents(overstay) + plan.OverstayPenaltyCents
	}
	applyClose(s, endedAt, amountCents)
	return Result{
		BillableMinutes: overstay,
		OverstayMinutes: overstay,
		Amount:          pricing.NewMoney(amountCents, plan.Currency),
	}, nil
}

func validateClose(s *models.Stationnement, endedAt time.Time) error {
	if !s.IsOpen() {
		return ErrSessionAlreadyClosed
	}
	if !endedAt.After(s.StartedAt) {
		return ErrInvalidSessionTime
	}
	return nil
}

func applyClose(s *models.Stationnement, endedAt time.Time, amountCents int) {
	ended := endedAt
	s.EndedAt = &ended
	amount := amountCents
	s.AmountCents = &amount
}
