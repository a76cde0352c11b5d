package models

import "time"

// Виды управляющей записи стоянки: стоянка идёт либо по резервации,
// либо по абонементу.
const (
	GoverningReservation = "reservation"
	GoverningAbonnement  = "abonnement"
)

// Stationnement представляет один физический въезд-выезд.
// Создается открытым (EndedAt == nil) при въезде; при выезде закрывается
// один раз — проставляются EndedAt и рассчитанная сумма.
type Stationnement struct {
	ID            int        `json:"id"`             // Идентификатор стоянки
	ParkingID     int        `json:"parking_id"`     // Идентификатор парковки
	Username      string     `json:"username"`       // Имя пользователя
	GoverningKind string     `json:"governing_kind"` // Вид управляющей записи: reservation или abonnement
	GoverningID   int        `json:"governing_id"`   // Идентификатор управляющей записи
	StartedAt     time.Time  `json:"started_at"`     // Момент въезда
	EndedAt       *time.Time `json:"ended_at"`       // Момент выезда, nil пока стоянка открыта
	AmountCents   *int       `json:"amount_cents"`   // Счёт в центах, nil пока стоянка открыта
}

// IsOpen сообщает, открыта ли ещё стоянка.
func (s Stationnement) IsOpen() bool {
	return s.EndedAt == nil
}

// OccupiesAt сообщает, занимает ли стоянка место в момент t:
// открытый интервал [StartedAt, EndedAt-или-бесконечность).
func (s Stationnement) OccupiesAt(t time.Time) bool {
	if t.Before(s.StartedAt) {
		return false
	}
	return s.EndedAt == nil || t.Before(*s.EndedAt)
}

// DummyEnter используется для приёма данных въезда из JSON-запроса.
type DummyEnter struct {
	ParkingID     int    `json:"parking_id" validate:"required,gt=0"`                              // Парковка
	GoverningKind string `json:"governing_kind" validate:"required,oneof=reservation abonnement"` // Вид управляющей записи
	GoverningID   int    `json:"governing_id" validate:"required,gt=0"`                            // Идентификатор записи
}
