package models

import "time"

// Статусы резервации. Активными для подсчета занятости считаются
// pending и confirmed; остальные — терминальные.
const (
	ReservationPending       = "pending"
	ReservationConfirmed     = "confirmed"
	ReservationCancelled     = "cancelled"
	ReservationCompleted     = "completed"
	ReservationPaymentFailed = "payment_failed"
)

// Reservation представляет разовое бронирование места на диапазон дат.
type Reservation struct {
	ID        int       `json:"id"`         // Идентификатор резервации
	ParkingID int       `json:"parking_id"` // Идентификатор парковки
	Username  string    `json:"username"`   // Имя пользователя
	StartDate time.Time `json:"start_date"` // Начало диапазона
	EndDate   time.Time `json:"end_date"`   // Конец диапазона
	Status    string    `json:"status"`     // Статус жизненного цикла
}

// IsActiveAt сообщает, занимает ли резервация место в момент t:
// статус не терминальный и диапазон дат содержит t.
func (r Reservation) IsActiveAt(t time.Time) bool {
	if r.Status != ReservationPending && r.Status != ReservationConfirmed {
		return false
	}
	return !t.Before(r.StartDate) && t.Before(r.EndDate)
}

// DummyReservation используется для приёма данных резервации из JSON-запроса.
// Даты приходят строками RFC3339 и парсятся вручную.
type DummyReservation struct {
	ParkingID int    `json:"parking_id" validate:"required,gt=0"` // Парковка
	StartDate string `json:"start_date" validate:"required"`      // Начало, RFC3339
	EndDate   string `json:"end_date" validate:"required"`        // Конец, RFC3339
}
