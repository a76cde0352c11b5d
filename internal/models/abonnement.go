package models

import (
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
)

// Статусы абонемента.
const (
	AbonnementActive    = "active"
	AbonnementCancelled = "cancelled"
	AbonnementExpired   = "expired"
)

// Abonnement представляет абонемент: долгосрочный (1-12 месяцев) доступ
// к парковке в пределах недельного набора слотов.
type Abonnement struct {
	ID            int                       `json:"id"`             // Идентификатор абонемента
	ParkingID     int                       `json:"parking_id"`     // Идентификатор парковки
	Username      string                    `json:"username"`       // Имя пользователя
	Type          string                    `json:"type"`           // Тип абонемента из прайса тарифа (monthly, weekend и т.п.)
	StartDate     time.Time                 `json:"start_date"`     // Дата начала
	CounterMonths int                       `json:"counter_months"` // Срок в месяцах, 1..12
	Slots         schedule.RecurringSlotSet `json:"slots"`          // Недельные слоты доступа
	PriceCents    int                       `json:"price_cents"`    // Цена абонемента в центах на момент оформления
	Status        string                    `json:"status"`         // Статус жизненного цикла
}

// EndDate возвращает дату окончания абонемента.
func (a Abonnement) EndDate() time.Time {
	return a.StartDate.AddDate(0, a.CounterMonths, 0)
}

// CoversAt сообщает, занимает ли абонемент место в момент t в зоне loc:
// статус активен, срок не истёк и недельный слот покрывает момент.
func (a Abonnement) CoversAt(t time.Time, loc *time.Location) bool {
	if a.Status != AbonnementActive {
		return false
	}
	if t.Before(a.StartDate) || !t.Before(a.EndDate()) {
		return false
	}
	return a.Slots.Covers(t, loc)
}

// AbonnementInfo полезная нагрузка уведомления об истекающем абонементе,
// публикуемая планировщиком в очередь и потребляемая отправителем писем.
type AbonnementInfo struct {
	Email       string    `json:"email"`        // Адрес получателя
	Username    string    `json:"username"`     // Имя пользователя
	ParkingName string    `json:"parking_name"` // Название парковки
	Type        string    `json:"type"`         // Тип абонемента
	EndDate     time.Time `json:"end_date"`     // Дата окончания
}

// DummyAbonnementSlot слот абонемента из JSON-запроса в легаси-формате:
// дни недели приходят как 1=понедельник..7=воскресенье и нормализуются
// на границе к внутреннему соглашению 0=воскресенье..6=суббота.
type DummyAbonnementSlot struct {
	StartDay  int    `json:"start_day" validate:"required,min=1,max=7"` // День начала, 1=понедельник..7=воскресенье
	EndDay    int    `json:"end_day" validate:"required,min=1,max=7"`   // День конца
	StartTime string `json:"start_time" validate:"required"`            // Начало, HH:MM
	EndTime   string `json:"end_time" validate:"required"`              // Конец, HH:MM
}

// DummyAbonnement используется для приёма данных абонемента из JSON-запроса.
type DummyAbonnement struct {
	ParkingID     int                   `json:"parking_id" validate:"required,gt=0"`        // Парковка
	Type          string                `json:"type" validate:"required"`                   // Тип из прайса тарифа
	StartDate     string                `json:"start_date" validate:"required"`             // Дата начала в формате 02-01-2006
	CounterMonths int                   `json:"counter_months" validate:"required,min=1,max=12"` // Срок в месяцах
	Slots         []DummyAbonnementSlot `json:"slots" validate:"required,min=1,dive"`       // Недельные слоты
}
