// Package models содержит доменные структуры парковочного сервиса:
// парковки, резервации, абонементы и стоянки, а также вспомогательные
// Dummy-типы для приёма данных из JSON-запросов до их валидации.
package models

import (
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
)

// Parking представляет парковку владельца: вместимость, часы работы,
// тариф и часовой пояс, в котором считаются дни недели и минуты суток.
type Parking struct {
	ID            int                      `json:"id"`             // Идентификатор парковки
	OwnerUsername string                   `json:"owner_username"` // Имя пользователя-владельца
	Name          string                   `json:"name"`           // Название
	Address       string                   `json:"address"`        // Адрес
	Capacity      int                      `json:"capacity"`       // Общее число мест
	Timezone      string                   `json:"timezone"`       // Часовой пояс IANA, например Europe/Paris
	Opening       schedule.OpeningSchedule `json:"opening"`        // Часы работы по дням недели
	Plan          pricing.Plan             `json:"plan"`           // Тариф
}

// DummyParking используется для приёма данных парковки из JSON-запроса.
type DummyParking struct {
	Name     string `json:"name" validate:"required"`            // Название
	Address  string `json:"address" validate:"required"`         // Адрес
	Capacity int    `json:"capacity" validate:"required,gt=0"`   // Число мест (>0)
	Timezone string `json:"timezone,omitempty" validate:"omitempty"` // Часовой пояс, по умолчанию Europe/Paris
}

// DummyOpeningInterval один интервал часов работы из JSON-запроса.
type DummyOpeningInterval struct {
	Day   int    `json:"day" validate:"min=0,max=6"` // День недели, 0=воскресенье..6=суббота
	Start string `json:"start" validate:"required"`  // Начало в формате HH:MM
	End   string `json:"end" validate:"required"`    // Конец в формате HH:MM, 24:00 — до конца суток
}

// DummyOpening полное новое расписание часов работы: заменяет прежнее целиком.
type DummyOpening struct {
	Intervals []DummyOpeningInterval `json:"intervals" validate:"required,dive"`
}

// DummyPricingTier одна ступень тарифа из JSON-запроса.
type DummyPricingTier struct {
	UpToMinutes       int `json:"up_to_minutes" validate:"required,gt=0"` // Граница ступени в минутах
	PricePerStepCents int `json:"price_per_step_cents" validate:"min=0"`  // Цена за шаг в центах
}

// DummyPricing новый тариф парковки из JSON-запроса.
type DummyPricing struct {
	Tiers                    []DummyPricingTier `json:"tiers" validate:"omitempty,dive"`
	DefaultPricePerStepCents int                `json:"default_price_per_step_cents" validate:"min=0"`
	OverstayPenaltyCents     int                `json:"overstay_penalty_cents" validate:"min=0"`
	SubscriptionPrices       map[string]int     `json:"subscription_prices,omitempty"`
	Currency                 string             `json:"currency" validate:"required,len=3"`
}
