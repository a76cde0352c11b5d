package pricing

import (
	"errors"
	"fmt"
)

// StepMinutes фиксированный шаг тарификации: любая длительность округляется
// вверх до целого числа шагов перед расчетом цены.
const StepMinutes = 15

// ErrInvalidPlan возвращается при некорректной конфигурации тарифа:
// несовпадающий шаг, немонотонные ступени, отрицательные цены.
var ErrInvalidPlan = errors.New("invalid pricing plan")

// Tier одна ступень прогрессивного тарифа: минуты стоянки до границы
// UpToMinutes (накопительно от предыдущей ступени) оплачиваются по
// PricePerStepCents за шаг.
type Tier struct {
	UpToMinutes       int `json:"up_to_minutes"`
	PricePerStepCents int `json:"price_per_step_cents"`
}

// Plan тариф парковки: ступени накопительного тарифа, цена за шаг вне
// ступеней, фиксированная надбавка за превышение и прайс абонементов по
// типам. Неизменяемый объект-значение.
type Plan struct {
	StepMinutes              int            `json:"step_minutes"`
	Tiers                    []Tier         `json:"tiers"`
	DefaultPricePerStepCents int            `json:"default_price_per_step_cents"`
	OverstayPenaltyCents     int            `json:"overstay_penalty_cents"`
	SubscriptionPrices       map[string]int `json:"subscription_prices"`
	Currency                 string         `json:"currency"`
}

// NewPlan валидирует тариф при конструировании.
//
// Пустой список ступеней допустим: тогда вся длительность оплачивается по
// DefaultPricePerStepCents. Границы ступеней должны строго возрастать и
// быть кратны шагу.
func NewPlan(stepMinutes int, tiers []Tier, defaultPricePerStepCents, overstayPenaltyCents int,
	subscriptionPrices map[string]int, currency string) (Plan, error) {
	const op = "pricing.NewPlan"

	if stepMinutes != StepMinutes {
		return Plan{}, fmt.Errorf("%s: step must be %d minutes, got %d: %w",
			op, StepMinutes, stepMinutes, ErrInvalidPlan)
	}
	if defaultPricePerStepCents < 0 || overstayPenaltyCents < 0 {
		return Plan{}, fmt.Errorf("%s: negative price: %w", op, ErrInvalidPlan)
	}
	prevUpTo := 0
	for i, tier := range tiers {
		if tier.UpToMinutes <= prevUpTo {
			return Plan{}, fmt.Errorf("%s: tier %d bound %d must exceed previous bound %d: %w",
				op, i, tier.UpToMinutes, prevUpTo, ErrInvalidPlan)
		}
		if tier.UpToMinutes%stepMinutes != 0 {
			return Plan{}, fmt.Errorf("%s: tier %d bound %d is not a multiple of step %d: %w",
				op, i, tier.UpToMinutes, stepMinutes, ErrInvalidPlan)
		}
		if tier.PricePerStepCents < 0 {
			return Plan{}, fmt.Errorf("%s: tier %d has negative price: %w", op, i, ErrInvalidPlan)
		}
		prevUpTo = tier.UpToMinutes
	}
	for subType, price := range subscriptionPrices {
		if price < 0 {
			return Plan{}, fmt.Errorf("%s: subscription type %q has negative price: %w",
				op, subType, ErrInvalidPlan)
		}
	}

	return Plan{
		StepMinutes:              stepMinutes,
		Tiers:                    tiers,
		DefaultPricePerStepCents: defaultPricePerStepCents,
		OverstayPenaltyCents:     overstayPenaltyCents,
		SubscriptionPrices:       subscriptionPrices,
		Currency:                 currency,
	}, nil
}

// ComputePriceCents считает стоимость стоянки длительностью minutes.
//
// Длительность округляется вверх до целого числа шагов, после чего минуты
// поглощаются ступенями по возрастанию границ — как прогрессивная налоговая
// шкала; остаток после последней ступени оплачивается по базовой цене шага.
func (p Plan) ComputePriceCents(minutes int) int {
	if minutes <= 0 {
		return 0
	}

	steps := (minutes + p.StepMinutes - 1) / p.StepMinutes
	rounded := steps * p.StepMinutes

	totalCents := 0
	consumed := 0
	for _, tier := range p.Tiers {
		if consumed >= rounded {
			break
		}
		span := tier.UpToMinutes - consumed
		if span > rounded-consumed {
			span = rounded - consumed
		}
		totalCents += span / p.StepMinutes * tier.PricePerStepCents
		consumed += span
	}
	if consumed < rounded {
		totalCents += (rounded - consumed) / p.StepMinutes * p.DefaultPricePerStepCents
	}
	return totalCents
}

// ComputeOverstayPriceCents считает стоимость фактической стоянки с учетом
// превышения: базовая цена за actualMinutes плюс фиксированная надбавка,
// если фактическая длительность превысила зарезервированную.
func (p Plan) ComputeOverstayPriceCents(reservedMinutes, actualMinutes int) int {
	price := p.ComputePriceCents(actualMinutes)
	if actualMinutes > reservedMinutes {
		price += p.OverstayPenaltyCents
	}
	return price
}

// SubscriptionPriceCents возвращает цену абонемента заданного типа.
func (p Plan) SubscriptionPriceCents(subType string) (int, error) {
	const op = "pricing.SubscriptionPriceCents"
	price, ok := p.SubscriptionPrices[subType]
	if !ok {
		return 0, fmt.Errorf("%s: unknown subscription type %q: %w", op, subType, ErrInvalidPlan)
	}
	return price, nil
}
