// Package pricing реализует тарифную модель парковки: деньги в минорных
// единицах валюты, ступени прогрессивного тарифа и расчет стоимости
// стоянки с надбавкой за превышение.
package pricing

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch возвращается при арифметике над суммами в разных валютах.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money неизменяемая денежная сумма в минорных единицах (центах)
// с кодом валюты в духе ISO-4217.
type Money struct {
	AmountCents int    `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// NewMoney создает сумму в указанной валюте.
func NewMoney(amountCents int, currency string) Money {
	return Money{AmountCents: amountCents, Currency: currency}
}

// Add складывает две суммы; валюты должны совпадать.
func (m Money) Add(other Money) (Money, error) {
	const op = "pricing.Money.Add"
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%s: %s + %s: %w", op, m.Currency, other.Currency, ErrCurrencyMismatch)
	}
	return Money{AmountCents: m.AmountCents + other.AmountCents, Currency: m.Currency}, nil
}

// IsZero сообщает, что сумма нулевая.
func (m Money) IsZero() bool {
	return m.AmountCents == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.AmountCents/100, m.AmountCents%100, m.Currency)
}
