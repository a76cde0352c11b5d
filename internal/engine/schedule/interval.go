// Package schedule содержит чистые типы повторяющихся расписаний парковки:
// интервалы времени суток, часы работы по дням недели и недельные слоты
// абонементов с переходом через границу суток и недели.
package schedule

import (
	"errors"
	"fmt"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/weekclock"
)

// ErrInvalidConfiguration возвращается при некорректных входных данных
// конструкторов расписаний: пересекающиеся интервалы, день вне диапазона,
// нулевая длительность и т.п.
var ErrInvalidConfiguration = errors.New("invalid schedule configuration")

// Interval полуоткрытый интервал времени суток в минутах: [StartMinute, EndMinute).
//
// EndMinute == 1440 означает «до конца суток включительно». Равенство границ
// (нулевая длительность) недопустимо. На уровне часов работы StartMinute
// всегда меньше EndMinute; ночные часы работы моделируются двумя интервалами
// на соседних днях (до 24:00 и с 00:00).
type Interval struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// NewInterval создает интервал из строк "HH:MM", проверяя границы.
func NewInterval(start, end string) (Interval, error) {
	const op = "schedule.NewInterval"
	startMinute, err := weekclock.ParseClock(start)
	if err != nil {
		return Interval{}, fmt.Errorf("%s: %w", op, err)
	}
	endMinute, err := weekclock.ParseClock(end)
	if err != nil {
		return Interval{}, fmt.Errorf("%s: %w", op, err)
	}
	iv := Interval{StartMinute: startMinute, EndMinute: endMinute}
	if err := iv.validate(); err != nil {
		return Interval{}, fmt.Errorf("%s: %w", op, err)
	}
	return iv, nil
}

func (iv Interval) validate() error {
	if iv.StartMinute < 0 || iv.StartMinute > weekclock.MinutesPerDay ||
		iv.EndMinute < 0 || iv.EndMinute > weekclock.MinutesPerDay {
		return fmt.Errorf("bounds [%d, %d) out of day range: %w",
			iv.StartMinute, iv.EndMinute, ErrInvalidConfiguration)
	}
	if iv.StartMinute == iv.EndMinute {
		return fmt.Errorf("zero-length interval at minute %d: %w",
			iv.StartMinute, ErrInvalidConfiguration)
	}
	if iv.StartMinute > iv.EndMinute {
		return fmt.Errorf("interval [%d, %d) wraps past midnight, split it across days: %w",
			iv.StartMinute, iv.EndMinute, ErrInvalidConfiguration)
	}
	return nil
}

// Contains сообщает, попадает ли минута дня в интервал.
// Граница начала входит, граница конца — нет.
func (iv Interval) Contains(minuteOfDay int) bool {
	return minuteOfDay >= iv.StartMinute && minuteOfDay < iv.EndMinute
}

// Overlaps проверяет пересечение двух интервалов одного дня.
func (iv Interval) Overlaps(other Interval) bool {
	return !(iv.EndMinute <= other.StartMinute || iv.StartMinute >= other.EndMinute)
}
