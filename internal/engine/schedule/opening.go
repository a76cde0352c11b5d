package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/weekclock"
)

// OpeningSchedule часы работы парковки: для каждого дня недели —
// упорядоченный список непересекающихся интервалов.
//
// Объект неизменяемый после конструирования; обновление часов работы —
// это замена расписания целиком, без частичных мутаций.
type OpeningSchedule struct {
	// Days индексируется днем недели 0=воскресенье..6=суббота.
	Days [7][]Interval `json:"days"`
}

// NewOpeningSchedule валидирует и нормализует часы работы.
//
// Интервалы каждого дня сортируются по началу; пересечение интервалов
// одного дня — ошибка конфигурации.
func NewOpeningSchedule(days map[int][]Interval) (OpeningSchedule, error) {
	const op = "schedule.NewOpeningSchedule"
	var os OpeningSchedule
	for day, intervals := range days {
		if day < 0 || day > 6 {
			return OpeningSchedule{}, fmt.Errorf("%s: day %d out of range [0,6]: %w",
				op, day, ErrInvalidConfiguration)
		}
		sorted := make([]Interval, len(intervals))
		copy(sorted, intervals)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].StartMinute < sorted[j].StartMinute
		})
		for i, iv := range sorted {
			if err := iv.validate(); err != nil {
				return OpeningSchedule{}, fmt.Errorf("%s: day %d: %w", op, day, err)
			}
			if i > 0 && sorted[i-1].Overlaps(iv) {
				return OpeningSchedule{}, fmt.Errorf("%s: day %d: intervals [%d,%d) and [%d,%d) overlap: %w",
					op, day, sorted[i-1].StartMinute, sorted[i-1].EndMinute,
					iv.StartMinute, iv.EndMinute, ErrInvalidConfiguration)
			}
		}
		os.Days[day] = sorted
	}
	return os, nil
}

// AlwaysOpen возвращает расписание 24/7: один интервал [00:00, 24:00)
// на каждый день недели.
func AlwaysOpen() OpeningSchedule {
	var os OpeningSchedule
	for day := 0; day < 7; day++ {
		os.Days[day] = []Interval{{StartMinute: 0, EndMinute: weekclock.MinutesPerDay}}
	}
	return os
}

// IsOpenAt сообщает, открыта ли парковка в момент t в зоне loc.
//
// Интервалы полуоткрытые: момент ровно на границе конца считается закрытым,
// ровно на границе начала — открытым.
func (os OpeningSchedule) IsOpenAt(t time.Time, loc *time.Location) bool {
	day, minuteOfDay := weekclock.At(t, loc)
	for _, iv := range os.Days[day] {
		if iv.Contains(minuteOfDay) {
			return true
		}
	}
	return false
}
