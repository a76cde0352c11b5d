package schedule

import (
	"fmt"
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/weekclock"
)

// RecurringSlot одно повторяющееся недельное окно доступа абонемента.
//
// В отличие от интервалов часов работы, начало и конец слота живут на разных
// днях: слот может начинаться в пятницу вечером и заканчиваться в субботу
// утром, а также переходить через границу недели (суббота → воскресенье).
type RecurringSlot struct {
	StartDay  int    `json:"start_day"` // 0=воскресенье..6=суббота
	EndDay    int    `json:"end_day"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`
}

// weekSpan границы слота в недельных минутах.
type weekSpan struct {
	start int
	end   int
}

func (s RecurringSlot) span() (weekSpan, error) {
	start, err := weekclock.ToWeekMinutes(s.StartDay, s.StartTime)
	if err != nil {
		return weekSpan{}, err
	}
	end, err := weekclock.ToWeekMinutes(s.EndDay, s.EndTime)
	if err != nil {
		return weekSpan{}, err
	}
	return weekSpan{start: start, end: end}, nil
}

// covers проверяет попадание недельной минуты в слот, обе границы включительно.
// Слот с start > end переходит через границу недели.
func (ws weekSpan) covers(t int) bool {
	if ws.start <= ws.end {
		return t >= ws.start && t <= ws.end
	}
	return t >= ws.start || t <= ws.end
}

// RecurringSlotSet список недельных слотов абонемента или тарифного
// предложения. Слоты проверяются в порядке списка, побеждает первый
// покрывающий; пересекающиеся слоты не объединяются.
type RecurringSlotSet struct {
	Slots []RecurringSlot `json:"slots"`
}

// NewRecurringSlotSet валидирует слоты на этапе конструирования:
// дни в [0,6], время в формате HH:MM.
func NewRecurringSlotSet(slots []RecurringSlot) (RecurringSlotSet, error) {
	const op = "schedule.NewRecurringSlotSet"
	for i, s := range slots {
		if _, err := s.span(); err != nil {
			return RecurringSlotSet{}, fmt.Errorf("%s: slot %d: %w: %v",
				op, i, ErrInvalidConfiguration, err)
		}
	}
	return RecurringSlotSet{Slots: slots}, nil
}

// Covers сообщает, покрывает ли какой-либо слот момент t в зоне loc.
//
// Границы слота включительные с обеих сторон — политика отличается от
// полуоткрытых часов работы и сохраняется намеренно.
func (set RecurringSlotSet) Covers(t time.Time, loc *time.Location) bool {
	wm := weekclock.WeekMinuteAt(t, loc)
	for _, s := range set.Slots {
		ws, err := s.span()
		if err != nil {
			continue
		}
		if ws.covers(wm) {
			return true
		}
	}
	return false
}

// RemainingMinutesFrom возвращает число минут от момента t до конца
// покрывающего его слота. Если конец слота лежит в следующем недельном
// цикле относительно t, к нему прибавляется полная неделя. Когда ни один
// слот не покрывает момент, возвращается 0.
func (set RecurringSlotSet) RemainingMinutesFrom(t time.Time, loc *time.Location) int {
	wm := weekclock.WeekMinuteAt(t, loc)
	for _, s := range set.Slots {
		ws, err := s.span()
		if err != nil {
			continue
		}
		if !ws.covers(wm) {
			continue
		}
		end := ws.end
		if end < wm {
			end += weekclock.MinutesPerWeek
		}
		return end - wm
	}
	return 0
}
