// Package weekclock реализует арифметику недельных минут — общую систему
// координат для всей логики повторяющихся расписаний.
//
// Любой момент времени приводится к позиции внутри повторяющейся недели:
// день недели (0=воскресенье..6=суббота, как в time.Weekday) и минута дня.
// Недельная минута — целое в [0, 10080): день*1440 + минута дня.
package weekclock

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// MinutesPerDay количество минут в сутках.
const MinutesPerDay = 1440

// MinutesPerWeek количество минут в неделе (7 * 1440).
const MinutesPerWeek = 7 * MinutesPerDay

// ErrInvalidTimeFormat возвращается, когда строка времени не соответствует
// грамматике HH:MM или нарушает правило «24:00 только как ровная полночь».
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

var clockRe = regexp.MustCompile(`^(2[0-4]|[01]?\d):([0-5]\d)$`)

// ParseClock разбирает строку вида "HH:MM" и возвращает минуту дня в [0, 1440].
//
// Значение "24:00" допустимо и означает ровно полночь (1440) — граница
// «до конца суток». Любое другое значение с часом 24 отклоняется.
func ParseClock(s string) (int, error) {
	const op = "weekclock.ParseClock"
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%s: %q: %w", op, s, ErrInvalidTimeFormat)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("%s: %q: %w", op, s, ErrInvalidTimeFormat)
	}
	if hour == 24 && minute != 0 {
		return 0, fmt.Errorf("%s: %q: %w", op, s, ErrInvalidTimeFormat)
	}
	return hour*60 + minute, nil
}

// ToWeekMinutes переводит день недели и строку времени в недельную минуту.
//
// День должен быть в [0, 6] (0=воскресенье). Часы "24:00" дают минуту
// следующего дня по модулю недели.
func ToWeekMinutes(day int, clock string) (int, error) {
	const op = "weekclock.ToWeekMinutes"
	if day < 0 || day > 6 {
		return 0, fmt.Errorf("%s: day %d out of range [0,6]: %w", op, day, ErrInvalidTimeFormat)
	}
	minuteOfDay, err := ParseClock(clock)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return (day*MinutesPerDay + minuteOfDay) % MinutesPerWeek, nil
}

// FromISODay нормализует легаси-формат дня недели 1=понедельник..7=воскресенье
// к внутреннему соглашению 0=воскресенье..6=суббота.
func FromISODay(isoDay int) (int, error) {
	const op = "weekclock.FromISODay"
	if isoDay < 1 || isoDay > 7 {
		return 0, fmt.Errorf("%s: iso day %d out of range [1,7]: %w", op, isoDay, ErrInvalidTimeFormat)
	}
	return isoDay % 7, nil
}

// At возвращает позицию момента t внутри недели в зоне loc:
// день недели и минуту дня.
func At(t time.Time, loc *time.Location) (day, minuteOfDay int) {
	local := t.In(loc)
	return int(local.Weekday()), local.Hour()*60 + local.Minute()
}

// WeekMinuteAt возвращает недельную минуту момента t в зоне loc.
func WeekMinuteAt(t time.Time, loc *time.Location) int {
	day, minuteOfDay := At(t, loc)
	return day*MinutesPerDay + minuteOfDay
}
