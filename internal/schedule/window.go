package schedule

import (
	"fmt"
	"time"
)

// Mode режим просмотра расписания (значение попадает в callback data)
type Mode string

const (
	ModeOneDay    Mode = "1day"
	ModeThreeDays Mode = "3days"
	ModeWeek      Mode = "week"
)

const isoDate = "2006-01-02"

// Window диапазон дат [Start, End] включительно
type Window struct {
	Start           time.Time
	End             time.Time
	WindowDays      int
	Shift           int
	MaxBackShift    int
	MaxForwardShift int
}

// DateFrom возвращает начало окна в формате ISO-8601
func (w Window) DateFrom() string {
	return w.Start.Format(isoDate)
}

// DateTo возвращает конец окна в формате ISO-8601
func (w Window) DateTo() string {
	return w.End.Format(isoDate)
}

// Contains проверяет, попадает ли день в окно
func (w Window) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days возвращает все дни окна по порядку
func (w Window) Days() []time.Time {
	days := make([]time.Time, 0, w.WindowDays)
	for i := 0; i < w.WindowDays; i++ {
		days = append(days, w.Start.AddDate(0, 0, i))
	}
	return days
}

// PageBounds соседние сдвиги для пагинации. HasPrev/HasNext = false на границах.
type PageBounds struct {
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

// Policy именованное правило построения окна
type Policy struct {
	Mode            Mode
	Days            int
	MaxBackShift    int
	MaxForwardShift int
	anchor          func(today time.Time) time.Time
}

var (
	OneDay = Policy{
		Mode:            ModeOneDay,
		Days:            1,
		MaxBackShift:    180,
		MaxForwardShift: 6,
		anchor:          truncateDay,
	}
	ThreeDays = Policy{
		Mode:            ModeThreeDays,
		Days:            3,
		MaxBackShift:    60,
		MaxForwardShift: 1,
		anchor:          truncateDay,
	}
	Week = Policy{
		Mode:            ModeWeek,
		Days:            7,
		MaxBackShift:    26,
		MaxForwardShift: 1,
		anchor:          mondayOf,
	}
)

var policies = map[Mode]Policy{
	ModeOneDay:    OneDay,
	ModeThreeDays: ThreeDays,
	ModeWeek:      Week,
}

// PolicyFor возвращает политику по имени режима
func PolicyFor(mode Mode) (Policy, error) {
	p, ok := policies[mode]
	if !ok {
		return Policy{}, fmt.Errorf("unknown schedule mode %q", mode)
	}
	return p, nil
}

// WindowFor строит окно для сдвига shift (в единицах Days) относительно today.
// Арифметика ведётся в календарных днях, поэтому переход на летнее время не даёт дрейфа.
func (p Policy) WindowFor(today time.Time, shift int) Window {
	start := p.anchor(today).AddDate(0, 0, shift*p.Days)
	return Window{
		Start:           start,
		End:             start.AddDate(0, 0, p.Days-1),
		WindowDays:      p.Days,
		Shift:           shift,
		MaxBackShift:    p.MaxBackShift,
		MaxForwardShift: p.MaxForwardShift,
	}
}

// PageBounds считает соседние страницы с учётом лимитов
func (p Policy) PageBounds(shift int) PageBounds {
	var pb PageBounds
	if shift > -p.MaxBackShift {
		pb.Prev, pb.HasPrev = shift-1, true
	}
	if shift < p.MaxForwardShift {
		pb.Next, pb.HasNext = shift+1, true
	}
	return pb
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func mondayOf(t time.Time) time.Time {
	day := truncateDay(t)
	// time.Weekday: воскресенье = 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
