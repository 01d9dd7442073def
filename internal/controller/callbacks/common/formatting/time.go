package formatting

import (
	"strings"
	"time"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatPeriod форматирует период окна расписания
func FormatPeriod(from, to time.Time) string {
	if from.Equal(to) {
		return FormatDate(from)
	}
	return FormatDate(from) + " - " + FormatDate(to)
}

// FormatClock обрезает секунды у времени из API ("10:10:00" -> "10:10")
func FormatClock(hms string) string {
	if len(hms) >= 5 && hms[2] == ':' {
		return hms[:5]
	}
	return hms
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	names := []string{
		"Воскресенье",
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
	}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "Неизвестно"
}

// WeekdayCaps день недели прописными для заголовка дня
func WeekdayCaps(weekday time.Weekday) string {
	return strings.ToUpper(GetWeekdayName(weekday))
}
