package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
)

const TextNoLessons = "📅 Занятий нет"

// Schedule страница расписания сущности за окно.
// Заголовок содержит период, поэтому соседние пустые страницы различаются.
func Schedule(target model.Subscribable, lessons []*model.Lesson, w schedule.Window) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓️ <b>%s</b>\n", esc(target.DisplayName()))
	fmt.Fprintf(&b, "<i>%s</i>\n", FormatPeriod(w.Start, w.End))

	if len(lessons) == 0 {
		b.WriteString("\n" + TextNoLessons)
		return b.String()
	}

	byDate := make(map[string][]*model.Lesson)
	for _, l := range lessons {
		byDate[l.Date] = append(byDate[l.Date], l)
	}

	for _, day := range w.Days() {
		dayLessons := byDate[day.Format(time.DateOnly)]
		if len(dayLessons) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n<b>%s</b> %s\n", WeekdayCaps(day.Weekday()), FormatDate(day))

		parts := make([]string, 0, len(dayLessons))
		for _, l := range dayLessons {
			parts = append(parts, formatLesson(l, target.Branch()))
		}
		fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", strings.Join(parts, "\n\n"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatLesson(l *model.Lesson, branch model.Branch) string {
	classroom := l.Classroom
	if classroom == "" {
		classroom = "-"
	}

	lines := []string{
		fmt.Sprintf("%s  <b>%s</b>   📍%s", DigitsToEmoji(l.Number), FormatClock(l.StartTime), esc(classroom)),
		fmt.Sprintf("<b>%s</b>", esc(l.Subject)),
	}
	if l.HasSubgroup() {
		lines = append(lines, fmt.Sprintf("%s подгруппа", esc(l.Subgroup)))
	}

	// Для группы показываем преподавателя, для преподавателя группу
	switch branch {
	case model.BranchGroups:
		if l.Teacher != nil {
			lines = append(lines, fmt.Sprintf("<i>%s</i>", esc(l.Teacher.ButtonName())))
		}
	case model.BranchTeachers:
		if l.Group != nil {
			lines = append(lines, fmt.Sprintf("<i>%s</i>", esc(l.Group.DisplayName())))
		}
	}
	return strings.Join(lines, "\n")
}
