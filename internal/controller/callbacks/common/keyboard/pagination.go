package keyboard

import "github.com/Freeeeeet/unischedule_bot/internal/schedule"

const (
	TextPrev    = "◀️"
	TextNext    = "▶️"
	TextRefresh = "🔄 Обновить"
	TextToday   = "🔄 Сегодня"
)

// ShiftPagination ряд листания окна расписания: ◀️ / обновить или сегодня / ▶️.
// Кнопки ◀️ и ▶️ пропадают на границах pb. data строит callback по сдвигу.
func ShiftPagination(pb schedule.PageBounds, showsToday bool, data func(shift int) string) []Button {
	row := make([]Button, 0, 3)
	if pb.HasPrev {
		row = append(row, Btn(TextPrev, data(pb.Prev)))
	}
	if showsToday {
		row = append(row, Btn(TextRefresh, data(0)))
	} else {
		row = append(row, Btn(TextToday, data(0)))
	}
	if pb.HasNext {
		row = append(row, Btn(TextNext, data(pb.Next)))
	}
	return row
}
