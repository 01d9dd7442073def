package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
)

func TestScheduleGroupPage(t *testing.T) {
	group := &model.Group{ID: 10, Title: "ИВТ-21", FacultyID: 1}
	w := schedule.ThreeDays.WindowFor(time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC), 0)
	lessons := []*model.Lesson{
		{ID: 1, Number: 1, Date: "2024-06-12", StartTime: "08:30:00", Subject: "Физика", Classroom: "101", Subgroup: "0",
			Teacher: &model.Teacher{ID: 5, FullName: "Иванов Иван Иванович", ShortName: "Иванов И.И."}},
		{ID: 2, Number: 2, Date: "2024-06-12", StartTime: "10:10:00", Subject: "Химия & биология", Subgroup: "2"},
		{ID: 3, Number: 3, Date: "2024-06-14", StartTime: "12:00:00", Subject: "История", Classroom: "2-14"},
	}

	want := "🗓️ <b>ИВТ-21</b>\n" +
		"<i>12.06.2024 - 14.06.2024</i>\n" +
		"\n<b>СРЕДА</b> 12.06.2024\n" +
		"<blockquote>1️⃣  <b>08:30</b>   📍101\n<b>Физика</b>\n<i>Иванов И.И.</i>\n\n" +
		"2️⃣  <b>10:10</b>   📍-\n<b>Химия &amp; биология</b>\n2 подгруппа</blockquote>\n" +
		"\n<b>ПЯТНИЦА</b> 14.06.2024\n" +
		"<blockquote>3️⃣  <b>12:00</b>   📍2-14\n<b>История</b></blockquote>"

	assert.Equal(t, want, Schedule(group, lessons, w))
}

func TestScheduleTeacherShowsGroup(t *testing.T) {
	teacher := &model.Teacher{ID: 5, FullName: "Иванов Иван Иванович"}
	w := schedule.OneDay.WindowFor(time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), 0)
	lessons := []*model.Lesson{
		{ID: 1, Number: 4, Date: "2024-06-12", StartTime: "14:00:00", Subject: "Физика",
			Group: &model.Group{ID: 10, Title: "ИВТ-21"}},
	}

	text := Schedule(teacher, lessons, w)
	assert.Contains(t, text, "<i>12.06.2024</i>")
	assert.Contains(t, text, "<i>ИВТ-21</i>")
}

func TestScheduleEmptyDiffersByPeriod(t *testing.T) {
	group := &model.Group{ID: 10, Title: "ИВТ-21"}
	today := time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)

	first := Schedule(group, nil, schedule.OneDay.WindowFor(today, 0))
	second := Schedule(group, nil, schedule.OneDay.WindowFor(today, 1))

	assert.Contains(t, first, TextNoLessons)
	assert.NotEqual(t, first, second)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Группа:\nA & B", PlainText("Группа:\n<b>A &amp; B</b>\n"))
	assert.Equal(t, "x", PlainText("<blockquote>x</blockquote>"))
}

func TestStartMessage(t *testing.T) {
	tests := []struct {
		name    string
		created bool
		nonce   string
		want    string
	}{
		{"new user", true, "", "Добро пожаловать, Анна!👋\nРегистрация выполнена успешно."},
		{"returning", false, "", "С возвращением, Анна! 👋"},
		{"returning with auth", false, NonceAuthenticated, authMessages[NonceAuthenticated]},
		{"new with auth", true, NonceFailed,
			"Добро пожаловать, Анна!👋\nРегистрация выполнена успешно.\n\n" + authMessages[NonceFailed]},
		{"unknown status", false, "pending", "С возвращением, Анна! 👋"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartMessage("Анна", tt.created, tt.nonce))
		})
	}
}

func TestMainMenu(t *testing.T) {
	user := &model.User{ID: "u1", FirstName: "Анна", LastName: "Петрова", Username: "anna"}

	assert.Equal(t, "👤 <b>Анна Петрова</b>\n🔹 <i>anna</i>\n\n<b>☆ не выбрано</b>", MainMenu(user, nil))

	sub := &model.Subscription{ID: "s1", Target: &model.Teacher{ID: 1, FullName: "Иванов Иван", ShortName: "Иванов И."}}
	assert.Contains(t, MainMenu(user, sub), "⭐️ <b>Иванов И.</b>")
}

func TestDigitsToEmoji(t *testing.T) {
	assert.Equal(t, "3️⃣", DigitsToEmoji(3))
	assert.Equal(t, "1️⃣2️⃣", DigitsToEmoji(12))
}
