package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

const (
	TextFacultyChoosing = "Выберите факультет:"
	TextLetterChoosing  = "Выберите букву:"
	TextTeacherChoosing = "Выберите преподавателя:"

	TextSubscriptionWarning = "❗ Вы уже подписаны на другое расписание.\nПредыдущая подписка будет отменена."
	TextSubscribed          = "✅ Успешно!"
	TextUnsubscribed        = "✖️ Подписка отменена"
	TextRefreshed           = "💫 Обновлено"

	TextStateExpired = "😅 Упс, кажется, данные устарели. Давайте начнём сначала!"
	TextErrorDefault = "⚠ Что-то пошло не так, попробуйте снова."

	TextHelp = "Я показываю расписание групп и преподавателей.\n\n" +
		"/start - главное меню\n" +
		"/menu - открыть меню заново\n" +
		"/help - эта справка"
)

// Статусы nonce при входе через сайт
const (
	NonceAuthenticated = "authenticated"
	NonceFailed        = "failed"
)

var authMessages = map[string]string{
	NonceAuthenticated: "✅ Вы успешно авторизовались, теперь можно вернуться обратно ↩",
	NonceFailed:        "⚠ Произошла ошибка авторизации, повторите попытку позже.",
}

// GradeChoosing заголовок выбора курса
func GradeChoosing(f *model.Faculty) string {
	return fmt.Sprintf("%s\n\nВыберите курс:", esc(f.Title))
}

// GroupChoosing заголовок выбора группы
func GroupChoosing(f *model.Faculty, grade int) string {
	return fmt.Sprintf("%s\n%d курс\n\nВыберите группу:", esc(f.Title), grade)
}

// SelectedEntity карточка выбранной группы или преподавателя
func SelectedEntity(target model.Subscribable, subscribed bool) string {
	kind := "Группа"
	if target.Branch() == model.BranchTeachers {
		kind = "Преподаватель"
	}
	text := fmt.Sprintf("%s:\n<b>%s</b>", kind, esc(target.DisplayName()))
	if subscribed {
		text += "\n\n✅ Вы подписаны"
	}
	return text
}

// MainMenu профиль пользователя и текущая подписка
func MainMenu(user *model.User, sub *model.Subscription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s</b>\n", esc(user.FullName()))
	if user.Username != "" {
		fmt.Fprintf(&b, "🔹 <i>%s</i>\n", esc(user.Username))
	}
	b.WriteString("\n")
	if sub != nil && sub.Target != nil {
		fmt.Fprintf(&b, "⭐️ <b>%s</b>", esc(sub.Target.ButtonName()))
	} else {
		b.WriteString("<b>☆ не выбрано</b>")
	}
	return b.String()
}

// StartMessage приветствие после /start.
// Повторный вход через сайт показывает только результат авторизации.
func StartMessage(name string, created bool, nonceStatus string) string {
	auth := authMessages[nonceStatus]
	if !created && auth != "" {
		return auth
	}

	var welcome string
	if created {
		welcome = fmt.Sprintf("Добро пожаловать, %s!👋\nРегистрация выполнена успешно.", esc(name))
	} else {
		welcome = fmt.Sprintf("С возвращением, %s! 👋", esc(name))
	}
	if auth != "" {
		welcome += "\n\n" + auth
	}
	return welcome
}
