package keyboard

const (
	TextHome    = "🏠 На главную"
	TextBack    = "◀️ Назад"
	TextConfirm = "Продолжить 🆗"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) Button {
	return Btn(TextBack, callbackData)
}

// HomeButton создаёт кнопку "На главную"
func HomeButton(callbackData string) Button {
	return Btn(TextHome, callbackData)
}

// ConfirmButton создаёт кнопку подтверждения
func ConfirmButton(callbackData string) Button {
	return Btn(TextConfirm, callbackData)
}
