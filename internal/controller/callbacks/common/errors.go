package common

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage = errors.New("no message in callback")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMessage):
		return "⌛ Сообщение устарело, отправьте /start"
	default:
		return formatting.TextErrorDefault
	}
}

// IsMessageNotModifiedError Telegram отвечает так, если текст и клавиатура не изменились
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
