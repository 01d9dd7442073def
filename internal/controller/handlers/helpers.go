package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/navigation"
	"github.com/Freeeeeet/unischedule_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// commandArgs аргумент команды: "/start abc" -> "abc"
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}

func telegramUser(u *models.User) service.TelegramUser {
	return service.TelegramUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
	}
}

// sendResponse отправляет ответ машины навигации новым сообщением
func (h *Handlers) sendResponse(ctx context.Context, b *bot.Bot, chatID int64, resp navigation.Response) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      resp.Text,
		ParseMode: models.ParseModeHTML,
	}
	if len(resp.Keyboard) > 0 {
		params.ReplyMarkup = resp.Keyboard.ToTelegram()
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
