package handlers

import (
	"context"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/navigation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start.
// Аргумент deep-link (nonce) подтверждает вход на сайте через Telegram.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	nonce := commandArgs(msg.Text)

	h.logger.Info("Start command",
		zap.Int64("user_id", msg.From.ID),
		zap.Bool("with_nonce", nonce != ""))

	resp := h.engine.Handle(ctx, navigation.Event{
		Kind:   navigation.EventStart,
		ChatID: msg.Chat.ID,
		UserID: msg.From.ID,
		Nonce:  nonce,
		From:   telegramUser(msg.From),
	})
	h.sendResponse(ctx, b, msg.Chat.ID, resp)
}

// HandleMenu присылает главное меню новым сообщением
func (h *Handlers) HandleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	resp := h.engine.Handle(ctx, navigation.Event{
		Kind:   navigation.EventMenu,
		ChatID: msg.Chat.ID,
		UserID: msg.From.ID,
		From:   telegramUser(msg.From),
	})
	h.sendResponse(ctx, b, msg.Chat.ID, resp)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.TextHelp)
}
