package callbacks

import (
	"context"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/navigation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route передаёт нажатие кнопки в машину навигации и применяет ответ к сообщению
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		resp := h.Engine.Handle(hc.Ctx, navigation.Event{
			Kind:          navigation.EventCallback,
			ChatID:        hc.ChatID,
			UserID:        hc.TelegramID,
			Data:          callback.Data,
			DisplayedText: hc.Message.Text,
		})
		apply(hc, resp)
	})
}

// apply редактирует сообщение с кнопкой и отвечает на callback
func apply(hc *common.HandlerContext, resp navigation.Response) {
	if resp.NoOp {
		hc.Answer(resp.Answer)
		return
	}

	if err := hc.EditMessage(resp.Text, resp.Keyboard.ToTelegram()); err != nil {
		hc.Handler.Logger.Error("Failed to edit message",
			zap.Int64("chat_id", hc.ChatID),
			zap.Int("message_id", hc.Message.ID),
			zap.Error(err))
	}

	if resp.Alert {
		hc.AnswerAlert(resp.Answer)
		return
	}
	hc.Answer(resp.Answer)
}
