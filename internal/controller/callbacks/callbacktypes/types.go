package callbacktypes

import (
	"context"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/navigation"
	"go.uber.org/zap"
)

// Engine обрабатывает события навигации
type Engine interface {
	Handle(ctx context.Context, ev navigation.Event) navigation.Response
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Engine Engine
	Logger *zap.Logger
}
