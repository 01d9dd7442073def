package handlers

import (
	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/callbacktypes"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	engine callbacktypes.Engine
	logger *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(engine callbacktypes.Engine, logger *zap.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		logger: logger,
	}
}
