package navigation

import (
	"context"
	"errors"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
	kb "github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventKind вид входящего события
type EventKind int

const (
	EventCallback EventKind = iota
	EventStart
	EventMenu
)

// Event входящее событие, уже отвязанное от Telegram
type Event struct {
	Kind   EventKind
	ChatID int64
	UserID int64

	// Data callback data нажатой кнопки
	Data string
	// DisplayedText текст сообщения с кнопкой, без разметки
	DisplayedText string
	// Nonce параметр deep-link /start
	Nonce string
	From  service.TelegramUser
}

// Response что транспорт должен сделать с сообщением и callback
type Response struct {
	Text     string
	Keyboard kb.Markup
	Answer   string
	Alert    bool
	NoOp     bool
}

// Engine машина состояний навигации по меню.
// События одного пользователя обрабатываются строго по очереди.
type Engine struct {
	store      state.Store
	dispatcher *Dispatcher
	logger     *zap.Logger
	locks      *keyedMutex
}

func NewEngine(store state.Store, dispatcher *Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// Handle обрабатывает событие и сохраняет новое состояние сессии.
// Ошибки не выходят наружу: они превращаются в ответ пользователю.
func (e *Engine) Handle(ctx context.Context, ev Event) Response {
	key := state.Key{ChatID: ev.ChatID, UserID: ev.UserID}
	unlock := e.locks.Lock(key)
	defer unlock()

	ctx = apiclient.WithUser(ctx, ev.UserID)
	logger := e.logger.With(
		zap.String("rid", uuid.NewString()),
		zap.Int64("user_id", ev.UserID),
		zap.Int64("chat_id", ev.ChatID),
	)

	screen, err := e.handle(ctx, key, ev)
	if err != nil {
		return e.fail(ctx, key, logger, err)
	}

	if !screen.Keep {
		if err := e.persist(ctx, key, screen); err != nil {
			logger.Warn("Failed to save session", zap.Error(err))
		}
	}

	logger.Debug("Event handled",
		zap.String("data", ev.Data),
		zap.String("state", string(screen.State)),
		zap.Bool("noop", screen.NoOp))

	return Response{
		Text:     screen.Text,
		Keyboard: screen.Keyboard,
		Answer:   screen.Answer,
		NoOp:     screen.NoOp,
	}
}

func (e *Engine) handle(ctx context.Context, key state.Key, ev Event) (*Screen, error) {
	switch ev.Kind {
	case EventStart:
		return e.dispatcher.Start(ctx, ev.From, ev.Nonce)
	case EventMenu:
		return e.dispatcher.Main(ctx)
	}

	sess, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &state.Session{State: state.StateIdle, Data: state.Data{}}
	}

	act, err := ParseAction(ev.Data)
	if err != nil {
		return nil, err
	}
	return e.dispatcher.Dispatch(ctx, sess, act, ev.DisplayedText)
}

func (e *Engine) persist(ctx context.Context, key state.Key, screen *Screen) error {
	if screen.State == state.StateIdle {
		return e.store.Clear(ctx, key)
	}
	return e.store.Set(ctx, key, &state.Session{State: screen.State, Data: screen.Data})
}

// fail переводит ошибку в ответ: устаревшие данные ведут в корень с предупреждением,
// остальное показывает общее сообщение об ошибке
func (e *Engine) fail(ctx context.Context, key state.Key, logger *zap.Logger, err error) Response {
	if errors.Is(err, ErrStateExpired) {
		logger.Info("Navigation state expired", zap.Error(err))

		screen, mainErr := e.dispatcher.Main(ctx)
		if mainErr == nil {
			e.clear(ctx, key, logger)
			return Response{
				Text:     screen.Text,
				Keyboard: screen.Keyboard,
				Answer:   formatting.TextStateExpired,
				Alert:    true,
			}
		}
		err = mainErr
	}

	logger.Error("Failed to handle event", zap.Error(err))
	e.clear(ctx, key, logger)
	return Response{
		Text:     formatting.TextErrorDefault,
		Keyboard: HomeKeyboard(),
	}
}

func (e *Engine) clear(ctx context.Context, key state.Key, logger *zap.Logger) {
	if err := e.store.Clear(ctx, key); err != nil {
		logger.Warn("Failed to clear session", zap.Error(err))
	}
}
