package navigation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
)

// ActionKind тип действия пользователя
type ActionKind int

const (
	ActMain ActionKind = iota
	ActBack
	ActConfirm
	ActFaculties
	ActFaculty
	ActGrade
	ActLetters
	ActLetter
	ActEntity
	ActSchedule
	ActSubscribe
	ActUnsubscribe
	ActNoop
)

// Source откуда открыта страница расписания
type Source string

const (
	SourceContext      Source = "c"
	SourceSubscription Source = "s"
)

// Action разобранные callback data.
// Используются поля, нужные конкретному Kind.
type Action struct {
	Kind           ActionKind
	ID             int64
	Grade          int
	Letter         string
	SubscriptionID string
	Source         Source
	Mode           schedule.Mode
	Shift          int
}

// Префиксы callback data
const (
	dataMain       = "main"
	dataBack       = "back"
	dataConfirm    = "confirm"
	dataFaculties  = "faculties"
	dataLetters    = "alphabet"
	dataNoop       = "noop"
	prefixFaculty  = "f:"
	prefixGrade    = "grade:"
	prefixLetter   = "a:"
	prefixEntity   = "e:"
	prefixSchedule = "les:"
	dataSubscribe  = "sub:subscribe"
	prefixUnsub    = "sub:unsubscribe:"
)

// ParseAction разбирает callback data кнопки
func ParseAction(data string) (Action, error) {
	switch data {
	case dataMain:
		return Action{Kind: ActMain}, nil
	case dataBack:
		return Action{Kind: ActBack}, nil
	case dataConfirm:
		return Action{Kind: ActConfirm}, nil
	case dataFaculties:
		return Action{Kind: ActFaculties}, nil
	case dataLetters:
		return Action{Kind: ActLetters}, nil
	case dataNoop:
		return Action{Kind: ActNoop}, nil
	case dataSubscribe:
		return Action{Kind: ActSubscribe}, nil
	}

	switch {
	case strings.HasPrefix(data, prefixFaculty):
		id, err := parseInt64(data, prefixFaculty)
		return Action{Kind: ActFaculty, ID: id}, err

	case strings.HasPrefix(data, prefixGrade):
		id, err := parseInt64(data, prefixGrade)
		return Action{Kind: ActGrade, Grade: int(id)}, err

	case strings.HasPrefix(data, prefixLetter):
		letter := strings.TrimPrefix(data, prefixLetter)
		if letter == "" {
			return Action{}, fmt.Errorf("%w: empty letter", ErrInvalidAction)
		}
		return Action{Kind: ActLetter, Letter: letter}, nil

	case strings.HasPrefix(data, prefixEntity):
		id, err := parseInt64(data, prefixEntity)
		return Action{Kind: ActEntity, ID: id}, err

	case strings.HasPrefix(data, prefixUnsub):
		id := strings.TrimPrefix(data, prefixUnsub)
		if id == "" {
			return Action{}, fmt.Errorf("%w: empty subscription id", ErrInvalidAction)
		}
		return Action{Kind: ActUnsubscribe, SubscriptionID: id}, nil

	case strings.HasPrefix(data, prefixSchedule):
		return parseSchedule(data)
	}

	return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, data)
}

// les:<c|s>:<mode>:<shift>
func parseSchedule(data string) (Action, error) {
	parts := strings.Split(strings.TrimPrefix(data, prefixSchedule), ":")
	if len(parts) != 3 {
		return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, data)
	}

	src := Source(parts[0])
	if src != SourceContext && src != SourceSubscription {
		return Action{}, fmt.Errorf("%w: source %q", ErrInvalidAction, parts[0])
	}
	if _, err := schedule.PolicyFor(schedule.Mode(parts[1])); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	shift, err := strconv.Atoi(parts[2])
	if err != nil {
		return Action{}, fmt.Errorf("%w: shift %q", ErrInvalidAction, parts[2])
	}

	return Action{Kind: ActSchedule, Source: src, Mode: schedule.Mode(parts[1]), Shift: shift}, nil
}

func parseInt64(data, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, data)
	}
	return id, nil
}

// Data кодирует действие обратно в callback data
func (a Action) Data() string {
	switch a.Kind {
	case ActMain:
		return dataMain
	case ActBack:
		return dataBack
	case ActConfirm:
		return dataConfirm
	case ActFaculties:
		return dataFaculties
	case ActLetters:
		return dataLetters
	case ActSubscribe:
		return dataSubscribe
	case ActFaculty:
		return prefixFaculty + strconv.FormatInt(a.ID, 10)
	case ActGrade:
		return prefixGrade + strconv.Itoa(a.Grade)
	case ActLetter:
		return prefixLetter + a.Letter
	case ActEntity:
		return prefixEntity + strconv.FormatInt(a.ID, 10)
	case ActUnsubscribe:
		return prefixUnsub + a.SubscriptionID
	case ActSchedule:
		return ScheduleData(a.Source, a.Mode, a.Shift)
	}
	return dataNoop
}

// ScheduleData callback страницы расписания
func ScheduleData(src Source, mode schedule.Mode, shift int) string {
	return fmt.Sprintf("%s%s:%s:%d", prefixSchedule, src, mode, shift)
}
