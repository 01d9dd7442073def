package navigation

import "errors"

var (
	// ErrStateExpired данных сессии не хватает для запрошенного перехода
	ErrStateExpired = errors.New("navigation state expired")
	// ErrInvalidAction callback data не разбирается или вне допустимых границ
	ErrInvalidAction = errors.New("invalid action")
	// ErrUnknownEntity сущности нет в справочниках
	ErrUnknownEntity = errors.New("unknown entity")
)
