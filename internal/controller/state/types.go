package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserState шаг навигации пользователя по меню
type UserState string

const (
	StateIdle UserState = "" // Корневое меню, данных нет

	// Ветка групп
	StateChoosingFaculty UserState = "choosing_faculty"
	StateChoosingGrade   UserState = "choosing_grade"
	StateChoosingGroup   UserState = "choosing_group"

	// Ветка преподавателей
	StateChoosingLetter  UserState = "choosing_letter"
	StateChoosingTeacher UserState = "choosing_teacher"

	// Общий хвост
	StateChoosingAction             UserState = "choosing_action"
	StateReadingSchedule            UserState = "reading_schedule"
	StateWaitingSubscriptionConfirm UserState = "waiting_subscription_confirm"
)

// Ключи данных сессии
const (
	KeyBranch    = "branch"
	KeyFacultyID = "faculty_id"
	KeyGrade     = "grade"
	KeyLetter    = "letter"
	KeyObjID     = "obj_id"
)

// Data данные сессии. После JSON-хранилища числа приходят как float64,
// поэтому чтение идёт через типизированные геттеры.
type Data map[string]any

// Clone возвращает копию данных
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge возвращает копию с наложенными значениями partial
func (d Data) Merge(partial Data) Data {
	out := d.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// String читает строковое значение
func (d Data) String(key string) (string, bool) {
	switch v := d[key].(type) {
	case string:
		return v, v != ""
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// Int64 читает целое значение
func (d Data) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Int читает целое значение как int
func (d Data) Int(key string) (int, bool) {
	n, ok := d.Int64(key)
	return int(n), ok
}

// Session состояние и данные одного пользователя в одном чате
type Session struct {
	State UserState `json:"state"`
	Data  Data      `json:"data"`
}

// Key ключ сессии: пара (чат, пользователь)
type Key struct {
	ChatID int64
	UserID int64
}

func (k Key) String() string {
	return strconv.FormatInt(k.ChatID, 10) + ":" + strconv.FormatInt(k.UserID, 10)
}

// Store хранилище сессий с TTL.
// Get возвращает nil, nil если сессии нет или она истекла.
type Store interface {
	Get(ctx context.Context, key Key) (*Session, error)
	Set(ctx context.Context, key Key, s *Session) error
	Update(ctx context.Context, key Key, partial Data) error
	Clear(ctx context.Context, key Key) error
}
