package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrSchema     = errors.New("unexpected resource schema")
)

// RemoteError ошибка обращения к API: сеть, 4xx/5xx или несовпадение схемы
type RemoteError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *RemoteError) Error() string {
	var sb strings.Builder
	sb.WriteString("api ")
	sb.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound проверяет, что ресурс не найден
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRemote проверяет, что ошибка пришла от API
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
