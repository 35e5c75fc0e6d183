package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputNotAccepted — ввод не принимается на текущем шаге
// (вызов адаптера в процессе, диалог завершён, выбор вне списка).
// Журнал при этом не меняется.
var ErrInputNotAccepted = errors.New("input not accepted at current step")

// Ошибки адаптеров. Реализации портов обязаны возвращать ошибки,
// совместимые с ними через errors.Is, иначе ошибка считается транспортной.
var (
	// ErrInvalidCredentials — неверный e-mail или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTransport — сетевая ошибка или non-2xx без структурированных деталей.
	ErrTransport = errors.New("transport error")
	// ErrValidation — бэкенд отклонил данные регистрации.
	ErrValidation = errors.New("validation error")
)

// ValidationError — отказ с деталями от бэкенда.
//
// Messages — сообщения в порядке, в котором их вернул сервер.
type ValidationError struct {
	StatusCode int
	Messages   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (status %d): %s", e.StatusCode, e.Message())
}

// Is реализует интерфейс для errors.Is().
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message склеивает сообщения через ", " для показа в чате.
func (e *ValidationError) Message() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, ", ")
}
