package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// Ошибки клиента совпадают с ошибками портов flow, чтобы машины
// состояний различали их через errors.Is.
var (
	ErrInvalidCredentials = flow.ErrInvalidCredentials
	ErrTransport          = flow.ErrTransport
	ErrValidation         = flow.ErrValidation
)

// ValidationError — отказ регистрации с деталями от бэкенда.
type ValidationError = flow.ValidationError

// ErrorType — класс ошибки для логов и диагностики.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuthFailed
	ErrTimeout
	ErrNetwork
	ErrRateLimit
	ErrServer
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	case ErrServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// HumanMessage — объяснение для продавца, пишется в лог рядом с ошибкой.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrAuthFailed:
		return "Sessão inválida ou expirada. Entre novamente."
	case ErrTimeout:
		return "O servidor demorou para responder. Tente novamente."
	case ErrNetwork:
		return "Sem conexão com o servidor. Verifique a sua internet."
	case ErrRateLimit:
		return "Muitas tentativas seguidas. Aguarde um pouco."
	case ErrServer:
		return "O servidor está com problemas. Tente mais tarde."
	default:
		return "Ocorreu um erro inesperado."
	}
}

// APIError — non-2xx ответ без структурированных деталей.
//
// Поддерживает errors.Is(err, ErrTransport).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("portal api error: status %d, body: %s", e.StatusCode, body)
}

// Is реализует интерфейс для errors.Is().
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// ClassifyError классифицирует ошибку по типу.
//
//   - ErrAuthFailed: 401/403, неверные учётные данные
//   - ErrTimeout: deadline exceeded, timeout
//   - ErrNetwork: connection refused, no such host
//   - ErrRateLimit: 429
//   - ErrServer: 5xx
//   - ErrUnknown: всё остальное
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	if errors.Is(err, ErrInvalidCredentials) {
		return ErrAuthFailed
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return ErrAuthFailed
		case apiErr.StatusCode == 429:
			return ErrRateLimit
		case apiErr.StatusCode >= 500:
			return ErrServer
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return ErrTimeout
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		return ErrNetwork
	}
	return ErrUnknown
}

// parseDetail извлекает сообщения из {"detail": ...}.
//
// detail бывает строкой или списком объектов {"msg": ...}
// (ошибки валидации FastAPI). Порядок сообщений сохраняется.
func parseDetail(body []byte) []string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(envelope.Detail, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return []string{single}
		}
		return nil
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return nil
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if m := strings.TrimSpace(it.Msg); m != "" {
			msgs = append(msgs, m)
		}
	}
	return msgs
}
