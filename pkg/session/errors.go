// Package session хранит сессию продавца и отметки об отправленных документах.
//
// Хранилище (Store) — простой key-value без логики истечения, аналог
// localStorage. Жизненным циклом сессии управляет Manager: сессия
// создаётся при успешной аутентификации и удаляется при выходе (Sair).
package session

import "fmt"

// ErrKeyNotFound возвращается когда ключа нет в хранилище.
var ErrKeyNotFound = fmt.Errorf("key not found")

// ErrNoSession возвращается когда продавец не вошёл в систему.
var ErrNoSession = fmt.Errorf("no active session")

// ErrSessionExpired возвращается когда срок access token истёк.
var ErrSessionExpired = fmt.Errorf("session expired")

// KeyNotFoundError — ошибка с контекстом ключа.
//
// Поддерживает errors.Is(err, ErrKeyNotFound).
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

// Is реализует интерфейс для errors.Is().
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// WrapKeyNotFound оборачивает ключ в KeyNotFoundError.
func WrapKeyNotFound(key string) error {
	return &KeyNotFoundError{Key: key}
}
