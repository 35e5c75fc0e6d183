// Package chat реализует журнал сообщений диалога (Message Log).
//
// Журнал только дописывается. Единственные разрешённые изменения —
// удаление индикаторов набора (typing) и удаление блоков с вариантами
// ответа после выбора. Порядок отображения всегда совпадает с порядком
// добавления.
//
// Машины состояний не меняют журнал напрямую: они возвращают список
// Command, который применяет единственный владелец журнала через Log.Apply.
package chat

import (
	"fmt"
	"strings"
)

// Kind — тип записи в журнале.
type Kind int

const (
	// KindAssistantText — реплика ассистента.
	KindAssistantText Kind = iota
	// KindUserText — реплика продавца.
	KindUserText
	// KindOptionPrompt — кнопки с вариантами ответа.
	KindOptionPrompt
	// KindTypingIndicator — "ассистент печатает", пока идёт запрос к API.
	KindTypingIndicator
)

// String возвращает имя типа для логов и тестов.
func (k Kind) String() string {
	switch k {
	case KindAssistantText:
		return "assistant_text"
	case KindUserText:
		return "user_text"
	case KindOptionPrompt:
		return "option_prompt"
	case KindTypingIndicator:
		return "typing_indicator"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Removable сообщает, можно ли удалять записи этого типа из журнала.
func (k Kind) Removable() bool {
	return k == KindOptionPrompt || k == KindTypingIndicator
}

// Option — один вариант ответа (кнопка).
type Option struct {
	Label string `json:"label"` // Текст на кнопке ("SIM")
	Value string `json:"value"` // Значение для машины состояний ("sim")
}

// Message — запись журнала. После добавления не меняется.
type Message struct {
	ID      string
	Kind    Kind
	Text    string   // Для текстовых типов
	Options []Option // Только для KindOptionPrompt
}

// Assistant создаёт реплику ассистента.
func Assistant(text string) Message {
	return Message{Kind: KindAssistantText, Text: text}
}

// User создаёт реплику продавца.
func User(text string) Message {
	return Message{Kind: KindUserText, Text: text}
}

// Options создаёт блок вариантов ответа.
func Options(opts ...Option) Message {
	return Message{Kind: KindOptionPrompt, Options: append([]Option(nil), opts...)}
}

// Typing создаёт индикатор набора.
func Typing() Message {
	return Message{Kind: KindTypingIndicator}
}

// String — компактное представление для отладки.
func (m Message) String() string {
	switch m.Kind {
	case KindOptionPrompt:
		labels := make([]string, len(m.Options))
		for i, o := range m.Options {
			labels[i] = o.Label
		}
		return fmt.Sprintf("[%s] %s", m.Kind, strings.Join(labels, " | "))
	case KindTypingIndicator:
		return fmt.Sprintf("[%s]", m.Kind)
	default:
		return fmt.Sprintf("[%s] %s", m.Kind, m.Text)
	}
}
